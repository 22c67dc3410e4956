package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests — количество обработанных HTTP запросов.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modeler_api_http_requests_total",
		Help: "Total HTTP requests handled by modeler-api",
	}, []string{"method", "status"})

	// FlowSelections — выборы flow в сессиях (found = "true"/"false").
	FlowSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modeler_flow_selections_total",
		Help: "Flow selections by lookup result",
	}, []string{"found"})

	// ElementUpdates — правки элементов (result = "applied" или причина пропуска).
	ElementUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modeler_element_updates_total",
		Help: "Element updates by result",
	}, []string{"result"})

	// SessionsActive — открытые сессии редактора.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modeler_sessions_active",
		Help: "Open modeler sessions",
	})

	// CatalogFlows — доступные flows в текущем каталоге.
	CatalogFlows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modeler_catalog_flows",
		Help: "Flows available in the loaded catalog",
	})

	// CatalogReloads — перезагрузки каталога по источнику и результату.
	CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modeler_catalog_reloads_total",
		Help: "Catalog reloads by source and result",
	}, []string{"source", "result"})
)
