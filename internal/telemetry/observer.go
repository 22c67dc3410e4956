package telemetry

import (
	"strconv"

	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/modeler"
)

// MetricsObserver — modeler.Observer, который считает события Store.
type MetricsObserver struct {
	modeler.NopObserver
}

func (MetricsObserver) FlowSelected(_ string, found bool) {
	FlowSelections.WithLabelValues(strconv.FormatBool(found)).Inc()
}

func (MetricsObserver) ElementUpdated(string, string, domain.Location, string) {
	ElementUpdates.WithLabelValues(modeler.SkipNone.String()).Inc()
}

func (MetricsObserver) UpdateSkipped(_ domain.Location, reason modeler.SkipReason) {
	ElementUpdates.WithLabelValues(reason.String()).Inc()
}
