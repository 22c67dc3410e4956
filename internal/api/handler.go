package api

import (
	"context"
	"log/slog"

	"github.com/shaiso/flowmodeler/internal/catalog"
	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/mq"
)

// FlowWriter — хранилище, в которое импортируются flows (repo.FlowRepo).
type FlowWriter interface {
	Upsert(ctx context.Context, flow *domain.Flow) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher — публикация событий modeler (mq.Publisher).
type EventPublisher interface {
	PublishElementUpdated(ctx context.Context, payload mq.ElementUpdatedPayload) error
	PublishCatalogChanged(ctx context.Context, flowID string) error
}

// CatalogReloader — перезагрузка каталога (catalog.Reloader).
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	catalog   *catalog.Live
	sessions  *Sessions
	flows     FlowWriter
	publisher EventPublisher
	reloader  CatalogReloader
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	// Catalog — текущий каталог flows.
	Catalog *catalog.Live

	// Sessions — реестр сессий редактирования.
	Sessions *Sessions

	// Flows — хранилище для импорта и удаления (nil — недоступно).
	Flows FlowWriter

	// Publisher — публикация событий (nil — события отключены).
	Publisher EventPublisher

	// Reloader — локальная перезагрузка каталога после импорта и удаления.
	Reloader CatalogReloader

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		catalog:   cfg.Catalog,
		sessions:  cfg.Sessions,
		flows:     cfg.Flows,
		publisher: cfg.Publisher,
		reloader:  cfg.Reloader,
		logger:    logger,
	}
}
