package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/engine"
	"github.com/shaiso/flowmodeler/internal/telemetry"
)

// cronParser — парсер cron-выражений (5 полей и дескрипторы вида "@every 1m").
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Reloader загружает каталог из Source и подменяет содержимое Live.
//
// Flows, которые не удалось разобрать (FlowErrors) или которые не прошли
// engine.ValidateFlow, регистрируются без flow (их ID виден, но SelectFlow
// по ним даёт пустое состояние).
type Reloader struct {
	live   *Live
	source Source
	logger *slog.Logger
}

// NewReloader создаёт Reloader.
func NewReloader(live *Live, source Source, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		live:   live,
		source: source,
		logger: telemetry.WithSource(logger, source.Name()),
	}
}

// Reload выполняет одну перезагрузку каталога.
// При ошибке загрузки текущее содержимое Live сохраняется.
func (r *Reloader) Reload(ctx context.Context) error {
	m, err := r.source.Load(ctx)
	if err != nil {
		var failed FlowErrors
		if m == nil || !errors.As(err, &failed) {
			telemetry.CatalogReloads.WithLabelValues(r.source.Name(), "error").Inc()
			return fmt.Errorf("load %s catalog: %w", r.source.Name(), err)
		}
		for _, id := range slices.Sorted(maps.Keys(failed)) {
			r.logger.Warn("flow rejected", "flow_id", id, "error", failed[id])
		}
	}

	m = m.Filter(func(id string, f *domain.Flow) bool {
		if err := engine.ValidateFlow(f); err != nil {
			r.logger.Warn("flow rejected", "flow_id", id, "error", err)
			return false
		}
		return true
	})

	r.live.Swap(m)

	telemetry.CatalogReloads.WithLabelValues(r.source.Name(), "ok").Inc()
	telemetry.CatalogFlows.Set(float64(m.Len()))
	r.logger.Info("catalog reloaded", "flows", m.Len(), "ids", len(m.IDs()))

	return nil
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// RunCron перезагружает каталог по cron-расписанию до отмены ctx.
// Ошибки отдельных перезагрузок логируются и не останавливают цикл.
func (r *Reloader) RunCron(ctx context.Context, expr string) error {
	c := cron.New(cron.WithParser(cronParser))

	_, err := c.AddFunc(expr, func() {
		if err := r.Reload(ctx); err != nil {
			r.logger.Error("scheduled catalog reload failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule catalog reload %q: %w", expr, err)
	}

	r.logger.Info("catalog refresh scheduled", "cron", expr)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// WatchFile перезагружает каталог при изменении файла path до отмены ctx.
//
// Наблюдается каталог, содержащий файл: редакторы часто заменяют файл
// через rename, и наблюдение за самим файлом теряется.
func (r *Reloader) WatchFile(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	r.logger.Info("watching catalog file", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			r.logger.Debug("catalog file changed", "op", event.Op.String())
			if err := r.Reload(ctx); err != nil {
				r.logger.Error("catalog reload failed", "error", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("catalog watcher error", "error", err)
		}
	}
}
