// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go  — structured logging через slog
//   - metrics.go  — Prometheus метрики
//   - observer.go — modeler.Observer, который пишет в метрики
//
// Все сервисы используют единый формат логирования
// и экспортируют метрики на /metrics endpoint.
package telemetry
