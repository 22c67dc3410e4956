// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление обменника и привязок очередей
//   - publisher.go  — публикация событий
//   - consumer.go   — потребление событий из очередей
//
// Типы сообщений:
//   - element.updated — правка элемента применена в сессии
//   - catalog.changed — flow в каталоге добавлен, изменён или удалён
//
// Обменник:
//   - modeler.events — topic обменник всех событий
//
// Каждый экземпляр API держит собственную auto-delete очередь,
// привязанную к catalog.changed, и перезагружает каталог по событию.
package mq
