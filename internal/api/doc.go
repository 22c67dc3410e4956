// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go         — Handler с DI (каталог, сессии, хранилище, publisher, logger)
//   - routes.go          — регистрация маршрутов
//   - middleware.go      — middleware (logging, recovery)
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - session.go         — реестр сессий редактирования
//   - flow_handler.go    — обработчики для /flows
//   - session_handler.go — обработчики для /sessions
//
// Каждая сессия владеет одним modeler.Store. Правка, которая ничего
// не изменила, отвечает 200 с applied=false и причиной пропуска.
package api
