// Package cli реализует инструмент командной строки modeler.
//
// # Обзор
//
// CLI — клиентская утилита для modeler API. Работает через HTTP
// и не импортирует внутренние пакеты сервера.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для modeler API: запросы, разбор ответов
// (DataResponse, ListResponse, ErrorResponse) и обработка ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	session, err := client.OpenSession("a")
//
// ## Output
//
// Форматирование вывода:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//   - Raw — SVG и документы как есть
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr:
// modeler session svg ID > a1.svg
//
// ## Commands
//
// Cobra-команды по ресурсам:
//   - flow: list, show, import, delete, validate
//   - session: open, show, close, flow, subflow, update, layout, svg
//
// Каждая группа создаётся фабричной функцией (NewFlowCmd, NewSessionCmd),
// принимающей clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
