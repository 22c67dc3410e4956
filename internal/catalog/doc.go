// Package catalog предоставляет источники flows для modeler.Store.
//
// Структура:
//   - catalog.go  — Memory (неизменяемый каталог) и Live (атомарная подмена)
//   - example.go  — встроенный демонстрационный flow "a"
//   - file.go     — чтение каталога из YAML/JSON
//   - source.go   — источники: файл, PostgreSQL, статический каталог
//   - reloader.go — перезагрузка по cron и при изменении файла
package catalog
