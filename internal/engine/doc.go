// Package engine проверяет документы flow перед загрузкой в каталог.
//
// Включает:
//   - validate.go — ValidateFlow/Problems: инварианты flow, subflow и элементов
//   - dag.go      — граф потока данных subflow по ссылкам args/returns
//   - errors.go   — sentinel ошибки и ValidationError
//
// Store никогда не валидирует flow сам: каталог отбрасывает
// невалидные flows при загрузке, а API — при импорте.
package engine
