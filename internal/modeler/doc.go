// Package modeler содержит модель редактора flow (FlowGraphStore).
//
// Включает:
//   - store.go    — Store: выбор flow/subflow и замена value элемента
//   - layout.go   — RenderLayout: ленивая последовательность слотов для отрисовки
//   - observer.go — диагностический хук для выборов, правок и пропущенных правок
//
// Store не потокобезопасен: им владеет один контекст (сессия редактора).
// Ошибки разрешения (неизвестный ID, слот вне диапазона, пустое value)
// никогда не возвращаются и не паникуют: операция просто ничего не делает,
// а причина сообщается Observer'у.
//
// Использование:
//
//	store := modeler.New(modeler.Config{
//	    Catalog:  catalog.Example(),
//	    Observer: modeler.NewLogObserver(logger), // опционально
//	})
//
//	store.SelectFlow("a")
//	store.UpdateElement(domain.Location{Line: 0, Position: 1}, &domain.TableValue{...})
//
//	for slot := range store.RenderLayout() {
//	    // отрисовка slot.Element рядом с slot.Prior
//	}
package modeler
