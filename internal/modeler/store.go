package modeler

import (
	"maps"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// Catalog — источник flows для Store.
//
// LookupFlow возвращает ok=false, если flow с таким ID нет
// (или ID зарегистрирован без flow).
type Catalog interface {
	LookupFlow(id string) (*domain.Flow, bool)
}

// Store — in-memory модель одного редактируемого flow.
//
// Состояние:
//   - текущий flow (nil — ничего не загружено)
//   - ID текущего subflow ("" — ничего не выбрано)
//
// Ограничений на переходы нет: любой ID можно выбрать из любого
// состояния, в том числе несуществующий.
type Store struct {
	catalog  Catalog
	observer Observer

	flow    *domain.Flow
	subflow string
}

// Config — конфигурация Store.
type Config struct {
	// Catalog — каталог flows. Nil — любой SelectFlow даёт пустое состояние.
	Catalog Catalog

	// Observer — диагностический хук (опционально).
	Observer Observer
}

// New создаёт пустой Store.
func New(cfg Config) *Store {
	observer := cfg.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	return &Store{
		catalog:  cfg.Catalog,
		observer: observer,
	}
}

// Flow возвращает текущий снимок flow (nil, если ничего не загружено).
// Снимок не изменяется последующими вызовами UpdateElement.
func (s *Store) Flow() *domain.Flow {
	return s.flow
}

// SubflowID возвращает ID выбранного subflow.
func (s *Store) SubflowID() string {
	return s.subflow
}

// Subflow возвращает выбранный subflow или nil.
func (s *Store) Subflow() *domain.Subflow {
	return s.flow.Subflow(s.subflow)
}

// SelectFlow загружает flow из каталога целиком.
//
// Если flow найден — он становится текущим, а текущим subflow становится
// его main. Иначе состояние сбрасывается в пустое.
func (s *Store) SelectFlow(id string) {
	var (
		flow  *domain.Flow
		found bool
	)
	if s.catalog != nil {
		flow, found = s.catalog.LookupFlow(id)
	}

	if !found || flow == nil {
		s.flow = nil
		s.subflow = ""
		s.observer.FlowSelected(id, false)
		return
	}

	s.flow = flow
	s.subflow = flow.Main
	s.observer.FlowSelected(id, true)
}

// SelectSubflow выбирает subflow без проверки существования.
// Несуществующий ID даёт состояние, в котором RenderLayout пуст.
func (s *Store) SelectSubflow(id string) {
	s.subflow = id
	s.observer.SubflowSelected(id, s.flow.Subflow(id) != nil)
}

// UpdateElement заменяет value элемента в слоте loc.
//
// Правка применяется, только если:
//   - слот loc существует в текущем subflow
//   - элемент с ID из слота существует
//   - текущее value элемента не пустое
//   - value не пустое и его вид совпадает с видом элемента
//
// Иначе это no-op: состояние не меняется, причина уходит в Observer.
//
// Новый flow строится copy-on-write: копируются только Flow, карта
// subflows, изменяемый Subflow, его карта элементов и сам элемент.
// Остальное разделяется со старым снимком, который остаётся неизменным.
// Store становится владельцем value.
func (s *Store) UpdateElement(loc domain.Location, value domain.ElementValue) {
	elementID, reason := s.resolve(loc, value)
	if reason != SkipNone {
		s.observer.UpdateSkipped(loc, reason)
		return
	}

	s.flow = withElementValue(s.flow, s.subflow, elementID, value)
	s.observer.ElementUpdated(s.flow.ID, s.subflow, loc, elementID)
}

// resolve проверяет предусловия UpdateElement.
func (s *Store) resolve(loc domain.Location, value domain.ElementValue) (string, SkipReason) {
	if s.flow == nil {
		return "", SkipNoFlow
	}

	sf := s.flow.Subflow(s.subflow)
	if sf == nil {
		return "", SkipNoSubflow
	}

	if loc.Line < 0 || loc.Line >= len(sf.Lines) {
		return "", SkipLineOutOfRange
	}

	elementID, ok := sf.ElementIDAt(loc)
	if !ok {
		return "", SkipPositionOutOfRange
	}

	el := sf.Element(elementID)
	if el == nil {
		return elementID, SkipUnknownElement
	}

	if domain.IsEmpty(el.Value) {
		return elementID, SkipEmptyValue
	}

	if domain.IsEmpty(value) {
		return elementID, SkipNilValue
	}

	if value.Kind() != el.Kind {
		return elementID, SkipKindMismatch
	}

	return elementID, SkipNone
}

// withElementValue возвращает новый flow с заменённым value одного элемента.
// Исходный flow не изменяется.
func withElementValue(flow *domain.Flow, subflowID, elementID string, value domain.ElementValue) *domain.Flow {
	oldSubflow := flow.Subflows[subflowID]

	element := *oldSubflow.Elements[elementID]
	element.Value = value

	elements := maps.Clone(oldSubflow.Elements)
	elements[elementID] = &element

	subflow := *oldSubflow
	subflow.Elements = elements

	subflows := maps.Clone(flow.Subflows)
	subflows[subflowID] = &subflow

	next := *flow
	next.Subflows = subflows
	return &next
}
