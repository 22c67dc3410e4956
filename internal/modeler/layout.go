package modeler

import (
	"iter"
	"slices"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// Slot — готовый к отрисовке слот subflow.
type Slot struct {
	// Location — адрес слота.
	Location domain.Location `json:"location"`

	// ElementID — ID из строки.
	ElementID string `json:"element_id"`

	// Element — элемент слота; nil, если ID не разрешается.
	Element *domain.Element `json:"element"`

	// PriorID — ID предыдущего элемента в строке ("" для позиции 0).
	PriorID string `json:"prior_id,omitempty"`

	// Prior — предыдущий элемент в той же строке; nil означает "нет".
	Prior *domain.Element `json:"prior"`
}

// HasPrior возвращает true, если у слота есть предыдущий элемент в строке.
func (s Slot) HasPrior() bool {
	return s.Prior != nil
}

// RenderLayout возвращает последовательность слотов текущего subflow:
// по строкам, внутри строки по позициям.
//
// Последовательность ленивая, конечная и перезапускаемая. Она строится
// заново при каждом вызове и фиксирует состояние на момент вызова:
// последующие UpdateElement её не меняют. Для пустого состояния или
// несуществующего subflow последовательность пуста.
func (s *Store) RenderLayout() iter.Seq[Slot] {
	return layout(s.flow.Subflow(s.subflow))
}

// Layout собирает RenderLayout в срез.
func (s *Store) Layout() []Slot {
	return slices.Collect(s.RenderLayout())
}

func layout(sf *domain.Subflow) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		if sf == nil {
			return
		}

		for li, line := range sf.Lines {
			for pi, elementID := range line {
				slot := Slot{
					Location:  domain.Location{Line: li, Position: pi},
					ElementID: elementID,
					Element:   sf.Elements[elementID],
				}
				if pi > 0 {
					slot.PriorID = line[pi-1]
					slot.Prior = sf.Elements[slot.PriorID]
				}

				if !yield(slot) {
					return
				}
			}
		}
	}
}
