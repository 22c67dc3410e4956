package catalog

import (
	"maps"
	"slices"
	"sync/atomic"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// Memory — неизменяемый in-memory каталог flows.
//
// ID может быть зарегистрирован без flow (nil): такой ID виден в IDs,
// но LookupFlow для него возвращает ok=false.
type Memory struct {
	flows map[string]*domain.Flow
}

// NewMemory создаёт каталог из карты flowID → Flow.
// Карта копируется; сами flows не копируются и не должны изменяться.
func NewMemory(flows map[string]*domain.Flow) *Memory {
	m := &Memory{flows: make(map[string]*domain.Flow, len(flows))}
	for id, f := range flows {
		if f != nil && f.ID == "" {
			named := *f
			named.ID = id
			f = &named
		}
		m.flows[id] = f
	}
	return m
}

// LookupFlow возвращает flow по ID.
func (m *Memory) LookupFlow(id string) (*domain.Flow, bool) {
	if m == nil {
		return nil, false
	}
	f := m.flows[id]
	return f, f != nil
}

// IDs возвращает все зарегистрированные ID по возрастанию.
func (m *Memory) IDs() []string {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m.flows))
}

// Len возвращает количество доступных (не nil) flows.
func (m *Memory) Len() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, f := range m.flows {
		if f != nil {
			n++
		}
	}
	return n
}

// Filter возвращает новый каталог, в котором flows, не прошедшие keep,
// зарегистрированы без flow.
func (m *Memory) Filter(keep func(id string, f *domain.Flow) bool) *Memory {
	if m == nil {
		return NewMemory(nil)
	}
	out := &Memory{flows: make(map[string]*domain.Flow, len(m.flows))}
	for id, f := range m.flows {
		if f != nil && !keep(id, f) {
			f = nil
		}
		out.flows[id] = f
	}
	return out
}

// Live — каталог, содержимое которого можно атомарно заменить.
//
// Чтения не блокируются. Stores, уже загрузившие flow, продолжают
// работать со своим снимком после замены.
type Live struct {
	current atomic.Pointer[Memory]
}

// NewLive создаёт Live с начальным содержимым.
func NewLive(m *Memory) *Live {
	l := &Live{}
	if m == nil {
		m = NewMemory(nil)
	}
	l.current.Store(m)
	return l
}

// LookupFlow возвращает flow по ID из текущего содержимого.
func (l *Live) LookupFlow(id string) (*domain.Flow, bool) {
	return l.current.Load().LookupFlow(id)
}

// Current возвращает текущее содержимое.
func (l *Live) Current() *Memory {
	return l.current.Load()
}

// Swap заменяет содержимое и возвращает предыдущее.
func (l *Live) Swap(m *Memory) *Memory {
	return l.current.Swap(m)
}
