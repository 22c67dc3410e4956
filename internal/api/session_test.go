package api

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/flowmodeler/internal/catalog"
	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/modeler"
)

func TestSessions_OpenGetClose(t *testing.T) {
	sessions := NewSessions(SessionsConfig{Catalog: catalog.Example()})

	s, err := sessions.Open("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions.Len() != 1 {
		t.Errorf("expected 1 session, got %d", sessions.Len())
	}

	got, err := sessions.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("expected same session, got %v, %v", got, err)
	}

	if err := sessions.Close(s.ID); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := sessions.Close(s.ID); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := sessions.Get(uuid.New()); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSession_UpdateResult(t *testing.T) {
	sessions := NewSessions(SessionsConfig{Catalog: catalog.Example()})
	s, _ := sessions.Open("a")

	result := s.UpdateElement(domain.Location{Line: 1, Position: 0}, &domain.ReturnValue{Fields: map[string]any{"x": 1}})
	if !result.Applied || result.ElementID != "e0" || result.FlowID != "a" {
		t.Errorf("unexpected result: %+v", result)
	}

	result = s.UpdateElement(domain.Location{Line: 1, Position: 0}, nil)
	if result.Applied || result.Reason != modeler.SkipNilValue {
		t.Errorf("expected nil_value skip, got %+v", result)
	}
}

func TestSession_ConcurrentUpdates(t *testing.T) {
	sessions := NewSessions(SessionsConfig{Catalog: catalog.Example()})
	s, _ := sessions.Open("a")

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.UpdateElement(domain.Location{Line: 0, Position: 0}, &domain.InputValue{Fields: map[string]any{"n": i}})
			s.Layout()
			s.State()
		}()
	}
	wg.Wait()

	_, slots := s.Layout()
	if len(slots) != 5 {
		t.Errorf("expected 5 slots, got %d", len(slots))
	}
}
