package modeler_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/modeler"
)

// countingObserver считает вызовы Observer.
type countingObserver struct {
	modeler.NopObserver
	flows, updates, skips int
}

func (o *countingObserver) FlowSelected(string, bool) { o.flows++ }

func (o *countingObserver) ElementUpdated(string, string, domain.Location, string) { o.updates++ }

func (o *countingObserver) UpdateSkipped(domain.Location, modeler.SkipReason) { o.skips++ }

func TestObservers_FanOut(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	store := modeler.New(modeler.Config{
		Catalog:  mapCatalog{"f": twoLineFlow()},
		Observer: modeler.Observers{a, b},
	})

	store.SelectFlow("f")
	store.UpdateElement(domain.Location{Line: 0, Position: 1}, &domain.TableValue{})
	store.UpdateElement(domain.Location{Line: 9}, &domain.TableValue{})

	for name, o := range map[string]*countingObserver{"a": a, "b": b} {
		if o.flows != 1 || o.updates != 1 || o.skips != 1 {
			t.Errorf("observer %s: flows=%d updates=%d skips=%d", name, o.flows, o.updates, o.skips)
		}
	}
}

func TestRecorder_Reset(t *testing.T) {
	rec := &modeler.Recorder{}
	store := modeler.New(modeler.Config{Catalog: mapCatalog{"f": twoLineFlow()}, Observer: rec})
	store.SelectFlow("f")

	store.UpdateElement(domain.Location{Line: 0, Position: 0}, nil)
	if rec.Last != modeler.SkipNilValue {
		t.Fatalf("expected nil_value, got %q", rec.Last)
	}

	rec.Reset()
	if rec.Last != modeler.SkipNone || rec.ElementID != "" {
		t.Errorf("expected cleared recorder, got %+v", rec)
	}
}

func TestSkipReason_String(t *testing.T) {
	if got := modeler.SkipNone.String(); got != "applied" {
		t.Errorf("expected applied, got %q", got)
	}
	if got := modeler.SkipKindMismatch.String(); got != "kind_mismatch" {
		t.Errorf("expected kind_mismatch, got %q", got)
	}
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := modeler.New(modeler.Config{
		Catalog:  mapCatalog{"f": twoLineFlow()},
		Observer: modeler.NewLogObserver(logger),
	})
	store.SelectFlow("f")
	store.UpdateElement(domain.Location{Line: 0, Position: 1}, &domain.FunctionValue{})

	out := buf.String()
	for _, want := range []string{
		`msg="flow selected" flow_id=f found=true`,
		`msg="element update skipped" line=0 position=1 reason=kind_mismatch`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
