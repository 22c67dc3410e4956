package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaiso/flowmodeler/internal/catalog"
	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/modeler"
)

func exampleSlots(t *testing.T) []modeler.Slot {
	t.Helper()

	store := modeler.New(modeler.Config{Catalog: catalog.Example()})
	store.SelectFlow("a")
	return store.Layout()
}

func TestBuild_ExampleFlow(t *testing.T) {
	d := Build(exampleSlots(t))

	var ids []string
	for _, s := range d.Shapes {
		ids = append(ids, s.ElementID)
	}
	if diff := cmp.Diff([]string{"e1", "e2", "e3", "e4", "e0"}, ids); diff != "" {
		t.Errorf("shapes mismatch (-want +got):\n%s", diff)
	}

	// Соединители только внутри строки: e1→e2, e2→e3, e3→e4.
	want := []Connector{
		{From: "e1", To: "e2", X1: 75, Y1: 125, X2: 350, Y2: 135},
		{From: "e2", To: "e3", X1: 350, Y1: 135, X2: 700, Y2: 175},
		{From: "e3", To: "e4", X1: 700, Y1: 175, X2: 1050, Y2: 135},
	}
	if diff := cmp.Diff(want, d.Connectors); diff != "" {
		t.Errorf("connectors mismatch (-want +got):\n%s", diff)
	}

	if d.Width != 1170 {
		t.Errorf("expected width 1170, got %g", d.Width)
	}
	if d.Height != 670 {
		t.Errorf("expected height 670, got %g", d.Height)
	}
}

func TestBuild_Shapes(t *testing.T) {
	d := Build(exampleSlots(t))

	byID := make(map[string]Shape)
	for _, s := range d.Shapes {
		byID[s.ElementID] = s
	}

	if s := byID["e0"]; !s.Circle || s.Radius != 50 || s.Label != "return" {
		t.Errorf("unexpected return shape: %+v", s)
	}
	if s := byID["e2"]; s.Circle || s.Width != 200 || s.Label != "Input Table" {
		t.Errorf("unexpected table shape: %+v", s)
	}
	if s := byID["e3"]; s.Label != "Square" {
		t.Errorf("expected function label Square, got %q", s.Label)
	}
}

func TestBuild_SkipsUnresolved(t *testing.T) {
	el := &domain.Element{Kind: domain.KindInput, Position: domain.Position{X: 10, Y: 10}}
	slots := []modeler.Slot{
		{ElementID: "missing"},
		{ElementID: "e1", Element: el, PriorID: "missing"},
	}

	d := Build(slots)
	if len(d.Shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(d.Shapes))
	}
	if len(d.Connectors) != 0 {
		t.Errorf("expected no connectors, got %d", len(d.Connectors))
	}
	if d.Shapes[0].Radius != defaultRadius {
		t.Errorf("expected default radius, got %g", d.Shapes[0].Radius)
	}
}

func TestSVGString(t *testing.T) {
	out, err := SVGString(exampleSlots(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`<circle cx="75" cy="600" r="50"`,
		`<rect x="250" y="10" width="200" height="250"`,
		`>Output Table</text>`,
		`data-from="e3" data-to="e4"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSVGString_EscapesLabels(t *testing.T) {
	el := &domain.Element{
		Kind:  domain.KindTable,
		Value: &domain.TableValue{Name: `<a & "b">`},
	}

	out, err := SVGString([]modeler.Slot{{ElementID: "t", Element: el}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<a &") {
		t.Error("label not escaped")
	}
	if !strings.Contains(out, "&lt;a &amp; &#34;b&#34;&gt;") {
		t.Errorf("unexpected escaping in %s", out)
	}
}

func TestSVGString_Empty(t *testing.T) {
	out, err := SVGString(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("unexpected empty document: %q", out)
	}
}
