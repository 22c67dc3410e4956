package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/engine"
)

func TestExample(t *testing.T) {
	m := Example()

	if diff := cmp.Diff([]string{"a", "b", "c"}, m.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 available flow, got %d", m.Len())
	}

	flow, ok := m.LookupFlow("a")
	if !ok {
		t.Fatal("expected flow a")
	}
	if err := engine.ValidateFlow(flow); err != nil {
		t.Errorf("example flow should be valid: %v", err)
	}

	for _, id := range []string{"b", "c", "zzz"} {
		if _, ok := m.LookupFlow(id); ok {
			t.Errorf("expected %s to have no flow", id)
		}
	}
}

func TestExampleFlow_FreshCopy(t *testing.T) {
	a, b := ExampleFlow(), ExampleFlow()
	if a == b || a.Subflow("a1") == b.Subflow("a1") {
		t.Fatal("expected independent values")
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("expected equal content (-a +b):\n%s", diff)
	}
}

func TestNewMemory_FillsMissingID(t *testing.T) {
	src := &domain.Flow{Main: "m"}
	m := NewMemory(map[string]*domain.Flow{"x": src})

	flow, _ := m.LookupFlow("x")
	if flow.ID != "x" {
		t.Errorf("expected ID x, got %q", flow.ID)
	}
	if src.ID != "" {
		t.Error("source flow must not be modified")
	}
}

func TestMemory_Nil(t *testing.T) {
	var m *Memory
	if _, ok := m.LookupFlow("a"); ok {
		t.Error("nil catalog should have no flows")
	}
	if m.IDs() != nil || m.Len() != 0 {
		t.Error("nil catalog should be empty")
	}
}

func TestMemory_Filter(t *testing.T) {
	m := Example().Filter(func(id string, _ *domain.Flow) bool { return id != "a" })

	if diff := cmp.Diff([]string{"a", "b", "c"}, m.IDs()); diff != "" {
		t.Errorf("filter must keep IDs (-want +got):\n%s", diff)
	}
	if _, ok := m.LookupFlow("a"); ok {
		t.Error("expected a to be filtered out")
	}
}

func TestLive_Swap(t *testing.T) {
	live := NewLive(nil)
	if _, ok := live.LookupFlow("a"); ok {
		t.Fatal("expected empty catalog")
	}

	first := Example()
	live.Swap(first)

	held, ok := live.LookupFlow("a")
	if !ok {
		t.Fatal("expected flow a after swap")
	}

	prev := live.Swap(NewMemory(nil))
	if prev != first {
		t.Error("Swap should return previous content")
	}
	if _, ok := live.LookupFlow("a"); ok {
		t.Error("expected a to be gone after swap")
	}
	if held.Subflow("a1") == nil {
		t.Error("previously loaded flow must stay usable")
	}
}

const catalogYAML = `
flows:
  sq:
    main: main
    subflows:
      main:
        lines:
          - [in, out]
        elements:
          in:
            type: input
            position: {x: 10, y: 20}
            dimensions: {radius: 50}
            value: {}
          out:
            type: table
            dimensions: {width: 200, height: 100}
            value:
              name: Out
              var: out
              columns:
                - {name: V, var: v, type: Number}
              rows:
                - [4]
          ret:
            type: return
            value: {}
  empty: null
`

func TestDecode(t *testing.T) {
	m, err := Decode([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"empty", "sq"}, m.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}

	flow, ok := m.LookupFlow("sq")
	if !ok {
		t.Fatal("expected flow sq")
	}
	if flow.ID != "sq" || flow.Main != "main" {
		t.Errorf("unexpected flow header: id=%q main=%q", flow.ID, flow.Main)
	}

	sf := flow.Subflow("main")
	if diff := cmp.Diff([]domain.Line{{"in", "out"}}, sf.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	out, ok := sf.Element("out").Value.(*domain.TableValue)
	if !ok {
		t.Fatalf("expected table value, got %T", sf.Element("out").Value)
	}
	if out.Name != "Out" || len(out.Columns) != 1 || out.Rows[0][0] != float64(4) {
		t.Errorf("unexpected table value: %+v", out)
	}
	if sf.Element("in").Position != (domain.Position{X: 10, Y: 20}) {
		t.Errorf("unexpected position: %+v", sf.Element("in").Position)
	}

	if err := engine.ValidateFlow(flow); err != nil {
		t.Errorf("decoded flow should be valid: %v", err)
	}
}

func TestDecode_NumericIDs(t *testing.T) {
	data := `
flows:
  n:
    main: 1
    subflows:
      1:
        lines:
          - [1, 2]
        elements:
          1: {type: input, value: {}}
          2: {type: return, value: {}, args: [1]}
`
	m, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	flow, ok := m.LookupFlow("n")
	if !ok {
		t.Fatal("expected flow n")
	}
	if flow.Main != "1" {
		t.Errorf("expected main %q, got %q", "1", flow.Main)
	}

	sf := flow.Subflow("1")
	if diff := cmp.Diff([]domain.Line{{"1", "2"}}, sf.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if sf.Element("1") == nil || sf.Element("2") == nil {
		t.Fatalf("expected elements 1 and 2, got %v", sf.Elements)
	}
	if diff := cmp.Diff([]string{"1"}, sf.Element("2").Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if err := engine.ValidateFlow(flow); err != nil {
		t.Errorf("decoded flow should be valid: %v", err)
	}
}

func TestDecode_BrokenFlowRegisteredWithoutFlow(t *testing.T) {
	data := catalogYAML + `  bad:
    subflows:
      s:
        elements:
          e: {type: chart}
`
	m, err := Decode([]byte(data))

	var failed FlowErrors
	if !errors.As(err, &failed) {
		t.Fatalf("expected FlowErrors, got %v", err)
	}
	if _, ok := failed["bad"]; !ok || len(failed) != 1 {
		t.Errorf("expected only bad to fail, got %v", failed)
	}
	if m == nil {
		t.Fatal("expected partial catalog")
	}
	if diff := cmp.Diff([]string{"bad", "empty", "sq"}, m.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if _, ok := m.LookupFlow("bad"); ok {
		t.Error("broken flow must be registered without flow")
	}
	if _, ok := m.LookupFlow("sq"); !ok {
		t.Error("expected flow sq")
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "malformed", data: "flows: [", want: ErrInvalidDocument},
		{
			name: "unknown kind",
			data: "flows:\n  x:\n    subflows:\n      s:\n        elements:\n          e: {type: chart}\n",
			want: domain.ErrUnknownElementKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeFlow(t *testing.T) {
	data := `{"id":"j","main":"s","subflows":{"s":{"lines":[["r"]],"elements":{"r":{"type":"return","value":{}}}}}}`

	flow, err := DecodeFlow([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.ID != "j" || !flow.Subflow("s").HasReturn() {
		t.Errorf("unexpected flow: %+v", flow)
	}

	if _, err := DecodeFlow([]byte("")); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument for empty document, got %v", err)
	}
}
