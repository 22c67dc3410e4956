package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// squareFlow — flow f с одним subflow: input → table → function → table, return отдельно.
func squareFlow() *domain.Flow {
	return &domain.Flow{
		ID:   "f",
		Main: "main",
		Subflows: map[string]*domain.Subflow{
			"main": {
				Lines: []domain.Line{{"in", "t1", "fn", "t2"}, {"ret"}},
				Elements: map[string]*domain.Element{
					"ret": {Kind: domain.KindReturn, Value: &domain.ReturnValue{}, Args: []string{"t2"}},
					"in":  {Kind: domain.KindInput, Value: &domain.InputValue{}},
					"t1":  {Kind: domain.KindTable, Value: &domain.TableValue{Name: "In"}},
					"fn": {Kind: domain.KindFunction, Value: &domain.FunctionValue{
						Name:    "Square",
						Args:    []string{"t1"},
						Returns: []string{"t2"},
					}},
					"t2": {Kind: domain.KindTable, Value: &domain.TableValue{Name: "Out"}},
				},
			},
		},
	}
}

// requireProblem проверяет, что ValidateFlow возвращает ValidationError с базовой ошибкой target.
func requireProblem(t *testing.T, flow *domain.Flow, target error) *ValidationError {
	t.Helper()

	err := ValidateFlow(flow)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !errors.Is(err, target) {
		t.Errorf("expected %v, got %v", target, vErr.Err)
	}
	return vErr
}

func TestValidateFlow_Valid(t *testing.T) {
	if err := ValidateFlow(squareFlow()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFlow_Nil(t *testing.T) {
	requireProblem(t, nil, ErrNilFlow)
}

func TestValidateFlow_EmptyID(t *testing.T) {
	flow := squareFlow()
	flow.ID = ""
	requireProblem(t, flow, ErrEmptyFlowID)
}

func TestValidateFlow_MissingMain(t *testing.T) {
	flow := squareFlow()
	flow.Main = "other"
	vErr := requireProblem(t, flow, ErrMissingMainSubflow)
	if vErr.Field != "main" {
		t.Errorf("expected field main, got %q", vErr.Field)
	}
}

func TestValidateFlow_MissingReturn(t *testing.T) {
	flow := squareFlow()
	sf := flow.Subflows["main"]
	delete(sf.Elements, "ret")
	sf.Lines = sf.Lines[:1]

	vErr := requireProblem(t, flow, ErrMissingReturn)
	if vErr.SubflowID != "main" {
		t.Errorf("expected subflow main, got %q", vErr.SubflowID)
	}
}

func TestValidateFlow_ReturnNotInLines(t *testing.T) {
	// return обязателен в элементах, но строки могут на него не ссылаться.
	flow := squareFlow()
	flow.Subflows["main"].Lines = flow.Subflows["main"].Lines[:1]

	if err := ValidateFlow(flow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFlow_UnknownLineElement(t *testing.T) {
	flow := squareFlow()
	flow.Subflows["main"].Lines[1] = domain.Line{"ret", "ghost"}

	vErr := requireProblem(t, flow, ErrUnknownLineElement)
	if vErr.ElementID != "ghost" {
		t.Errorf("expected element ghost, got %q", vErr.ElementID)
	}
}

func TestValidateFlow_UnknownKind(t *testing.T) {
	flow := squareFlow()
	flow.Subflows["main"].Elements["in"].Kind = "widget"
	requireProblem(t, flow, ErrUnknownElementKind)
}

func TestValidateFlow_KindMismatch(t *testing.T) {
	flow := squareFlow()
	flow.Subflows["main"].Elements["t1"].Value = &domain.FunctionValue{}

	vErr := requireProblem(t, flow, ErrKindMismatch)
	if vErr.ElementID != "t1" || vErr.Field != "value" {
		t.Errorf("unexpected problem location: %+v", vErr)
	}
}

func TestValidateFlow_UnknownReferences(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(sf *domain.Subflow)
		field string
	}{
		{
			name: "function args",
			edit: func(sf *domain.Subflow) {
				sf.Elements["fn"].Value.(*domain.FunctionValue).Args = []string{"missing"}
			},
			field: "value.args",
		},
		{
			name: "function returns",
			edit: func(sf *domain.Subflow) {
				sf.Elements["fn"].Value.(*domain.FunctionValue).Returns = []string{"missing"}
			},
			field: "value.returns",
		},
		{
			name: "return args",
			edit: func(sf *domain.Subflow) {
				sf.Elements["ret"].Args = []string{"missing"}
			},
			field: "args",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := squareFlow()
			tt.edit(flow.Subflows["main"])

			vErr := requireProblem(t, flow, ErrUnknownReference)
			if vErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, vErr.Field)
			}
		})
	}
}

func TestValidateFlow_EmptyValuesAllowed(t *testing.T) {
	flow := squareFlow()
	flow.Subflows["main"].Elements["in"].Value = nil

	if err := ValidateFlow(flow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProblems_Deterministic(t *testing.T) {
	flow := squareFlow()
	flow.Subflows["b"] = &domain.Subflow{}
	flow.Subflows["a"] = &domain.Subflow{}
	flow.Subflows["c"] = nil

	for range 10 {
		problems := Problems(flow)
		if len(problems) != 3 {
			t.Fatalf("expected 3 problems, got %d", len(problems))
		}

		want := []string{"a", "b", "c"}
		for i, p := range problems {
			if p.SubflowID != want[i] {
				t.Fatalf("problem %d: expected subflow %s, got %s", i, want[i], p.SubflowID)
			}
		}
		if !errors.Is(problems[2], ErrNilSubflow) {
			t.Errorf("expected ErrNilSubflow, got %v", problems[2])
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("main", "t1", "value", "bad value", ErrKindMismatch)
	if got := err.Error(); got != "subflow main: element t1: bad value" {
		t.Errorf("unexpected message %q", got)
	}
}
