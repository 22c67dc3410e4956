package catalog

import "github.com/shaiso/flowmodeler/internal/domain"

// Example возвращает встроенный каталог с демонстрационным flow "a".
//
// Flow "a" возводит число из входной таблицы в квадрат:
//
//	a1: [e1 e2 e3 e4]
//	    [e0]
//
// ID "b" и "c" зарегистрированы без flow.
func Example() *Memory {
	return NewMemory(map[string]*domain.Flow{
		"a": ExampleFlow(),
		"b": nil,
		"c": nil,
	})
}

// ExampleFlow строит flow "a". Каждый вызов возвращает новое значение.
func ExampleFlow() *domain.Flow {
	return &domain.Flow{
		ID:   "a",
		Main: "a1",
		Subflows: map[string]*domain.Subflow{
			"a1": {
				Lines: []domain.Line{
					{"e1", "e2", "e3", "e4"},
					{"e0"},
				},
				Elements: map[string]*domain.Element{
					"e0": {
						Kind:       domain.KindReturn,
						Position:   domain.Position{X: 75, Y: 600},
						Dimensions: domain.Dimensions{Radius: 50},
						Value:      &domain.ReturnValue{},
						Args:       []string{},
					},
					"e1": {
						Kind:       domain.KindInput,
						Position:   domain.Position{X: 75, Y: 125},
						Dimensions: domain.Dimensions{Radius: 50},
						Value:      &domain.InputValue{},
					},
					"e2": {
						Kind:       domain.KindTable,
						Position:   domain.Position{X: 250, Y: 10},
						Dimensions: domain.Dimensions{Width: 200, Height: 250},
						Value: &domain.TableValue{
							Name:    "Input Table",
							Var:     "input_table",
							Columns: []domain.Column{{Name: "Value", Var: "value", Type: "Number"}},
							Rows:    [][]any{{5}},
						},
					},
					"e3": {
						Kind:       domain.KindFunction,
						Position:   domain.Position{X: 600, Y: 50},
						Dimensions: domain.Dimensions{Width: 200, Height: 250},
						Value: &domain.FunctionValue{
							Name:    "Square",
							Var:     "square(Number)",
							Inputs:  []domain.Param{{Name: "n", Type: "Number"}},
							Args:    []string{"e2"},
							Outputs: []domain.Output{{Type: "Number"}},
							Returns: []string{"e4"},
						},
					},
					"e4": {
						Kind:       domain.KindTable,
						Position:   domain.Position{X: 950, Y: 10},
						Dimensions: domain.Dimensions{Width: 200, Height: 250},
						Value: &domain.TableValue{
							Name:    "Output Table",
							Var:     "output_table",
							Columns: []domain.Column{{Name: "Squared Value", Var: "squared_value", Type: "Number"}},
							Rows:    [][]any{{25}},
						},
					},
				},
			},
		},
	}
}
