package engine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// ValidateFlow выполняет полную валидацию документа flow
// и возвращает первую найденную проблему.
//
// Используется при загрузке каталогов и в тестах для проверки фикстур.
func ValidateFlow(flow *domain.Flow) error {
	problems := Problems(flow)
	if len(problems) == 0 {
		return nil
	}
	return problems[0]
}

// Problems возвращает все проблемы документа flow в детерминированном порядке.
//
// Проверяет:
// - Наличие ID и main subflow
// - Что каждый ID в строках есть в карте элементов
// - Наличие элемента return в каждом subflow
// - Виды элементов и соответствие value виду
// - Ссылки args/returns у функций и args у return
// - Отсутствие циклов в потоке данных (делегируется DAG)
func Problems(flow *domain.Flow) []*ValidationError {
	if flow == nil {
		return []*ValidationError{NewValidationError("", "", "", "flow is nil", ErrNilFlow)}
	}

	var problems []*ValidationError

	if flow.ID == "" {
		problems = append(problems, NewValidationError("", "", "id", "flow has empty ID", ErrEmptyFlowID))
	}

	if _, ok := flow.Subflows[flow.Main]; !ok {
		problems = append(problems, NewValidationError("", "", "main",
			fmt.Sprintf("main subflow %q not found", flow.Main), ErrMissingMainSubflow))
	}

	for _, id := range slices.Sorted(maps.Keys(flow.Subflows)) {
		problems = append(problems, SubflowProblems(id, flow.Subflows[id])...)
	}

	return problems
}

// SubflowProblems возвращает все проблемы одного subflow.
func SubflowProblems(id string, sf *domain.Subflow) []*ValidationError {
	if sf == nil {
		return []*ValidationError{NewValidationError(id, "", "", "subflow is nil", ErrNilSubflow)}
	}

	var problems []*ValidationError

	// Строки ссылаются только на существующие элементы
	for li, line := range sf.Lines {
		for pi, elementID := range line {
			if _, ok := sf.Elements[elementID]; !ok {
				problems = append(problems, NewValidationError(id, elementID, "lines",
					fmt.Sprintf("line %d position %d references unknown element %q", li, pi, elementID),
					ErrUnknownLineElement))
			}
		}
	}

	if !sf.HasReturn() {
		problems = append(problems, NewValidationError(id, "", "elements",
			"subflow has no return element", ErrMissingReturn))
	}

	for _, elementID := range slices.Sorted(maps.Keys(sf.Elements)) {
		problems = append(problems, elementProblems(id, elementID, sf)...)
	}

	if _, err := BuildDAG(sf); err != nil {
		problems = append(problems, NewValidationError(id, "", "elements",
			"args/returns references form a cycle", err))
	}

	return problems
}

// elementProblems валидирует один элемент.
func elementProblems(subflowID, elementID string, sf *domain.Subflow) []*ValidationError {
	el := sf.Elements[elementID]
	if el == nil {
		return []*ValidationError{NewValidationError(subflowID, elementID, "", "element is nil", ErrNilElement)}
	}

	if !el.Kind.IsValid() {
		return []*ValidationError{NewValidationError(subflowID, elementID, "type",
			fmt.Sprintf("unknown element kind: %q", el.Kind), ErrUnknownElementKind)}
	}

	var problems []*ValidationError

	if !domain.IsEmpty(el.Value) && el.Value.Kind() != el.Kind {
		problems = append(problems, NewValidationError(subflowID, elementID, "value",
			fmt.Sprintf("value of kind %s in %s element", el.Value.Kind(), el.Kind), ErrKindMismatch))
	}

	refs := func(field string, ids []string) {
		for _, ref := range ids {
			if _, ok := sf.Elements[ref]; !ok {
				problems = append(problems, NewValidationError(subflowID, elementID, field,
					fmt.Sprintf("%s references unknown element %q", field, ref), ErrUnknownReference))
			}
		}
	}

	refs("args", el.Args)
	if fn, ok := el.Value.(*domain.FunctionValue); ok && fn != nil {
		refs("value.args", fn.Args)
		refs("value.returns", fn.Returns)
	}

	return problems
}
