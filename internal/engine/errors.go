package engine

import "errors"

// Ошибки валидации документа flow.
var (
	// ErrNilFlow — документ flow отсутствует.
	ErrNilFlow = errors.New("flow is nil")

	// ErrEmptyFlowID — flow не имеет ID.
	ErrEmptyFlowID = errors.New("flow has empty ID")

	// ErrMissingMainSubflow — main не указывает на существующий subflow.
	ErrMissingMainSubflow = errors.New("main subflow not found")

	// ErrNilSubflow — subflow в карте равен nil.
	ErrNilSubflow = errors.New("subflow is nil")

	// ErrNilElement — элемент в карте равен nil.
	ErrNilElement = errors.New("element is nil")

	// ErrUnknownLineElement — строка ссылается на несуществующий элемент.
	ErrUnknownLineElement = errors.New("line references unknown element")

	// ErrMissingReturn — в subflow нет элемента return.
	ErrMissingReturn = errors.New("subflow has no return element")

	// ErrUnknownElementKind — неизвестный вид элемента.
	ErrUnknownElementKind = errors.New("unknown element kind")

	// ErrKindMismatch — вариант value не совпадает с видом элемента.
	ErrKindMismatch = errors.New("element value kind mismatch")

	// ErrUnknownReference — args/returns ссылаются на несуществующий элемент.
	ErrUnknownReference = errors.New("element references unknown element")

	// ErrCyclicDependency — ссылки args/returns образуют цикл.
	ErrCyclicDependency = errors.New("cyclic data dependency")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	SubflowID string // ID subflow, где произошла ошибка
	ElementID string // ID элемента (если применимо)
	Field     string // поле, вызвавшее ошибку
	Message   string // описание ошибки
	Err       error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	prefix := ""
	if e.SubflowID != "" {
		prefix = "subflow " + e.SubflowID + ": "
	}
	if e.ElementID != "" {
		prefix += "element " + e.ElementID + ": "
	}
	return prefix + e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(subflowID, elementID, field, message string, err error) *ValidationError {
	return &ValidationError{
		SubflowID: subflowID,
		ElementID: elementID,
		Field:     field,
		Message:   message,
		Err:       err,
	}
}
