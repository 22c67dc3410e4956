package domain

import "errors"

// Ошибки декодирования документов flow.
var (
	// ErrUnknownElementKind — неизвестный вид элемента.
	ErrUnknownElementKind = errors.New("unknown element kind")

	// ErrInvalidValue — value не соответствует виду элемента.
	ErrInvalidValue = errors.New("invalid element value")
)
