package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ElementKind — вид элемента диаграммы.
type ElementKind string

const (
	// KindReturn — неявный сток subflow. Есть в каждом subflow.
	KindReturn ElementKind = "return"

	// KindInput — входы flow.
	KindInput ElementKind = "input"

	// KindTable — таблица с типизированными колонками.
	KindTable ElementKind = "table"

	// KindFunction — функция: аргументы-производители и возвращаемые элементы.
	KindFunction ElementKind = "function"
)

// validKinds — допустимые виды элементов.
var validKinds = map[ElementKind]bool{
	KindReturn:   true,
	KindInput:    true,
	KindTable:    true,
	KindFunction: true,
}

// IsValid проверяет, известен ли вид элемента.
func (k ElementKind) IsValid() bool {
	return validKinds[k]
}

// IsCircular возвращает true для видов, которые рисуются кругом (по радиусу).
// Остальные виды рисуются прямоугольником (ширина/высота).
func (k ElementKind) IsCircular() bool {
	switch k {
	case KindReturn, KindInput:
		return true
	default:
		return false
	}
}

// Position — координаты элемента на холсте.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions — размеры элемента.
// Для круглых видов задан Radius, для прямоугольных — Width и Height.
type Dimensions struct {
	Radius float64 `json:"radius,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Element — типизированный узел диаграммы.
type Element struct {
	// Kind — вид элемента; определяет тип Value.
	Kind ElementKind

	// Position — координаты на холсте.
	Position Position

	// Dimensions — размеры.
	Dimensions Dimensions

	// Value — содержимое элемента. Nil означает "пустое" значение:
	// такой элемент нельзя редактировать через UpdateElement.
	Value ElementValue

	// Args — аргументы элемента return (ID элементов-производителей).
	Args []string
}

// ElementValue — содержимое элемента, закрытый набор вариантов:
// *TableValue, *FunctionValue, *InputValue, *ReturnValue.
type ElementValue interface {
	// Kind возвращает вид элемента, которому принадлежит значение.
	Kind() ElementKind

	elementValue()
}

// Column — типизированная колонка таблицы.
type Column struct {
	Name string `json:"name"`
	Var  string `json:"var"`
	Type string `json:"type"`
}

// TableValue — содержимое элемента table.
type TableValue struct {
	// Name — отображаемое имя таблицы.
	Name string `json:"name"`

	// Var — имя переменной таблицы.
	Var string `json:"var"`

	// Columns — колонки по порядку.
	Columns []Column `json:"columns"`

	// Rows — значения по строкам, Rows[i][j] соответствует Columns[j].
	Rows [][]any `json:"rows"`
}

// Param — входной параметр функции.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Output — тип выходного значения функции.
type Output struct {
	Type string `json:"type"`
}

// FunctionValue — содержимое элемента function.
type FunctionValue struct {
	// Name — отображаемое имя функции.
	Name string `json:"name"`

	// Var — сигнатура, например "square(Number)".
	Var string `json:"var"`

	// Inputs — спецификации входных параметров.
	Inputs []Param `json:"input"`

	// Args — ID элементов-производителей аргументов.
	Args []string `json:"args"`

	// Outputs — типы выходных значений.
	Outputs []Output `json:"outputs"`

	// Returns — ID элементов-потребителей результата.
	Returns []string `json:"returns"`
}

// InputValue — содержимое элемента input (непрозрачное).
type InputValue struct {
	Fields map[string]any
}

// ReturnValue — содержимое элемента return (непрозрачное).
type ReturnValue struct {
	Fields map[string]any
}

func (*TableValue) Kind() ElementKind    { return KindTable }
func (*FunctionValue) Kind() ElementKind { return KindFunction }
func (*InputValue) Kind() ElementKind    { return KindInput }
func (*ReturnValue) Kind() ElementKind   { return KindReturn }

func (*TableValue) elementValue()    {}
func (*FunctionValue) elementValue() {}
func (*InputValue) elementValue()    {}
func (*ReturnValue) elementValue()   {}

// MarshalJSON сериализует непрозрачное значение как объект ({} для пустого).
func (v *InputValue) MarshalJSON() ([]byte, error) { return marshalFields(v.Fields) }

// UnmarshalJSON читает непрозрачное значение из JSON объекта.
func (v *InputValue) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &v.Fields) }

// MarshalJSON сериализует непрозрачное значение как объект ({} для пустого).
func (v *ReturnValue) MarshalJSON() ([]byte, error) { return marshalFields(v.Fields) }

// UnmarshalJSON читает непрозрачное значение из JSON объекта.
func (v *ReturnValue) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &v.Fields) }

func marshalFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(fields)
}

// IsEmpty возвращает true для пустого значения: nil интерфейс
// или nil указатель любого из вариантов.
func IsEmpty(v ElementValue) bool {
	switch v := v.(type) {
	case nil:
		return true
	case *TableValue:
		return v == nil
	case *FunctionValue:
		return v == nil
	case *InputValue:
		return v == nil
	case *ReturnValue:
		return v == nil
	default:
		return true
	}
}

// DecodeValue декодирует JSON содержимое для элемента вида kind.
// Пустой raw или null даёт пустое значение (nil).
func DecodeValue(kind ElementKind, raw json.RawMessage) (ElementValue, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownElementKind, kind)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var v ElementValue
	switch kind {
	case KindTable:
		v = &TableValue{}
	case KindFunction:
		v = &FunctionValue{}
	case KindInput:
		v = &InputValue{}
	case KindReturn:
		v = &ReturnValue{}
	}

	if err := json.Unmarshal(trimmed, v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, kind, err)
	}
	return v, nil
}

// elementJSON — формат элемента в документах flow.
type elementJSON struct {
	Type       ElementKind     `json:"type"`
	Position   Position        `json:"position"`
	Dimensions Dimensions      `json:"dimensions"`
	Value      json.RawMessage `json:"value,omitempty"`
	Args       []string        `json:"args,omitempty"`
}

// MarshalJSON реализует json.Marshaler.
func (e Element) MarshalJSON() ([]byte, error) {
	out := elementJSON{
		Type:       e.Kind,
		Position:   e.Position,
		Dimensions: e.Dimensions,
		Args:       e.Args,
	}
	if !IsEmpty(e.Value) {
		raw, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal %s value: %w", e.Kind, err)
		}
		out.Value = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON реализует json.Unmarshaler.
// Вариант Value выбирается по полю type.
func (e *Element) UnmarshalJSON(b []byte) error {
	var in elementJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	value, err := DecodeValue(in.Type, in.Value)
	if err != nil {
		return err
	}

	*e = Element{
		Kind:       in.Type,
		Position:   in.Position,
		Dimensions: in.Dimensions,
		Value:      value,
		Args:       in.Args,
	}
	return nil
}
