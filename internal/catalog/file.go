package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// ErrInvalidDocument — документ каталога не удалось разобрать.
var ErrInvalidDocument = errors.New("invalid catalog document")

// FlowErrors — flows документа, которые не удалось разобрать (flowID → ошибка).
// Такие flows регистрируются без flow, остальные загружаются как обычно.
type FlowErrors map[string]error

func (e FlowErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, id := range slices.Sorted(maps.Keys(e)) {
		parts = append(parts, fmt.Sprintf("flow %s: %v", id, e[id]))
	}
	return strings.Join(parts, "; ")
}

func (e FlowErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, id := range slices.Sorted(maps.Keys(e)) {
		errs = append(errs, e[id])
	}
	return errs
}

// document — формат файла каталога (YAML или JSON).
//
//	flows:
//	  a:
//	    main: a1
//	    subflows: {...}
//	  b: null
type document struct {
	Flows map[string]any `yaml:"flows"`
}

// LoadFile читает каталог из YAML/JSON файла.
// Как и Decode, при ошибках отдельных flows возвращает каталог и FlowErrors.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	m, err := Decode(data)
	if err != nil {
		return m, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return m, nil
}

// Decode разбирает документ каталога.
// JSON — подмножество YAML, поэтому принимаются оба формата.
//
// Если документ в целом корректен, но часть flows разобрать не удалось,
// Decode возвращает каталог, где эти flows зарегистрированы без flow,
// и ошибку FlowErrors.
func Decode(data []byte) (*Memory, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	flows := make(map[string]*domain.Flow, len(doc.Flows))
	failed := FlowErrors{}
	for id, raw := range doc.Flows {
		if raw == nil {
			flows[id] = nil
			continue
		}

		flow, err := flowFromYAMLValue(raw)
		if err != nil {
			flows[id] = nil
			failed[id] = err
			continue
		}
		if flow.ID == "" {
			flow.ID = id
		}
		flows[id] = flow
	}

	m := NewMemory(flows)
	if len(failed) > 0 {
		return m, failed
	}
	return m, nil
}

// DecodeFlow разбирает документ одного flow (YAML или JSON).
func DecodeFlow(data []byte) (*domain.Flow, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	return flowFromYAMLValue(raw)
}

// flowFromYAMLValue переводит разобранное YAML значение в domain.Flow
// через JSON, чтобы переиспользовать декодирование вариантов value.
func flowFromYAMLValue(raw any) (*domain.Flow, error) {
	data, err := json.Marshal(normalizeFlow(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var flow domain.Flow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &flow, nil
}

// normalizeFlow приводит значение flow к виду, который принимает encoding/json.
// YAML разбирает ключи и ID вида `1:` или `[[1, 2]]` как числа:
// ключи всех maps и ссылки на ID (id, main, lines, args, returns)
// становятся строками. Остальные скаляры не меняются.
func normalizeFlow(raw any) any {
	flow, ok := stringKeys(raw).(map[string]any)
	if !ok {
		return raw
	}
	stringifyScalar(flow, "id")
	stringifyScalar(flow, "main")

	subflows, _ := flow["subflows"].(map[string]any)
	for _, v := range subflows {
		sf, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if lines, ok := sf["lines"].([]any); ok {
			for _, line := range lines {
				stringifyList(line)
			}
		}

		elements, _ := sf["elements"].(map[string]any)
		for _, v := range elements {
			el, ok := v.(map[string]any)
			if !ok {
				continue
			}
			stringifyList(el["args"])
			if value, ok := el["value"].(map[string]any); ok {
				stringifyList(value["args"])
				stringifyList(value["returns"])
			}
		}
	}
	return flow
}

// stringKeys рекурсивно заменяет map[any]any на map[string]any.
func stringKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = stringKeys(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = stringKeys(item)
		}
		return v
	default:
		return v
	}
}

func stringifyScalar(m map[string]any, key string) {
	if s, ok := scalarString(m[key]); ok {
		m[key] = s
	}
}

func stringifyList(v any) {
	items, ok := v.([]any)
	if !ok {
		return
	}
	for i, item := range items {
		if s, ok := scalarString(item); ok {
			items[i] = s
		}
	}
}

// scalarString возвращает строковую запись числового или булева скаляра YAML.
func scalarString(v any) (string, bool) {
	switch v.(type) {
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}
