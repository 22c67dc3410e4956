package domain

// Flow — диаграмма вычислений, которую редактирует modeler.
//
// Flow загружается из каталога целиком и после загрузки не изменяется
// на месте: любое редактирование порождает новое значение Flow
// (copy-on-write), а старые снимки остаются валидными.
type Flow struct {
	// ID — непрозрачный идентификатор flow в каталоге.
	ID string `json:"id"`

	// Main — ID главного subflow (ключ в Subflows).
	Main string `json:"main"`

	// Subflows — все subflows (subflowID → Subflow).
	Subflows map[string]*Subflow `json:"subflows"`
}

// Subflow — упорядоченный набор строк (Lines) элементов.
//
// Инварианты:
//   - каждый ID из Lines присутствует в Elements
//   - в Elements всегда есть хотя бы один элемент вида "return",
//     даже если ни одна строка на него не ссылается
type Subflow struct {
	// Lines — строки диаграммы, как строки в файле: слева направо, сверху вниз.
	Lines []Line `json:"lines"`

	// Elements — все элементы subflow (elementID → Element).
	Elements map[string]*Element `json:"elements"`
}

// Line — упорядоченная последовательность ссылок на элементы.
type Line []string

// Location — адрес слота внутри subflow: (индекс строки, индекс позиции).
type Location struct {
	Line     int `json:"line"`
	Position int `json:"position"`
}

// Subflow возвращает subflow по ID.
// Для nil flow или неизвестного ID возвращает nil.
func (f *Flow) Subflow(id string) *Subflow {
	if f == nil {
		return nil
	}
	return f.Subflows[id]
}

// SubflowIDs возвращает ID всех subflows (порядок не определён).
func (f *Flow) SubflowIDs() []string {
	if f == nil {
		return nil
	}
	ids := make([]string, 0, len(f.Subflows))
	for id := range f.Subflows {
		ids = append(ids, id)
	}
	return ids
}

// ElementIDAt возвращает ID элемента в слоте loc.
// ok=false, если индекс строки или позиции вне диапазона.
func (s *Subflow) ElementIDAt(loc Location) (string, bool) {
	if s == nil {
		return "", false
	}
	if loc.Line < 0 || loc.Line >= len(s.Lines) {
		return "", false
	}
	line := s.Lines[loc.Line]
	if loc.Position < 0 || loc.Position >= len(line) {
		return "", false
	}
	return line[loc.Position], true
}

// Element возвращает элемент по ID или nil.
func (s *Subflow) Element(id string) *Element {
	if s == nil {
		return nil
	}
	return s.Elements[id]
}

// HasReturn проверяет инвариант: в subflow есть элемент вида "return".
func (s *Subflow) HasReturn() bool {
	if s == nil {
		return false
	}
	for _, el := range s.Elements {
		if el != nil && el.Kind == KindReturn {
			return true
		}
	}
	return false
}
