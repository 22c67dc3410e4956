// Package render рисует layout subflow.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/modeler"
)

// Размеры по умолчанию для элементов без заданных dimensions.
const (
	defaultRadius = 25
	defaultWidth  = 100
	defaultHeight = 50

	margin = 20
)

// Shape — фигура одного слота.
type Shape struct {
	ElementID string
	Kind      domain.ElementKind
	Circle    bool

	// X, Y — левый верхний угол (для круга — центр).
	X, Y float64

	Radius        float64
	Width, Height float64

	// CX, CY — центр фигуры.
	CX, CY float64

	Label string
}

// Connector — линия от центра предыдущего элемента строки к текущему.
type Connector struct {
	From, To string
	X1, Y1   float64
	X2, Y2   float64
}

// Diagram — готовая к выводу диаграмма.
type Diagram struct {
	Width, Height float64
	Shapes        []Shape
	Connectors    []Connector
}

var funcs = template.FuncMap{
	"xml": escape,
	"num": func(f float64) string { return fmt.Sprintf("%g", f) },
}

var svgTemplate = template.Must(template.New("svg").Funcs(funcs).Parse(
	`<svg xmlns="http://www.w3.org/2000/svg" width="{{ num .Width }}" height="{{ num .Height }}" viewBox="0 0 {{ num .Width }} {{ num .Height }}">
{{- range .Connectors }}
  <line class="connector" data-from="{{ xml .From }}" data-to="{{ xml .To }}" x1="{{ num .X1 }}" y1="{{ num .Y1 }}" x2="{{ num .X2 }}" y2="{{ num .Y2 }}" stroke="black"/>
{{- end }}
{{- range .Shapes }}
  <g class="element {{ .Kind }}" data-id="{{ xml .ElementID }}">
{{- if .Circle }}
    <circle cx="{{ num .X }}" cy="{{ num .Y }}" r="{{ num .Radius }}" fill="white" stroke="black"/>
{{- else }}
    <rect x="{{ num .X }}" y="{{ num .Y }}" width="{{ num .Width }}" height="{{ num .Height }}" fill="white" stroke="black"/>
{{- end }}
    <text x="{{ num .CX }}" y="{{ num .CY }}" text-anchor="middle" dominant-baseline="middle">{{ xml .Label }}</text>
  </g>
{{- end }}
</svg>
`))

// Build строит Diagram из слотов layout.
// Слоты с неразрешённым элементом пропускаются, как и их соединители.
func Build(slots []modeler.Slot) Diagram {
	var d Diagram

	for _, slot := range slots {
		if slot.Element == nil {
			continue
		}

		shape := shapeOf(slot.ElementID, slot.Element)
		d.Shapes = append(d.Shapes, shape)
		d.Width = max(d.Width, right(shape)+margin)
		d.Height = max(d.Height, bottom(shape)+margin)

		if slot.Prior != nil {
			prior := shapeOf(slot.PriorID, slot.Prior)
			d.Connectors = append(d.Connectors, Connector{
				From: slot.PriorID,
				To:   slot.ElementID,
				X1:   prior.CX,
				Y1:   prior.CY,
				X2:   shape.CX,
				Y2:   shape.CY,
			})
		}
	}

	return d
}

// SVG рисует слоты как SVG документ.
func SVG(w io.Writer, slots []modeler.Slot) error {
	if err := svgTemplate.Execute(w, Build(slots)); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}

// SVGString — SVG, собранный в строку.
func SVGString(slots []modeler.Slot) (string, error) {
	var buf bytes.Buffer
	if err := SVG(&buf, slots); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func shapeOf(id string, el *domain.Element) Shape {
	s := Shape{
		ElementID: id,
		Kind:      el.Kind,
		Circle:    el.Kind.IsCircular(),
		X:         el.Position.X,
		Y:         el.Position.Y,
		Label:     label(el),
	}

	if s.Circle {
		s.Radius = orDefault(el.Dimensions.Radius, defaultRadius)
		s.CX, s.CY = s.X, s.Y
		return s
	}

	s.Width = orDefault(el.Dimensions.Width, defaultWidth)
	s.Height = orDefault(el.Dimensions.Height, defaultHeight)
	s.CX = s.X + s.Width/2
	s.CY = s.Y + s.Height/2
	return s
}

// label — подпись элемента: имя таблицы или функции, иначе вид.
func label(el *domain.Element) string {
	switch v := el.Value.(type) {
	case *domain.TableValue:
		if v != nil && v.Name != "" {
			return v.Name
		}
	case *domain.FunctionValue:
		if v != nil && v.Name != "" {
			return v.Name
		}
	}
	return string(el.Kind)
}

func right(s Shape) float64 {
	if s.Circle {
		return s.X + s.Radius
	}
	return s.X + s.Width
}

func bottom(s Shape) float64 {
	if s.Circle {
		return s.Y + s.Radius
	}
	return s.Y + s.Height
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
