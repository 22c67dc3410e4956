package modeler

import (
	"log/slog"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// SkipReason — причина, по которой UpdateElement ничего не сделал.
type SkipReason string

const (
	// SkipNone — правка применена.
	SkipNone SkipReason = ""

	// SkipNoFlow — flow не загружен.
	SkipNoFlow SkipReason = "no_flow"

	// SkipNoSubflow — выбранный subflow не существует.
	SkipNoSubflow SkipReason = "no_subflow"

	// SkipLineOutOfRange — индекс строки вне диапазона.
	SkipLineOutOfRange SkipReason = "line_out_of_range"

	// SkipPositionOutOfRange — индекс позиции вне диапазона строки.
	SkipPositionOutOfRange SkipReason = "position_out_of_range"

	// SkipUnknownElement — ID из строки не найден среди элементов.
	SkipUnknownElement SkipReason = "unknown_element"

	// SkipEmptyValue — текущее value элемента пустое.
	SkipEmptyValue SkipReason = "empty_value"

	// SkipNilValue — новое value пустое.
	SkipNilValue SkipReason = "nil_value"

	// SkipKindMismatch — вид нового value не совпадает с видом элемента.
	SkipKindMismatch SkipReason = "kind_mismatch"
)

// String возвращает строковое представление SkipReason.
func (r SkipReason) String() string {
	if r == SkipNone {
		return "applied"
	}
	return string(r)
}

// Observer — диагностический хук Store.
//
// Вызывается синхронно из операций Store. Observer не может
// повлиять на поведение Store.
type Observer interface {
	// FlowSelected вызывается после SelectFlow.
	FlowSelected(flowID string, found bool)

	// SubflowSelected вызывается после SelectSubflow.
	SubflowSelected(subflowID string, found bool)

	// ElementUpdated вызывается после применённой правки.
	ElementUpdated(flowID, subflowID string, loc domain.Location, elementID string)

	// UpdateSkipped вызывается, когда UpdateElement ничего не сделал.
	UpdateSkipped(loc domain.Location, reason SkipReason)
}

// NopObserver ничего не делает.
type NopObserver struct{}

func (NopObserver) FlowSelected(string, bool)                              {}
func (NopObserver) SubflowSelected(string, bool)                           {}
func (NopObserver) ElementUpdated(string, string, domain.Location, string) {}
func (NopObserver) UpdateSkipped(domain.Location, SkipReason)              {}

// Observers рассылает события всем вложенным Observer'ам по порядку.
type Observers []Observer

func (o Observers) FlowSelected(flowID string, found bool) {
	for _, obs := range o {
		obs.FlowSelected(flowID, found)
	}
}

func (o Observers) SubflowSelected(subflowID string, found bool) {
	for _, obs := range o {
		obs.SubflowSelected(subflowID, found)
	}
}

func (o Observers) ElementUpdated(flowID, subflowID string, loc domain.Location, elementID string) {
	for _, obs := range o {
		obs.ElementUpdated(flowID, subflowID, loc, elementID)
	}
}

func (o Observers) UpdateSkipped(loc domain.Location, reason SkipReason) {
	for _, obs := range o {
		obs.UpdateSkipped(loc, reason)
	}
}

// LogObserver пишет события Store в slog.
// Пропущенные правки пишутся на уровне DEBUG.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver создаёт LogObserver.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) FlowSelected(flowID string, found bool) {
	o.logger.Info("flow selected", "flow_id", flowID, "found", found)
}

func (o *LogObserver) SubflowSelected(subflowID string, found bool) {
	o.logger.Debug("subflow selected", "subflow_id", subflowID, "found", found)
}

func (o *LogObserver) ElementUpdated(flowID, subflowID string, loc domain.Location, elementID string) {
	o.logger.Info("element updated",
		"flow_id", flowID,
		"subflow_id", subflowID,
		"line", loc.Line,
		"position", loc.Position,
		"element_id", elementID,
	)
}

func (o *LogObserver) UpdateSkipped(loc domain.Location, reason SkipReason) {
	o.logger.Debug("element update skipped",
		"line", loc.Line,
		"position", loc.Position,
		"reason", reason,
	)
}

// Recorder запоминает результат последней правки.
// Используется хостом, чтобы сообщить клиенту, применилась ли правка.
type Recorder struct {
	NopObserver

	// Last — причина последнего пропуска или SkipNone.
	Last SkipReason

	// ElementID — ID элемента последней применённой правки.
	ElementID string
}

// Reset сбрасывает запомненный результат.
func (r *Recorder) Reset() {
	r.Last = SkipNone
	r.ElementID = ""
}

func (r *Recorder) ElementUpdated(_, _ string, _ domain.Location, elementID string) {
	r.Last = SkipNone
	r.ElementID = elementID
}

func (r *Recorder) UpdateSkipped(_ domain.Location, reason SkipReason) {
	r.Last = reason
	r.ElementID = ""
}
