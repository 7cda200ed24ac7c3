package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GestureRecorder opens one span per pointer interaction.
type GestureRecorder struct {
	tracer trace.Tracer
}

// NewGestureRecorder wraps a tracer. A no-op tracer (from a disabled
// Provider) yields recorders with zero overhead.
func NewGestureRecorder(tracer trace.Tracer) *GestureRecorder {
	return &GestureRecorder{tracer: tracer}
}

// Begin starts a gesture span at pointer-down.
func (r *GestureRecorder) Begin(layoutName string) *Gesture {
	if r == nil {
		return nil
	}
	_, span := r.tracer.Start(context.Background(), SpanGesture,
		trace.WithAttributes(attribute.String(AttrLayoutName, layoutName)))
	return &Gesture{span: span}
}

// Gesture records the life of one interaction. All methods are safe on a
// nil receiver, so callers can keep an untraced path branch-free.
type Gesture struct {
	span  trace.Span
	cells int
	ticks int
}

// CellEntered records the pointer entering a cell.
func (g *Gesture) CellEntered(row, col int, kind string) {
	if g == nil {
		return
	}
	g.cells++
	g.span.AddEvent(EventCellEntered, trace.WithAttributes(
		attribute.Int(AttrCellRow, row),
		attribute.Int(AttrCellCol, col),
		attribute.String(AttrKeyKind, kind),
	))
}

// GridLeft records the pointer leaving the key surface.
func (g *Gesture) GridLeft() {
	if g == nil {
		return
	}
	g.span.AddEvent(EventGridLeft)
}

// LongPressFired records a matured delete hold.
func (g *Gesture) LongPressFired() {
	if g == nil {
		return
	}
	g.span.AddEvent(EventLongPressFired)
}

// RepeatTick counts one auto-repeat delete.
func (g *Gesture) RepeatTick() {
	if g == nil {
		return
	}
	g.ticks++
}

// Committed ends the span for an interaction that reached release over
// a key.
func (g *Gesture) Committed(success bool, bufferLen int) {
	g.end(OutcomeCommitted,
		attribute.Bool(AttrCommitSuccess, success),
		attribute.Int(AttrBufferLength, bufferLen))
}

// Cancelled ends the span for an interrupted interaction.
func (g *Gesture) Cancelled() {
	g.end(OutcomeCancelled)
}

// Missed ends the span for a release outside the grid.
func (g *Gesture) Missed() {
	g.end(OutcomeMissed)
}

func (g *Gesture) end(outcome string, extra ...attribute.KeyValue) {
	if g == nil {
		return
	}
	attrs := append([]attribute.KeyValue{
		attribute.String(AttrGestureOutcome, outcome),
		attribute.Int(AttrCellsVisited, g.cells),
		attribute.Int(AttrRepeatTicks, g.ticks),
	}, extra...)
	g.span.SetAttributes(attrs...)
	g.span.End()
}
