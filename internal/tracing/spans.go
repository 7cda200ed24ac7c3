package tracing

// Span attribute keys for gesture tracing.
// These constants define the semantic conventions for span attributes
// across the input pipeline.
const (
	// Cell attributes
	AttrCellRow = "cell.row"
	AttrCellCol = "cell.col"

	// Key attributes
	AttrKeyKind = "key.kind"
	AttrKeyText = "key.text"

	// Layout attributes
	AttrLayoutName = "layout.name"

	// Gesture attributes
	AttrGestureOutcome = "gesture.outcome"
	AttrCellsVisited   = "gesture.cells_visited"

	// Commit attributes
	AttrCommitSuccess = "commit.success"
	AttrBufferLength  = "buffer.length"

	// Repeat attributes
	AttrRepeatTicks = "repeat.ticks"
)

// Span names.
const (
	SpanGesture = "gesture.drag"
	SpanCommit  = "gesture.commit"
	SpanReload  = "config.reload"
)

// Gesture outcome values for AttrGestureOutcome.
const (
	OutcomeCommitted = "committed"
	OutcomeCancelled = "cancelled"
	OutcomeMissed    = "missed" // released outside the grid
)

// Event names for span events.
const (
	EventCellEntered    = "cell.entered"
	EventGridLeft       = "grid.left"
	EventLongPressFired = "long_press.fired"
	EventRepeatStopped  = "repeat.stopped"
	EventLayoutSwapped  = "layout.swapped"
)
