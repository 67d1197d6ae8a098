package domain

// Side represents the canonical side of an execution (BUY or SELL).
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Direction represents which way a position points.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// EventKind classifies a canonical event as opening or closing quantity.
type EventKind string

const (
	KindOpen  EventKind = "OPEN"
	KindClose EventKind = "CLOSE"
)

// SignalType is the raw ENTRY/EXIT tag carried by signal-style records.
// Plain execution-log records leave it empty and are classified by side alone.
type SignalType string

const (
	SignalEntry SignalType = "ENTRY"
	SignalExit  SignalType = "EXIT"
)
