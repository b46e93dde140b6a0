package port

import "time"

type Sink interface {
	// Live frame: redraw the table in place
	WriteLive(frame string) error
	// Snapshot: append a historical frame with timestamp
	WriteSnapshot(ts time.Time, frame string) error
	// Normal newline (for logs)
	NewLine() error
}
