package batch

import (
	"fmt"
	"io"
)

// ProgressEvent represents a single progress update during a batch run.
type ProgressEvent struct {
	Type      string `json:"type"`                 // "row", "row_error", "done"
	Completed int    `json:"completed,omitempty"`  // running completed count
	Total     int    `json:"total,omitempty"`      // total rows in the run
	ReviewID  int    `json:"review_id,omitempty"`  // row being reported
	Label     string `json:"label,omitempty"`      // predicted label
	CacheHit  bool   `json:"cache_hit,omitempty"`  // served without a model call
	Message   string `json:"message,omitempty"`    // human-readable detail
}

// Emitter receives progress events during a batch run.
type Emitter interface {
	Emit(event ProgressEvent)
}

// TextEmitter formats progress events as human-readable text for CLI
// output.
type TextEmitter struct {
	W io.Writer
}

// Emit writes a formatted progress line to the underlying writer.
func (e *TextEmitter) Emit(ev ProgressEvent) {
	switch ev.Type {
	case "row":
		suffix := ""
		if ev.CacheHit {
			suffix = " (cached)"
		}
		fmt.Fprintf(e.W, "[%d/%d] review %d: %s%s\n", ev.Completed, ev.Total, ev.ReviewID, ev.Label, suffix)
	case "row_error":
		fmt.Fprintf(e.W, "[%d/%d] review %d: error: %s\n", ev.Completed, ev.Total, ev.ReviewID, ev.Message)
	case "done":
		fmt.Fprintf(e.W, "Processed %d/%d reviews\n", ev.Completed, ev.Total)
	}
}
