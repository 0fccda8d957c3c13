package observability

import (
	"strconv"

	"github.com/google/uuid"
)

// DiagnosticCategory classifies why a diagnostic was emitted. File faults
// and resolution faults never abort a build; they are reported here
// instead of failing it.
type DiagnosticCategory string

const (
	DiagFileFault       DiagnosticCategory = "file_fault"
	DiagResolutionFault DiagnosticCategory = "resolution_fault"
)

// Diagnostic is one recoverable-fault report. CorrelationID is a free
// grouping label for a consumer of several builds' diagnostics; the
// callgraph.Builder does not set it, so it is empty in every diagnostic the
// Builder emits. It never participates in graph identity or content.
type Diagnostic struct {
	CorrelationID string
	Category      DiagnosticCategory
	Caller        string // qualified name of the function containing the fault, if any
	CalleeToken   string // the unresolved identifier or property name, if any
	ModuleSpec    string // the import specifier involved, if any
	File          string
	Line          int
	Message       string
}

// Sink receives diagnostics emitted during a build. Implementations must be
// safe to call from a single goroutine at a time; the core never calls a
// sink concurrently with itself.
type Sink interface {
	Emit(d Diagnostic)
}

// ChannelSink adapts a plain string channel, the shape of the CLI's
// verbose diagnostic stream, into a Sink.
type ChannelSink struct {
	ch chan<- string
}

func NewChannelSink(ch chan<- string) *ChannelSink {
	return &ChannelSink{ch: ch}
}

func (s *ChannelSink) Emit(d Diagnostic) {
	if s == nil || s.ch == nil {
		return
	}
	DiagnosticsEmittedTotal.WithLabelValues(string(d.Category)).Inc()
	s.ch <- formatDiagnostic(d)
}

func formatDiagnostic(d Diagnostic) string {
	msg := "[" + string(d.Category) + "] " + d.Message
	if d.File != "" {
		msg += " (" + d.File + ":" + strconv.Itoa(d.Line) + ")"
	}
	return msg
}

// NewCorrelationID returns a fresh correlation id for one build invocation.
func NewCorrelationID() string {
	return uuid.NewString()
}
