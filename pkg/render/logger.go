package render

import "log"

// Logger receives diagnostics from the render loop, matching spec.md's
// requirement that a discarded NaN sample be logged, not silently dropped.
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger by writing to the standard log package.
type DefaultLogger struct{}

func (DefaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}
