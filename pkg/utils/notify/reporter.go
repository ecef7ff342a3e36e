package notify

import "io"

// Reporter is a writer-bound view of the notify functions. It serves as the
// operator-facing sink for asynchronous workflow outcomes: errors that can no
// longer reach the original caller are reported here.
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a Reporter writing to the given writer. A nil writer
// defaults to stdout.
func NewReporter(writer io.Writer) *Reporter {
	return &Reporter{writer: writer}
}

// Errorf reports an error message.
func (r *Reporter) Errorf(format string, args ...any) {
	Errorf(r.writer, format, args...)
}

// Warningf reports a warning message.
func (r *Reporter) Warningf(format string, args ...any) {
	Warningf(r.writer, format, args...)
}

// Activityf reports an activity message.
func (r *Reporter) Activityf(format string, args ...any) {
	Activityf(r.writer, format, args...)
}
