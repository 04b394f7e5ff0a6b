package logger

import "fmt"

// ringPusher is the subset of *ring.Ring[LogRecord] RingSink needs. Kept
// as an interface (rather than importing pkg/ring directly) so this
// package has no dependency on the ring's type parameter machinery.
type ringPusher interface {
	Push(LogRecord) bool
}

// RingSink is what the RT process callback logs through instead of
// calling a *Logger directly (spec §6/§9): it pushes a LogRecord onto the
// async ring and returns immediately, drop-on-overflow, never blocking.
// The consumer side later drains the ring and replays each record through
// a real *Logger via Drain.
type RingSink struct {
	ring   ringPusher
	sample func() int64
}

// NewRingSink binds a ring and a sample-counter accessor (typically the
// dispatcher's mfcnt field) so every pushed record is stamped with the
// host sample at which it was logged.
func NewRingSink(r ringPusher, sample func() int64) *RingSink {
	return &RingSink{ring: r, sample: sample}
}

func (s *RingSink) push(level RecordLevel, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	var sample int64
	if s.sample != nil {
		sample = s.sample()
	}
	s.ring.Push(LogRecord{Level: level, Message: msg, Sample: sample})
}

// Debugf implements mtc.Logger.
func (s *RingSink) Debugf(format string, args ...interface{}) { s.push(RecordDebug, format, args...) }

// Warnf implements mtc.Logger.
func (s *RingSink) Warnf(format string, args ...interface{}) { s.push(RecordWarn, format, args...) }

// Infof logs at info level through the ring.
func (s *RingSink) Infof(format string, args ...interface{}) { s.push(RecordInfo, format, args...) }

// Errorf logs at error level through the ring.
func (s *RingSink) Errorf(format string, args ...interface{}) { s.push(RecordError, format, args...) }
