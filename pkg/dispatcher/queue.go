package dispatcher

import (
	"github.com/rgareus/mtc-tools/pkg/mtc"
)

// midiQueueCapacity bounds the generator's MIDI output queue. It is
// exclusively RT-owned: producer (the emitter) and consumer (the writer
// step of the per-cycle dispatcher) both run on the RT thread, across
// cycles, so a plain bounded slice is safe here - unlike pkg/ring, nothing
// ever crosses to a second thread.
const midiQueueCapacity = 256

// midiQueue is the bounded ring of pre-formed MIDI events the emitter
// enqueues into and the writer step drains from, per spec §4.4/§4.6.
type midiQueue struct {
	events []mtc.QueuedMidiEvent

	// ready backs drainReady's returned slice, reused every cycle instead
	// of allocated fresh (spec §5: the RT path must not allocate).
	ready []mtc.QueuedMidiEvent
}

// Push implements mtc.MidiQueue: RT-safe, drops silently once full.
func (q *midiQueue) Push(ev mtc.QueuedMidiEvent) bool {
	if len(q.events) >= midiQueueCapacity {
		return false
	}
	q.events = append(q.events, ev)
	return true
}

// Flush implements mtc.MidiQueue: discards every queued event, used by
// the emitter's resync path before it re-seeds the queue with a locate.
func (q *midiQueue) Flush() {
	q.events = q.events[:0]
}

// drainReady removes and returns every event whose latency-adjusted
// alignment falls within [windowStart, windowEnd), in queue (production)
// order, filling in RelativeTime per spec §3's QueuedMidiEvent definition.
// Events earlier than the window are dropped (the onDropped callback logs
// a warning); events later are left queued for a future cycle - spec
// §4.4 step 6. remaining is built in place over q.events's own backing
// array and ready reuses q.ready, so nothing is allocated on the RT path.
func (q *midiQueue) drainReady(windowStart, windowEnd, latency int64, onDropped func(ev mtc.QueuedMidiEvent)) []mtc.QueuedMidiEvent {
	q.ready = q.ready[:0]
	remaining := q.events[:0]
	for _, ev := range q.events {
		adjusted := ev.AlignmentSample - latency
		switch {
		case adjusted < windowStart:
			if onDropped != nil {
				onDropped(ev)
			}
		case adjusted < windowEnd:
			ev.RelativeTime = adjusted - windowStart
			q.ready = append(q.ready, ev)
		default:
			remaining = append(remaining, ev)
		}
	}
	q.events = remaining
	return q.ready
}
