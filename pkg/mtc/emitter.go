package mtc

import (
	"fmt"

	"github.com/rgareus/mtc-tools/pkg/timecode"
)

// Mode is the transport mode the emitter schedules against.
type Mode int

const (
	ModeStopped Mode = iota
	ModeLocating
	ModeRolling
)

// QueuedMidiEvent is a pre-formed MIDI message with an absolute sample
// alignment, as drained by the per-cycle dispatcher's writer step.
type QueuedMidiEvent struct {
	AlignmentSample int64
	RelativeTime    int64
	Size            int
	Bytes           [16]byte
}

// MidiQueue is the bounded ring the emitter enqueues into; the RT callback
// never blocks, so Push reports whether the record was accepted.
type MidiQueue interface {
	Push(ev QueuedMidiEvent) bool
	Flush()
}

// Logger is the minimal sink the RT-safe emitter logs through; satisfied by
// the async log ring's non-blocking writer (see pkg/ring and pkg/logger).
type Logger interface {
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// EmitterState is the generator's per-process state: the in-flight
// quarter-frame batch position and the most recently staged timecode,
// shared between cycles by the RT task that owns it.
type EmitterState struct {
	NextQFToSend        int
	StagedTime          timecode.Time
	PreviousSampleCount int64
	PreviousMode        Mode
	PreviousFrameNumber int64
	Reverse             bool

	cfcnt int64
	held  timecode.Time
}

// Decodeahead computes the number of timecode frames the emitter should
// run ahead of transport to absorb output port latency: 2 + ceil(portLatency/fptcf).
func Decodeahead(portLatencySamples int64, fptcf int64) int64 {
	if fptcf <= 0 {
		return 2
	}
	ahead := portLatencySamples / fptcf
	if portLatencySamples%fptcf != 0 {
		ahead++
	}
	return 2 + ahead
}

// Process runs one cycle of the quarter-frame scheduler per spec §4.2: it
// checks the resync conditions, applies the Stopped same-frame skip, and
// (while Rolling) enqueues lookahead batches until staged_time leads the
// transport by decodeahead frames. queue is the RT-owned MIDI output
// ring; log receives realign/reset diagnostics through the async ring.
func (e *EmitterState) Process(
	t timecode.Time,
	rate timecode.Rate,
	mfcnt int64,
	mode Mode,
	sampleRate uint32,
	portLatencySamples int64,
	queue MidiQueue,
	log Logger,
) {
	fptcf := timecode.FramesPerTCFrame(sampleRate, rate)
	nfn := timecode.TimeToFrameNumber(t, rate)
	ofn := timecode.TimeToFrameNumber(e.StagedTime, rate)

	// Skip is checked ahead of resync: a repeated Stopped call for the
	// frame already sent must be a no-op, or the resync condition below
	// (nfn-ofn<1 && mode!=Rolling) would refire on every such call and
	// break the emitter's idempotence (spec §8 invariant 5).
	if mode == ModeStopped && e.PreviousMode == ModeStopped && ofn == nfn {
		return
	}

	resync := nfn-ofn > 3 ||
		mfcnt-e.PreviousSampleCount > 3*fptcf ||
		(nfn-ofn < 1 && mode != ModeRolling)

	if resync {
		mode = ModeStopped
		e.StagedTime = t
		e.NextQFToSend = 0
		e.cfcnt = mfcnt
		queue.Flush()

		rateType, err := rate.Type()
		if err != nil {
			log.Warnf("mtc: cannot resync, invalid rate: %v", err)
			e.PreviousMode = mode
			e.PreviousSampleCount = mfcnt
			e.PreviousFrameNumber = nfn
			return
		}
		msg := EncodeSysExLocate(t, rateType)
		ev := QueuedMidiEvent{AlignmentSample: mfcnt, Size: SysExLocateLen}
		copy(ev.Bytes[:], msg[:])
		queue.Push(ev)

		e.PreviousMode = mode
		e.PreviousSampleCount = mfcnt
		e.PreviousFrameNumber = nfn
		return
	}

	if mode == ModeRolling {
		decodeahead := Decodeahead(portLatencySamples, fptcf)
		for timecode.TimeToFrameNumber(e.StagedTime, rate) < nfn+decodeahead {
			e.batch(rate, fptcf, queue, log)
			e.StagedTime = timecode.TimeIncrement(e.StagedTime, rate)
			e.cfcnt += fptcf
		}
	}

	e.PreviousMode = mode
	e.PreviousSampleCount = mfcnt
	e.PreviousFrameNumber = nfn
}

// batch enqueues one four-quarter-frame batch (half of an eight-piece
// window), honoring the 25fps odd-frame parity rule and the forward/reverse
// NextQFToSend walk. All eight pieces of a window are extracted from the
// same held timecode, snapshotted from StagedTime when NextQFToSend==0 (spec
// §3/§4.2) - StagedTime itself keeps advancing every batch for the ofn/
// lookahead bookkeeping in Process, so the two halves of a window must not
// read it directly or a minute/hour rollover mid-window would split across
// the two staged frames.
func (e *EmitterState) batch(rate timecode.Rate, fptcf int64, queue MidiQueue, log Logger) {
	rateType, err := rate.Type()
	if err != nil {
		log.Warnf("mtc: batch aborted, invalid rate: %v", err)
		return
	}

	if e.NextQFToSend == 0 {
		if rateType == timecode.Type25 && e.StagedTime.Frame%2 != 0 {
			log.Debugf("mtc: 25fps parity violation at frame %d, refusing to start sequence", e.StagedTime.Frame)
			return
		}
		e.held = e.StagedTime
	}

	fptcfQuarter := fptcf / 4
	base := e.cfcnt

	for i := 0; i < 4; i++ {
		if e.Reverse {
			e.NextQFToSend = (e.NextQFToSend + 7) % 8
		}

		piece := e.NextQFToSend
		nibble := nibbleForPiece(piece, e.held, rateType)
		data := (byte(piece) << 4) | nibble

		ev := QueuedMidiEvent{
			AlignmentSample: base + int64(i)*fptcfQuarter,
			Size:            2,
		}
		ev.Bytes[0] = StatusQuarterFrame
		ev.Bytes[1] = data
		queue.Push(ev)

		if !e.Reverse {
			e.NextQFToSend = (e.NextQFToSend + 1) % 8
		}
	}

	if e.NextQFToSend != 0 && e.NextQFToSend != 4 {
		log.Debugf("mtc: unexpected next_qf_to_send=%d after batch, resetting", e.NextQFToSend)
		e.NextQFToSend = 0
	}
}

func (m Mode) String() string {
	switch m {
	case ModeStopped:
		return "stopped"
	case ModeLocating:
		return "locating"
	case ModeRolling:
		return "rolling"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
