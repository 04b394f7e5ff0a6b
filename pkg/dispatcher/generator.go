package dispatcher

import (
	"fmt"
	"sync/atomic"

	"github.com/rgareus/mtc-tools/pkg/jackhost"
	"github.com/rgareus/mtc-tools/pkg/mtc"
	"github.com/rgareus/mtc-tools/pkg/timecode"
)

// GeneratorLog is the minimal sink GeneratorDispatcher logs through -
// satisfied by *logger.RingSink on the RT path, and by a discarding fake in
// tests. *logger.Logger does not satisfy it (it has no printf-style methods).
type GeneratorLog interface {
	mtc.Logger
	Infof(format string, args ...interface{})
}

// GeneratorDispatcher wires pkg/mtc's emitter and pkg/jackhost's Graph
// together into the generator's per-cycle dispatcher (spec §4.4). It owns
// every piece of state the RT process callback touches as plain fields -
// no file-scope globals, no back-pointers, per spec §9 - created once by
// NewGeneratorDispatcher and driven one cycle at a time by Process.
type GeneratorDispatcher struct {
	graph jackhost.Graph
	log   GeneratorLog

	midiOut jackhost.PortHandle

	rate            timecode.Rate
	followJackVideo bool

	emitter mtc.EmitterState
	queue   midiQueue

	mfcnt int64

	// portLatencyOut is refreshed from the graph-order callback and read
	// by the RT process callback; an atomic matches spec §5's "relaxed
	// atomic or equivalent, no tearing matters beyond single-sample
	// granularity" for the j_latency fields.
	portLatencyOut atomic.Int64
}

// NewGeneratorDispatcher registers the generator's single MIDI output
// port, wires the graph-order callback to refresh its latency, and
// returns a dispatcher ready to be driven by the host's process callback.
func NewGeneratorDispatcher(graph jackhost.Graph, rate timecode.Rate, followJackVideo bool, log GeneratorLog) (*GeneratorDispatcher, error) {
	port, err := graph.RegisterMIDIPort("mtc_out", jackhost.DirectionOutput)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: register MTC output port: %w", err)
	}

	d := &GeneratorDispatcher{
		graph:           graph,
		log:             log,
		midiOut:         port,
		rate:            rate,
		followJackVideo: followJackVideo,
	}

	if err := graph.SetGraphOrderCallback(d.onGraphOrder); err != nil {
		return nil, fmt.Errorf("dispatcher: set graph-order callback: %w", err)
	}
	d.onGraphOrder()

	return d, nil
}

func (d *GeneratorDispatcher) onGraphOrder() int {
	_, max := d.graph.PortLatencyRange(d.midiOut, jackhost.DirectionOutput)
	d.portLatencyOut.Store(int64(max))
	return 0
}

// Process runs one cycle of the generator's dispatcher, spec §4.4 steps
// 1-7. It is registered as the host's process callback and must not
// allocate beyond what a bounded, pre-sized slice append costs (the MIDI
// queue and batch appends below are capacity-bounded per spec §4.6).
func (d *GeneratorDispatcher) Process(nframes uint32) int {
	sampleRate := d.graph.SampleRate()
	transport := d.graph.QueryTransport()

	if d.followJackVideo && transport.HasAudioFramesPerVideoFrame {
		if newRate, err := timecode.FramesPerVideoFrame(sampleRate, transport.AudioFramesPerVideoFrame); err == nil {
			if newRate != d.rate {
				d.log.Infof("generator: rate changed to %d/%d (from host video framerate)", newRate.Num, newRate.Den)
				d.rate = newRate
			}
		} else {
			d.log.Warnf("generator: host video framerate %.3f is not a valid MTC rate, keeping previous rate: %v", transport.AudioFramesPerVideoFrame, err)
		}
	}

	samplePos := transport.SamplePos
	if transport.HasVideoOffset {
		// When the offset exceeds the current sample position the
		// position is clamped to zero rather than going negative.
		samplePos -= transport.VideoOffset
		if samplePos < 0 {
			samplePos = 0
		}
	}

	t := timecode.SampleToTime(samplePos, sampleRate, d.rate)

	var mode mtc.Mode
	switch transport.State {
	case jackhost.TransportStopped:
		mode = mtc.ModeStopped
	case jackhost.TransportStarting:
		mode = mtc.ModeLocating
	case jackhost.TransportRolling:
		mode = mtc.ModeRolling
	}

	d.emitter.Process(t, d.rate, d.mfcnt, mode, sampleRate, d.portLatencyOut.Load(), &d.queue, d.log)

	buf := d.graph.PortBuffer(d.midiOut, nframes)
	buf.ClearMIDIBuffer()

	windowStart := d.mfcnt
	windowEnd := d.mfcnt + int64(nframes)
	latency := d.portLatencyOut.Load()
	ready := d.queue.drainReady(windowStart, windowEnd, latency, func(ev mtc.QueuedMidiEvent) {
		d.log.Warnf("generator: dropping event %d samples late (window starts at %d)", windowStart-(ev.AlignmentSample-latency), windowStart)
	})
	for _, ev := range ready {
		if err := buf.MIDIEventWrite(uint32(ev.RelativeTime), ev.Bytes[:ev.Size]); err != nil {
			d.log.Warnf("generator: midi write failed: %v", err)
		}
	}

	d.mfcnt += int64(nframes)
	return 0
}
