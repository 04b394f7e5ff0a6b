// Package fakehost is a deterministic in-process implementation of
// jackhost.Graph. It drives the dispatcher, emitter, and parser through
// whole process-callback cycles without a real audio server attached,
// the same "own the state, pass by reference to the callback's context"
// shape spec.md §9 calls for. The pkg/dispatcher tests use it; it is
// also the default runtime backend wired into cmd/mtcgen and cmd/mtcdump,
// since no JACK cgo binding exists anywhere in the retrieved example pack
// to ground a real adapter on (see DESIGN.md). Swapping in a real adapter
// means implementing jackhost.Graph against an actual JACK client library
// and selecting it in the two cmd/ mains; the interface boundary is the
// extension point.
package fakehost

import (
	"fmt"
	"sync"

	"github.com/rgareus/mtc-tools/pkg/jackhost"
)

// Host is the fake Graph. Tests drive it by calling Process directly and
// by mutating Transport/latency fields between calls; production code
// drives it the same way from a simple timer-based loop standing in for a
// real RT callback source.
type Host struct {
	mu sync.Mutex

	sampleRate uint32
	ports      []string
	midiPorts  map[jackhost.PortHandle]*midiPortBuffer

	transport jackhost.Transport

	processFn     func(nframes uint32) int
	graphOrderFn  func() int
	shutdownFn    func()

	latencies map[jackhost.PortHandle][2]uint32

	nextHandle jackhost.PortHandle
}

// New creates a fake host at the given sample rate.
func New(sampleRate uint32) *Host {
	return &Host{
		sampleRate: sampleRate,
		midiPorts:  make(map[jackhost.PortHandle]*midiPortBuffer),
		latencies:  make(map[jackhost.PortHandle][2]uint32),
	}
}

func (h *Host) RegisterMIDIPort(name string, dir jackhost.Direction) (jackhost.PortHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle := h.nextHandle
	h.nextHandle++
	h.midiPorts[handle] = &midiPortBuffer{}
	h.ports = append(h.ports, name)
	return handle, nil
}

func (h *Host) RegisterAudioPort(name string, dir jackhost.Direction) (jackhost.PortHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle := h.nextHandle
	h.nextHandle++
	h.ports = append(h.ports, name)
	return handle, nil
}

func (h *Host) SetProcessCallback(fn func(nframes uint32) int) error {
	h.processFn = fn
	return nil
}

func (h *Host) SetGraphOrderCallback(fn func() int) error {
	h.graphOrderFn = fn
	return nil
}

func (h *Host) SetShutdownCallback(fn func()) {
	h.shutdownFn = fn
}

func (h *Host) QueryTransport() jackhost.Transport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transport
}

// SetTransport lets tests and the runtime loop drive transport state.
func (h *Host) SetTransport(t jackhost.Transport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transport = t
}

func (h *Host) PortLatencyRange(p jackhost.PortHandle, dir jackhost.Direction) (uint32, uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l := h.latencies[p]
	return l[0], l[1]
}

// SetPortLatency lets tests simulate the graph-order callback updating a
// port's reported latency range.
func (h *Host) SetPortLatency(p jackhost.PortHandle, min, max uint32) {
	h.mu.Lock()
	h.latencies[p] = [2]uint32{min, max}
	fn := h.graphOrderFn
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (h *Host) PortBuffer(p jackhost.PortHandle, nframes uint32) jackhost.PortBuffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.midiPorts[p]
	if !ok {
		buf = &midiPortBuffer{}
		h.midiPorts[p] = buf
	}
	buf.nframes = nframes
	return buf
}

func (h *Host) SampleRate() uint32 { return h.sampleRate }

func (h *Host) Activate() error { return nil }

func (h *Host) Close() error {
	if h.shutdownFn != nil {
		h.shutdownFn()
	}
	return nil
}

// Process drives one process-callback cycle directly, as a real JACK
// server would, for use from tests and from the runtime loop.
func (h *Host) Process(nframes uint32) int {
	if h.processFn == nil {
		return 0
	}
	return h.processFn(nframes)
}

// InputEvents lets a test inject MIDI events for an input port to be read
// back via PortBuffer(...).MIDIEventGet during the next Process call.
func (h *Host) InputEvents(p jackhost.PortHandle, events []jackhost.MIDIEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.midiPorts[p]
	if !ok {
		buf = &midiPortBuffer{}
		h.midiPorts[p] = buf
	}
	buf.readEvents = events
}

// OutputEvents returns everything written to an output port's buffer
// since the last ClearMIDIBuffer, for tests to assert against.
func (h *Host) OutputEvents(p jackhost.PortHandle) []jackhost.MIDIEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.midiPorts[p]
	if !ok {
		return nil
	}
	return buf.written
}

type midiPortBuffer struct {
	nframes    uint32
	readEvents []jackhost.MIDIEvent
	written    []jackhost.MIDIEvent
	audio      []float32
}

func (b *midiPortBuffer) MIDIEventCount() uint32 {
	return uint32(len(b.readEvents))
}

func (b *midiPortBuffer) MIDIEventGet(i uint32) (jackhost.MIDIEvent, bool) {
	if i >= uint32(len(b.readEvents)) {
		return jackhost.MIDIEvent{}, false
	}
	return b.readEvents[i], true
}

func (b *midiPortBuffer) MIDIEventWrite(time uint32, data []byte) error {
	if len(data) > 16 {
		return fmt.Errorf("fakehost: midi event of %d bytes exceeds 16", len(data))
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	b.written = append(b.written, jackhost.MIDIEvent{Time: time, Data: cp})
	return nil
}

func (b *midiPortBuffer) ClearMIDIBuffer() {
	b.written = nil
	b.readEvents = nil
}

func (b *midiPortBuffer) AudioSamples() []float32 {
	return b.audio
}

// SetAudioSamples lets a test drive an audio input port's samples for the
// next Process call.
func (h *Host) SetAudioSamples(p jackhost.PortHandle, samples []float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.midiPorts[p]
	if !ok {
		buf = &midiPortBuffer{}
		h.midiPorts[p] = buf
	}
	buf.audio = samples
}
