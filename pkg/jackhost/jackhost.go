// Package jackhost defines the host audio-graph abstraction the MTC core
// consumes (spec §6): port registration, the RT process callback, the
// graph-order and shutdown callbacks, and a transport query. It is the
// external collaborator named in spec §1 ("the host audio/MIDI server
// binding itself"), given a concrete Go interface so the rest of this
// module has something to compile and test against. The shape is grounded
// on dbehnke-dmr-nexus/pkg/network/server.go's callback/dispatch loop,
// reinterpreted for a non-blocking RT callback instead of a
// goroutine-per-packet model: nothing here may allocate or block once
// registered as the process callback.
package jackhost

import "github.com/rgareus/mtc-tools/pkg/timecode"

// Direction is a port's data-flow direction.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// TransportState mirrors the host's transport state machine.
type TransportState int

const (
	TransportStopped TransportState = iota
	TransportStarting
	TransportRolling
)

// Transport is a snapshot of the host transport, queried once per cycle.
type Transport struct {
	State                       TransportState
	SamplePos                   int64
	FrameRate                   timecode.Rate
	ValidFlags                  uint32
	VideoOffset                 int64
	HasVideoOffset              bool
	AudioFramesPerVideoFrame    float64
	HasAudioFramesPerVideoFrame bool
}

// PortHandle identifies a registered port.
type PortHandle int

// MIDIEvent is one raw MIDI message read from a port buffer.
type MIDIEvent struct {
	Time uint32
	Data []byte
}

// PortBuffer is the per-cycle view of a port's buffer.
type PortBuffer interface {
	MIDIEventCount() uint32
	MIDIEventGet(i uint32) (MIDIEvent, bool)
	MIDIEventWrite(time uint32, data []byte) error
	ClearMIDIBuffer()
	AudioSamples() []float32
}

// Graph is the host audio-graph interface the core consumes.
type Graph interface {
	RegisterMIDIPort(name string, dir Direction) (PortHandle, error)
	RegisterAudioPort(name string, dir Direction) (PortHandle, error)
	SetProcessCallback(fn func(nframes uint32) int) error
	SetGraphOrderCallback(fn func() int) error
	SetShutdownCallback(fn func())
	QueryTransport() Transport
	PortLatencyRange(p PortHandle, dir Direction) (min, max uint32)
	PortBuffer(p PortHandle, nframes uint32) PortBuffer
	SampleRate() uint32
	Activate() error
	Close() error
}
