// Package mtc implements the MIDI Time Code quarter-frame parser and
// emitter, and the Full-Frame SysEx locate codec, bit-exact per the wire
// formats in F1 NNDD / F0 7F 7F 01 01 hh mm ss ff F7.
package mtc

import "github.com/rgareus/mtc-tools/pkg/timecode"

// MIDI status bytes relevant to MTC, named after
// somesmallstudio-go-midi-rtp's command-info table.
const (
	StatusQuarterFrame byte = 0xF1
	StatusSysExStart   byte = 0xF0
	StatusSysExEnd     byte = 0xF7
)

// sysExLocateHeader is the fixed manufacturer/sub-ID prefix of a Full-Frame
// SysEx locate message: universal real-time, all-devices, MTC, full-frame.
var sysExLocateHeader = [5]byte{StatusSysExStart, 0x7F, 0x7F, 0x01, 0x01}

// pieceFieldIndex maps a quarter-frame piece (0..7) to which of the four
// binary accumulators (frame, second, minute, hour) it touches; piece 7 is
// handled separately since it also carries the rate bits.
var pieceFieldIndex = [8]int{0, 0, 1, 1, 2, 2, 3, 3}

// pieceIsHighNibble is true for the odd pieces, which write the high
// nibble of their field rather than the low nibble.
var pieceIsHighNibble = [8]bool{false, true, false, true, false, true, false, true}

// fields returns pointers to the four accumulators in piece-table order:
// frame, second, minute, hour.
func (s *AssemblyState) fields() [4]*int {
	return [4]*int{&s.Frame, &s.Second, &s.Minute, &s.Hour}
}

// nibbleForPiece extracts the 4-bit payload for the given piece (0..7) out
// of a TimecodeTime and rate, the inverse of AssemblyState.Apply.
func nibbleForPiece(piece int, t timecode.Time, rateType timecode.Type) byte {
	if piece == 7 {
		hourBit4 := byte(t.Hour>>4) & 1
		rateBits := byte(rateType) & 0x3
		return (rateBits << 1) | hourBit4
	}

	values := [4]int{t.Frame, t.Second, t.Minute, t.Hour}
	v := values[pieceFieldIndex[piece]]
	if pieceIsHighNibble[piece] {
		return byte(v>>4) & 0xF
	}
	return byte(v) & 0xF
}
