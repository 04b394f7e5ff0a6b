package mtc

import (
	"fmt"

	"github.com/rgareus/mtc-tools/pkg/timecode"
)

// AssemblyState is the reader's nibble assembler, exclusively owned by the
// RT callback. It accumulates one quarter-frame message at a time and
// reports a complete TimecodeTime once all eight pieces of a window have
// been seen.
type AssemblyState struct {
	Frame, Second, Minute, Hour int
	Type                        timecode.Type
	Tick                        int
	CompletionMask              uint8
	FirstComplete                bool
}

// Apply feeds one quarter-frame's piece and nibble into the assembler.
// complete is true exactly when piece 7 arrives and every other piece has
// already been seen since the last emission (completion_mask == 0xFF);
// in that case result and rate hold the freshly assembled timecode and its
// rate, and the mask is reset to zero with no fall-through effect (see
// DESIGN.md open question (b)).
func (s *AssemblyState) Apply(piece int, nibble byte) (complete bool, result timecode.Time, rate timecode.Rate, err error) {
	if piece < 0 || piece > 7 {
		return false, timecode.Time{}, timecode.Rate{}, fmt.Errorf("mtc: piece %d out of range", piece)
	}

	s.Tick = piece
	s.CompletionMask |= 1 << uint(piece)

	if piece == 7 {
		s.Hour = (s.Hour &^ 0x10) | (int(nibble&1) << 4)
		s.Type = timecode.Type((nibble >> 1) & 3)
	} else {
		fields := s.fields()
		idx := pieceFieldIndex[piece]
		if pieceIsHighNibble[piece] {
			*fields[idx] = (*fields[idx] &^ 0xF0) | (int(nibble&0xF) << 4)
		} else {
			*fields[idx] = (*fields[idx] &^ 0x0F) | int(nibble&0xF)
		}
	}

	if piece != 7 || s.CompletionMask != 0xFF {
		return false, timecode.Time{}, timecode.Rate{}, nil
	}

	rate, err = timecode.RateForType(s.Type)
	if err != nil {
		s.CompletionMask = 0
		return false, timecode.Time{}, timecode.Rate{}, err
	}

	result = timecode.Time{Hour: s.Hour, Minute: s.Minute, Second: s.Second, Frame: s.Frame}
	s.CompletionMask = 0
	s.FirstComplete = true
	return true, result, rate, nil
}

// ParseQuarterFrame decodes the piece and nibble out of the two-byte wire
// message F1 NNDD. Callers must already have recognised byte[0] as
// StatusQuarterFrame.
func ParseQuarterFrame(data byte) (piece int, nibble byte) {
	return int(data>>4) & 0x7, data & 0xF
}

// TransmissionLatencySamples is the number of host samples by which a
// just-completed quarter-frame window's final byte lags the timecode it
// describes: the 8-message window spans two frames, and transmission
// finishes at the start of the third, so the effective sample timestamp is
// arrival_sample - round(sample_rate/fps * 7/4).
func TransmissionLatencySamples(sampleRate uint32, rate timecode.Rate) int64 {
	return int64(float64(sampleRate)/rate.FPS()*7.0/4.0 + 0.5)
}
