// Package timecode implements the rational-frame-rate arithmetic the MTC
// core depends on: converting between a host sample position and an
// hour/minute/second/frame timecode, and between a timecode and its
// MTC-wire rate-type bits.
package timecode

import "fmt"

// Type is the 2-bit MTC rate-type field carried in quarter-frame piece 7
// and full-frame byte 5.
type Type int

const (
	Type24 Type = iota
	Type25
	Type2997Drop
	Type30
)

// Rate is a rational frames-per-second value with an associated drop-frame
// flag and subframe resolution. Only four rates are valid on the MTC wire;
// Rate values outside that set cannot be converted to a Type.
type Rate struct {
	Num       int
	Den       int
	Drop      bool
	Subframes int
}

var (
	Rate24   = Rate{Num: 24, Den: 1, Subframes: 80}
	Rate25   = Rate{Num: 25, Den: 1, Subframes: 80}
	Rate2997 = Rate{Num: 30000, Den: 1001, Drop: true, Subframes: 80}
	Rate30   = Rate{Num: 30, Den: 1, Subframes: 80}
)

// FPS returns the rate as frames per second (non-integer for 29.97-drop).
func (r Rate) FPS() float64 {
	return float64(r.Num) / float64(r.Den)
}

// RoundFPS is the nearest integer frame count per second, used for the
// frame-field range check (0 <= frame < RoundFPS).
func (r Rate) RoundFPS() int {
	return int(r.FPS() + 0.5)
}

// Type maps a rate to its 2-bit MTC wire type. Returns an error for any
// rate outside the four MTC-valid ones, per spec non-goals.
func (r Rate) Type() (Type, error) {
	switch {
	case r == Rate24:
		return Type24, nil
	case r == Rate25:
		return Type25, nil
	case r == Rate2997:
		return Type2997Drop, nil
	case r == Rate30:
		return Type30, nil
	default:
		return 0, fmt.Errorf("timecode: rate %d/%d is not a valid MTC rate", r.Num, r.Den)
	}
}

// RateForType is the inverse of Rate.Type, used by the parser to recover a
// Rate from the wire-format type bits.
func RateForType(t Type) (Rate, error) {
	switch t {
	case Type24:
		return Rate24, nil
	case Type25:
		return Rate25, nil
	case Type2997Drop:
		return Rate2997, nil
	case Type30:
		return Rate30, nil
	default:
		return Rate{}, fmt.Errorf("timecode: unknown MTC type %d", t)
	}
}

// ParseRate parses the generator's "-f NUM[/DEN]" flag value and matches it
// to one of the four MTC-valid rates when it lies within 0.01 fps of one;
// any other value is an error.
func ParseRate(num, den int) (Rate, error) {
	if den <= 0 {
		den = 1
	}
	candidate := Rate{Num: num, Den: den}
	fps := candidate.FPS()
	switch {
	case closeTo(fps, 24):
		return Rate24, nil
	case closeTo(fps, 25):
		return Rate25, nil
	case closeTo(fps, 30000.0/1001.0):
		return Rate2997, nil
	case closeTo(fps, 30):
		return Rate30, nil
	default:
		return Rate{}, fmt.Errorf("timecode: %d/%d (%.4f fps) is not one of the four MTC rates", num, den, fps)
	}
}

// FramesPerVideoFrame classifies a host-reported audio_frames_per_video_frame
// value to an MTC-valid rate via ParseRate (within 0.01 fps), per spec
// §4.4 step 2; any other value is an error.
func FramesPerVideoFrame(sampleRate uint32, audioFramesPerVideoFrame float64) (Rate, error) {
	if audioFramesPerVideoFrame <= 0 {
		return Rate{}, fmt.Errorf("timecode: invalid audio_frames_per_video_frame %f", audioFramesPerVideoFrame)
	}
	fps := float64(sampleRate) / audioFramesPerVideoFrame
	return ParseRate(int(fps*1000+0.5), 1000)
}

func closeTo(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.01
}
