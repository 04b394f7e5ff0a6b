package timecode

import "fmt"

// Time is an hour/minute/second/frame/subframe timecode value.
type Time struct {
	Hour     int
	Minute   int
	Second   int
	Frame    int
	Subframe int
}

// Valid checks the invariants from the data model: 0<=hour<24, 0<=min<60,
// 0<=sec<60, 0<=frame<round(rate).
func (t Time) Valid(r Rate) bool {
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60 &&
		t.Frame >= 0 && t.Frame < r.RoundFPS()
}

// FramesPerTCFrame ("fptcf") is the number of host audio samples spanned by
// one timecode frame at the given host sample rate.
func FramesPerTCFrame(sampleRate uint32, r Rate) int64 {
	return int64(float64(sampleRate) * float64(r.Den) / float64(r.Num))
}

// TimeToFrameNumber flattens a Time to the real (drop-corrected) elapsed
// frame count since 00:00:00:00. For drop-frame rates the labeled frame
// numbers 0 and 1 are skipped at the start of every minute except
// multiples of 10, so this subtracts those skipped labels back out.
func TimeToFrameNumber(t Time, r Rate) int64 {
	fps := int64(r.RoundFPS())
	totalMinutes := int64(t.Hour)*60 + int64(t.Minute)

	frames := (totalMinutes*60+int64(t.Second))*fps + int64(t.Frame)

	if r.Drop {
		tenMinuteBlocks := totalMinutes / 10
		remMinutes := totalMinutes % 10
		dropped := 2 * (9*tenMinuteBlocks + remMinutes)
		frames -= dropped
	}

	return frames
}

// SampleToTime derives a Time from an absolute host sample position. The
// drop-frame case follows the standard SMPTE real-frame-number -> labeled
// drop-frame-timecode conversion.
func SampleToTime(samplePos int64, sampleRate uint32, r Rate) Time {
	fptcf := FramesPerTCFrame(sampleRate, r)
	if fptcf <= 0 {
		return Time{}
	}
	real := samplePos / fptcf
	return frameNumberToTime(real, r)
}

func frameNumberToTime(real int64, r Rate) Time {
	fps := int64(r.RoundFPS())

	labeled := real
	if r.Drop {
		const dropFrames = 2
		framesPer10Min := fps*600 - dropFrames*9
		framesPerMin := fps*60 - dropFrames
		framesPer24h := framesPer10Min * 6 * 24

		real = real % framesPer24h
		if real < 0 {
			real += framesPer24h
		}

		tenMinBlocks := real / framesPer10Min
		remInBlock := real % framesPer10Min

		if remInBlock > dropFrames {
			labeled = real + dropFrames*9*tenMinBlocks + dropFrames*((remInBlock-dropFrames)/framesPerMin)
		} else {
			labeled = real + dropFrames*9*tenMinBlocks
		}
	}

	frame := labeled % fps
	totalSeconds := labeled / fps
	second := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minute := totalMinutes % 60
	hour := (totalMinutes / 60) % 24

	return Time{
		Hour:   int(hour),
		Minute: int(minute),
		Second: int(second),
		Frame:  int(frame),
	}
}

// TimeIncrement advances t by one timecode frame, honoring drop-frame
// skipping and rolling over minute/hour/day boundaries.
func TimeIncrement(t Time, r Rate) Time {
	fps := r.RoundFPS()
	t.Frame++
	if t.Frame >= fps {
		t.Frame = 0
		t.Second++
		if t.Second >= 60 {
			t.Second = 0
			t.Minute++
			if t.Minute >= 60 {
				t.Minute = 0
				t.Hour = (t.Hour + 1) % 24
			}
			if r.Drop && t.Second == 0 && t.Minute%10 != 0 {
				t.Frame = 2
			}
		}
	}
	return t
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%02d", t.Hour, t.Minute, t.Second, t.Frame)
}
