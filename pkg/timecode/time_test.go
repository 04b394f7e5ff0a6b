package timecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeToFrameNumberNonDrop(t *testing.T) {
	tc := Time{Hour: 1, Minute: 2, Second: 3, Frame: 4}
	got := TimeToFrameNumber(tc, Rate25)
	want := int64((((1*60+2)*60 + 3) * 25) + 4)
	assert.Equal(t, want, got)
}

func TestTimeIncrementRollover(t *testing.T) {
	tc := Time{Hour: 0, Minute: 0, Second: 0, Frame: 24}
	got := TimeIncrement(tc, Rate25)
	assert.Equal(t, Time{Hour: 0, Minute: 0, Second: 1, Frame: 0}, got)

	tc = Time{Hour: 23, Minute: 59, Second: 59, Frame: 24}
	got = TimeIncrement(tc, Rate25)
	assert.Equal(t, Time{Hour: 0, Minute: 0, Second: 0, Frame: 0}, got)
}

func TestTimeIncrementDropFrameSkip(t *testing.T) {
	// End of minute 0, second 59, frame 29 -> minute 1, which is not a
	// multiple of 10, so frames 0 and 1 are skipped, landing on frame 2.
	tc := Time{Hour: 0, Minute: 0, Second: 59, Frame: 29}
	got := TimeIncrement(tc, Rate2997)
	assert.Equal(t, Time{Hour: 0, Minute: 1, Second: 0, Frame: 2}, got)
}

func TestTimeIncrementDropFrameNoSkipAtTenMinuteBoundary(t *testing.T) {
	tc := Time{Hour: 0, Minute: 9, Second: 59, Frame: 29}
	got := TimeIncrement(tc, Rate2997)
	assert.Equal(t, Time{Hour: 0, Minute: 10, Second: 0, Frame: 0}, got)
}

func TestSampleToTimeRoundTripNonDrop(t *testing.T) {
	sampleRate := uint32(48000)
	fptcf := FramesPerTCFrame(sampleRate, Rate25)

	tc := Time{Hour: 0, Minute: 1, Second: 30, Frame: 10}
	frameNum := TimeToFrameNumber(tc, Rate25)
	samplePos := frameNum * fptcf

	got := SampleToTime(samplePos, sampleRate, Rate25)
	assert.Equal(t, tc, got)
}

func TestSampleToTimeRoundTripDropFrame(t *testing.T) {
	sampleRate := uint32(48000)
	fptcf := FramesPerTCFrame(sampleRate, Rate2997)

	for _, tc := range []Time{
		{Hour: 0, Minute: 0, Second: 0, Frame: 0},
		{Hour: 0, Minute: 1, Second: 0, Frame: 2},
		{Hour: 0, Minute: 10, Second: 0, Frame: 0},
		{Hour: 1, Minute: 23, Second: 45, Frame: 10},
	} {
		frameNum := TimeToFrameNumber(tc, Rate2997)
		samplePos := frameNum * fptcf
		got := SampleToTime(samplePos, sampleRate, Rate2997)
		assert.Equal(t, tc, got, "round-trip for %v", tc)
	}
}

func TestRateTypeMapping(t *testing.T) {
	cases := []struct {
		r    Rate
		want Type
	}{
		{Rate24, Type24},
		{Rate25, Type25},
		{Rate2997, Type2997Drop},
		{Rate30, Type30},
	}
	for _, c := range cases {
		got, err := c.r.Type()
		assert.NoError(t, err)
		assert.Equal(t, c.want, got)

		back, err := RateForType(got)
		assert.NoError(t, err)
		assert.Equal(t, c.r, back)
	}
}

func TestParseRateRejectsInvalid(t *testing.T) {
	_, err := ParseRate(23, 1)
	assert.Error(t, err)
}

func TestParseRateAcceptsAll(t *testing.T) {
	_, err := ParseRate(24, 1)
	assert.NoError(t, err)
	_, err = ParseRate(30000, 1001)
	assert.NoError(t, err)
}
