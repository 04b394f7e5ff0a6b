package ltc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleToPCMBoundaries(t *testing.T) {
	assert.Equal(t, byte(1), SampleToPCM(-1))
	assert.Equal(t, byte(128), SampleToPCM(0))
	assert.Equal(t, byte(255), SampleToPCM(1))
}

func TestWriteSamplesRejectsOversizedBlock(t *testing.T) {
	d := NewDecoder()
	err := d.WriteSamples(make([]byte, MaxSamplesPerBlock+1), 0)
	assert.Error(t, err)
}

func TestWriteSamplesAcceptsMaxBlock(t *testing.T) {
	d := NewDecoder()
	err := d.WriteSamples(make([]byte, MaxSamplesPerBlock), 0)
	assert.NoError(t, err)
}

// encodeLTCFrameBits builds the 80-bit array for a timecode per the
// standard LTC bit layout, for use as a decoder test fixture.
func encodeLTCFrameBits(hour, minute, second, frame int) [80]bool {
	var bits [80]bool
	setBCD := func(lo, hiStart, hiLen, value int) {
		units := value % 10
		tens := value / 10
		for i := 0; i < 4; i++ {
			bits[lo+i] = (units>>uint(i))&1 == 1
		}
		for i := 0; i < hiLen; i++ {
			bits[hiStart+i] = (tens>>uint(i))&1 == 1
		}
	}
	setBCD(0, 8, 2, frame)
	setBCD(16, 24, 3, second)
	setBCD(32, 40, 3, minute)
	setBCD(48, 56, 2, hour)

	sync := uint32(ltcSyncWord)
	for i := 0; i < 16; i++ {
		bits[79-i] = (sync>>uint(i))&1 == 1
	}
	return bits
}

// biphaseEncode converts bits into an 8-bit-PCM biphase-mark waveform: a
// '0' bit is one full-period pulse, a '1' bit is two half-period pulses.
// This is the test-only inverse of biphaseDecoder, used to validate the
// decoder end to end without a second real implementation to compare
// against.
func biphaseEncode(bits []bool, samplesPerBit int) []byte {
	half := samplesPerBit / 2
	var out []byte
	level := false
	emit := func(n int) {
		for i := 0; i < n; i++ {
			if level {
				out = append(out, 255)
			} else {
				out = append(out, 0)
			}
		}
	}
	for _, b := range bits {
		if b {
			level = !level
			emit(half)
			level = !level
			emit(half)
		} else {
			level = !level
			emit(samplesPerBit)
		}
	}
	return out
}

func TestDecoderRecoversEncodedFrame(t *testing.T) {
	// A run of '1' bits gives the decoder half-bit intervals to bootstrap
	// its self-clocking estimate from (it takes the first edge interval as
	// a half-bit) before the real frame begins, the same way a real LTC
	// stream's preceding frame gives the decoder a clock reference. One
	// trailing bit supplies the edge that closes the frame's last bit cell,
	// as the next frame would in a real stream.
	preamble := make([]bool, 40)
	for i := range preamble {
		preamble[i] = true
	}
	bits := encodeLTCFrameBits(10, 20, 30, 15)
	all := append(preamble, bits[:]...)
	all = append(all, false)
	pcm := biphaseEncode(all, 20)

	d := NewDecoder()
	require.NoError(t, d.WriteSamples(pcm, 1000))

	var got DecodedFrame
	var found bool
	for {
		frame, ok := d.ReadFrame()
		if !ok {
			break
		}
		got, found = frame, true
	}
	require.True(t, found, "expected at least one decoded frame")
	assert.Equal(t, 10, got.Hour)
	assert.Equal(t, 20, got.Minute)
	assert.Equal(t, 30, got.Second)
	assert.Equal(t, 15, got.Frame)
}
