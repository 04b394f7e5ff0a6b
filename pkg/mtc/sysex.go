package mtc

import (
	"fmt"

	"github.com/rgareus/mtc-tools/pkg/timecode"
)

// SysExLocateLen is the fixed length of a Full-Frame SysEx locate message.
const SysExLocateLen = 10

// EncodeSysExLocate builds the ten-byte Full-Frame SysEx locate message
// F0 7F 7F 01 01 hh mm ss ff F7, with the rate bits OR'd into bits 5-6 of
// hh and the hour in bits 0-4.
func EncodeSysExLocate(t timecode.Time, rateType timecode.Type) [SysExLocateLen]byte {
	var msg [SysExLocateLen]byte
	copy(msg[0:5], sysExLocateHeader[:])
	msg[5] = (byte(rateType)&0x3)<<5 | byte(t.Hour)&0x1F
	msg[6] = byte(t.Minute) & 0x7F
	msg[7] = byte(t.Second) & 0x7F
	msg[8] = byte(t.Frame) & 0x7F
	msg[9] = StatusSysExEnd
	return msg
}

// DecodeSysExLocate is the inverse of EncodeSysExLocate, used by the S2
// scenario test to decode the message it encodes.
func DecodeSysExLocate(msg []byte) (timecode.Time, timecode.Type, error) {
	if len(msg) != SysExLocateLen {
		return timecode.Time{}, 0, fmt.Errorf("mtc: sysex locate must be %d bytes, got %d", SysExLocateLen, len(msg))
	}
	for i, b := range sysExLocateHeader {
		if msg[i] != b {
			return timecode.Time{}, 0, fmt.Errorf("mtc: sysex locate header mismatch at byte %d", i)
		}
	}
	if msg[9] != StatusSysExEnd {
		return timecode.Time{}, 0, fmt.Errorf("mtc: sysex locate missing terminator")
	}
	rateType := timecode.Type((msg[5] >> 5) & 0x3)
	t := timecode.Time{
		Hour:   int(msg[5] & 0x1F),
		Minute: int(msg[6] & 0x7F),
		Second: int(msg[7] & 0x7F),
		Frame:  int(msg[8] & 0x7F),
	}
	return t, rateType, nil
}
