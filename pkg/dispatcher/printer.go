package dispatcher

import (
	"fmt"
)

// rateLabels mirrors the original source's MTCTYPE table (24/25/29.97df/30),
// indexed by timecode.Type.
var rateLabels = [4]string{"24fps", "25fps", "29.97fps", "30fps"}

// FormatRecord renders one DecodedRecord as the reader's stdout line, per
// spec §6: "MTC<id> HH:MM:SS.FF [Xfps] <sample>" for MTC (id is always
// -1), "LTC<id> HH:MM:SS.FF ------- <sample>" for LTC.
func FormatRecord(rec DecodedRecord) string {
	if rec.SourceID == SourceMTC {
		label := "?fps"
		if rec.RateIndex >= 0 && rec.RateIndex < len(rateLabels) {
			label = rateLabels[rec.RateIndex]
		}
		return fmt.Sprintf("MTC%d %02d:%02d:%02d.%02d [%s] %d",
			rec.SourceID, rec.Hour, rec.Minute, rec.Second, rec.Frame, label, rec.SampleTimestamp)
	}
	return fmt.Sprintf("LTC%d %02d:%02d:%02d.%02d ------- %d",
		rec.SourceID, rec.Hour, rec.Minute, rec.Second, rec.Frame, rec.SampleTimestamp)
}

// Printer is the reader's non-RT output stage: the consumer loop hands it
// each drained record and it writes one formatted line per record. Newline selects
// between "\n" (the -n/--newline flag) and "\r" (the original's default). In
// "\r" mode only the LTC line gets a leading "\t\t\t\t" (four tabs, matching
// the original's column width for its MTC line), so in-place updates of both
// lines stay aligned; the MTC line itself has no prefix, per spec §6.
type Printer struct {
	Write   func(line string)
	Newline string
}

// NewPrinter builds a Printer writing terminator "\n" when useNewline is
// set, "\r" otherwise (spec §6 CLI surface -n/--newline).
func NewPrinter(write func(line string), useNewline bool) *Printer {
	term := "\r"
	if useNewline {
		term = "\n"
	}
	return &Printer{Write: write, Newline: term}
}

// Print formats and writes one record, in the drain order given to it by
// the consumer loop - that loop's Ring.Drain call is what preserves the
// SPSC production order spec §5 requires.
func (p *Printer) Print(rec DecodedRecord) {
	line := FormatRecord(rec)
	if p.Newline == "\r" && rec.SourceID != SourceMTC {
		line = "\t\t\t\t" + line
	}
	p.Write(line + p.Newline)
}
