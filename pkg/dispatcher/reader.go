package dispatcher

import (
	"fmt"
	"sync/atomic"

	"github.com/rgareus/mtc-tools/pkg/jackhost"
	"github.com/rgareus/mtc-tools/pkg/ltc"
	"github.com/rgareus/mtc-tools/pkg/mtc"
	"github.com/rgareus/mtc-tools/pkg/timecode"
)

// RecordSink is what the RT reader dispatcher pushes decoded records
// into - satisfied by *ring.Ring[DecodedRecord] (the spec §4.6 SPSC ring)
// and by a plain slice-backed fake in tests.
type RecordSink interface {
	Push(DecodedRecord) bool
}

// ReaderLog is the minimal sink ReaderDispatcher logs through.
type ReaderLog interface {
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// ReaderDispatcher wires pkg/mtc's parser, pkg/ltc's decoders, and
// pkg/jackhost's Graph into the reader's per-cycle dispatcher (spec
// §4.1/§4.5). LTC2 is optional: pass hasLTC2 = false to
// NewReaderDispatcher when only one LTC input is wired.
type ReaderDispatcher struct {
	graph jackhost.Graph
	log   ReaderLog
	sink  RecordSink

	mtcIn jackhost.PortHandle

	ltc1        jackhost.PortHandle
	hasLTC2     bool
	ltc2        jackhost.PortHandle
	ltc1Decoder ltc.Decoder
	ltc2Decoder ltc.Decoder

	// ltc1PCM/ltc2PCM are reused across cycles so processLTC never
	// allocates on the RT path (spec §5); each cycle uses only the
	// [:n] prefix matching that cycle's sample count.
	ltc1PCM [ltc.MaxSamplesPerBlock]byte
	ltc2PCM [ltc.MaxSamplesPerBlock]byte

	assembler mtc.AssemblyState

	mfcnt int64

	mtcLatency  atomic.Int64
	ltc1Latency atomic.Int64
	ltc2Latency atomic.Int64
}

// NewReaderDispatcher registers the MTC input port and up to two LTC
// input ports (hasLTC2 == false means "no second LTC input") and wires the
// graph-order callback to keep each port's latency current.
func NewReaderDispatcher(graph jackhost.Graph, hasLTC2 bool, log ReaderLog, sink RecordSink) (*ReaderDispatcher, error) {
	mtcIn, err := graph.RegisterMIDIPort("mtc_in", jackhost.DirectionInput)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: register MTC input port: %w", err)
	}
	ltc1, err := graph.RegisterAudioPort("ltc_in_1", jackhost.DirectionInput)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: register LTC1 input port: %w", err)
	}

	d := &ReaderDispatcher{
		graph:       graph,
		log:         log,
		sink:        sink,
		mtcIn:       mtcIn,
		ltc1:        ltc1,
		hasLTC2:     hasLTC2,
		ltc1Decoder: ltc.NewDecoder(),
	}

	if hasLTC2 {
		ltc2, err := graph.RegisterAudioPort("ltc_in_2", jackhost.DirectionInput)
		if err != nil {
			return nil, fmt.Errorf("dispatcher: register LTC2 input port: %w", err)
		}
		d.ltc2 = ltc2
		d.ltc2Decoder = ltc.NewDecoder()
	}

	if err := graph.SetGraphOrderCallback(d.onGraphOrder); err != nil {
		return nil, fmt.Errorf("dispatcher: set graph-order callback: %w", err)
	}
	d.onGraphOrder()

	return d, nil
}

func (d *ReaderDispatcher) onGraphOrder() int {
	min, _ := d.graph.PortLatencyRange(d.mtcIn, jackhost.DirectionInput)
	d.mtcLatency.Store(int64(min))
	min, _ = d.graph.PortLatencyRange(d.ltc1, jackhost.DirectionInput)
	d.ltc1Latency.Store(int64(min))
	if d.hasLTC2 {
		min, _ = d.graph.PortLatencyRange(d.ltc2, jackhost.DirectionInput)
		d.ltc2Latency.Store(int64(min))
	}
	return 0
}

// Process runs one cycle of the reader's dispatcher: LTC ingestion in fixed
// port order (port 1 before port 2), then MTC quarter-frame assembly in
// arrival order (§4.1/§4.5, §5 ordering guarantee) - jmltcdebug.c's
// process() runs parse_ltc/dequeue_ltc for both ports ahead of the MTC
// event loop in its single callback body, and this mirrors that order.
func (d *ReaderDispatcher) Process(nframes uint32) int {
	sampleRate := d.graph.SampleRate()

	d.processLTC(d.ltc1, d.ltc1Decoder, d.ltc1PCM[:], 1, d.ltc1Latency.Load(), nframes)
	if d.hasLTC2 {
		d.processLTC(d.ltc2, d.ltc2Decoder, d.ltc2PCM[:], 2, d.ltc2Latency.Load(), nframes)
	}
	d.processMTC(nframes, sampleRate)

	d.mfcnt += int64(nframes)
	return 0
}

func (d *ReaderDispatcher) processMTC(nframes uint32, sampleRate uint32) {
	buf := d.graph.PortBuffer(d.mtcIn, nframes)
	n := buf.MIDIEventCount()
	for i := uint32(0); i < n; i++ {
		ev, ok := buf.MIDIEventGet(i)
		if !ok || len(ev.Data) != 2 || ev.Data[0] != mtc.StatusQuarterFrame {
			continue
		}

		piece, nibble := mtc.ParseQuarterFrame(ev.Data[1])
		complete, result, rate, err := d.assembler.Apply(piece, nibble)
		if err != nil {
			d.log.Warnf("reader: mtc parse error: %v", err)
			continue
		}
		if !complete {
			continue
		}

		arrival := d.mfcnt + int64(ev.Time) - d.mtcLatency.Load()
		effective := arrival - mtc.TransmissionLatencySamples(sampleRate, rate)

		rateType, err := rate.Type()
		if err != nil {
			d.log.Warnf("reader: mtc decoded invalid rate: %v", err)
			continue
		}

		rec := DecodedRecord{
			SourceID:        SourceMTC,
			Hour:            result.Hour,
			Minute:          result.Minute,
			Second:          result.Second,
			Frame:           result.Frame,
			RateIndex:       int(rateType),
			SampleTimestamp: effective,
		}
		if !d.sink.Push(rec) {
			d.log.Debugf("reader: record ring full, dropping MTC record")
		}
	}
}

func (d *ReaderDispatcher) processLTC(port jackhost.PortHandle, dec ltc.Decoder, pcmBuf []byte, sourceID int, portLatency int64, nframes uint32) {
	buf := d.graph.PortBuffer(port, nframes)
	samples := buf.AudioSamples()
	if len(samples) == 0 {
		return
	}
	if len(samples) > ltc.MaxSamplesPerBlock {
		d.log.Warnf("reader: LTC%d cycle of %d samples exceeds max %d, dropping cycle", sourceID, len(samples), ltc.MaxSamplesPerBlock)
		return
	}

	pcm := pcmBuf[:len(samples)]
	for i, s := range samples {
		pcm[i] = ltc.SampleToPCM(s)
	}

	posTag := d.mfcnt - portLatency
	if err := dec.WriteSamples(pcm, posTag); err != nil {
		d.log.Warnf("reader: LTC%d decode error: %v", sourceID, err)
		return
	}

	for {
		frame, ok := dec.ReadFrame()
		if !ok {
			break
		}
		rec := DecodedRecord{
			SourceID:        sourceID,
			Hour:            frame.Hour,
			Minute:          frame.Minute,
			Second:          frame.Second,
			Frame:           frame.Frame,
			RateIndex:       ltcRateIndex(frame.DropFrame),
			SampleTimestamp: frame.OffStart,
		}
		if !d.sink.Push(rec) {
			d.log.Debugf("reader: record ring full, dropping LTC%d record", sourceID)
		}
	}
}

// ltcRateIndex maps an LTC frame's drop-frame flag to a rate index. LTC's
// 80-bit frame carries only that one flag, not the full 24/25/30fps
// distinction MTC's piece-7 rate bits carry, so a non-drop frame's exact
// rate is genuinely ambiguous from the bitstream alone; -1 marks "unknown,
// non-drop" rather than guessing.
func ltcRateIndex(dropFrame bool) int {
	if dropFrame {
		return int(timecode.Type2997Drop)
	}
	return -1
}
