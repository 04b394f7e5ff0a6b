package logger

import (
	"bytes"
	"strings"
	"testing"
)

type fakeRing struct {
	records []LogRecord
}

func (f *fakeRing) Push(r LogRecord) bool {
	f.records = append(f.records, r)
	return true
}

func TestRingSinkPushesFormattedRecords(t *testing.T) {
	r := &fakeRing{}
	sink := NewRingSink(r, func() int64 { return 42 })

	sink.Warnf("port %s latency %d", "ltc_in_1", 128)
	sink.Debugf("no args")

	if len(r.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(r.records))
	}
	if r.records[0].Level != RecordWarn || r.records[0].Sample != 42 {
		t.Fatalf("unexpected first record: %+v", r.records[0])
	}
	if !strings.Contains(r.records[0].Message, "ltc_in_1") {
		t.Fatalf("expected formatted message, got %q", r.records[0].Message)
	}
	if r.records[1].Level != RecordDebug || r.records[1].Message != "no args" {
		t.Fatalf("unexpected second record: %+v", r.records[1])
	}
}

func TestDrainReplaysRecordsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Output: &buf})

	Drain(log, []LogRecord{
		{Level: RecordWarn, Message: "resync", Sample: 100},
		{Level: RecordInfo, Message: "started", Sample: 0},
	})

	out := buf.String()
	if !strings.Contains(out, "[WARN] resync") || !strings.Contains(out, "[INFO] started") {
		t.Fatalf("expected both records replayed, got: %s", out)
	}
}
