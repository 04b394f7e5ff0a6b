// Package dispatcher wires pkg/mtc, pkg/ltc, pkg/ring, and pkg/jackhost
// together into the two per-cycle RT dispatchers: GeneratorDispatcher
// (§4.2/§4.3/§4.4) and ReaderDispatcher (§4.1/§4.5). Both own their state
// as plain structs created once at startup and passed by reference to the
// process callback, per spec §9's "no back-pointers, no file-scope
// globals" design note. The switch over transport state in
// GeneratorDispatcher.Process is grounded on dbehnke-dmr-nexus/pkg/network/server.go's handlePacket
// dispatch shape (DESIGN.md open question (a)).
package dispatcher

// SourceMTC and the two LTC source IDs distinguish DecodedRecord origin.
const (
	SourceMTC  = -1
	SourceLTC1 = 1
	SourceLTC2 = 2
)

// DecodedRecord is one decoded timecode event handed from the RT reader
// path to the consumer over a ring.Ring[DecodedRecord] (spec §3.1/§4.6).
type DecodedRecord struct {
	SourceID        int
	Hour            int
	Minute          int
	Second          int
	Frame           int
	RateIndex       int
	SampleTimestamp int64
}
