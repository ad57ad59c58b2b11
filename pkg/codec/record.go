package codec

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Record is one decoded composite record. Payload may alias the buffer it
// was decoded from; use Clone to retain it.
type Record struct {
	Header
	Offset  int64  // Byte offset of the header within the stream
	Payload []byte // Payload bytes, padding excluded
}

// DecodeRecord decodes the record starting at off. b must hold at least the
// full record; the trailing pad byte is optional.
func DecodeRecord(b []byte, off int) (Record, error) {
	h, err := DecodeHeader(b, off)
	if err != nil {
		return Record{}, err
	}

	end := int64(off) + int64(h.Length)
	if end > int64(len(b)) {
		return Record{}, fmt.Errorf("%w: record at offset %d declares %d bytes, %d available",
			ErrTruncated, off, h.Length, len(b)-off)
	}

	return Record{
		Header:  h,
		Offset:  int64(off),
		Payload: b[off+h.Size() : end],
	}, nil
}

// Span returns the number of stream bytes the record occupies, pad byte included
func (r Record) Span() int64 {
	return SpanOf(r.Length)
}

// PadBytes returns 1 when the record is followed by a pad byte
func (r Record) PadBytes() int {
	return int(r.Length & 1)
}

// NextOffset returns the offset of the record that follows this one
func (r Record) NextOffset() int64 {
	return r.Offset + r.Span()
}

// Clone returns a copy of the record that does not share its payload
func (r Record) Clone() Record {
	c := r
	c.Payload = append([]byte(nil), r.Payload...)
	return c
}

// Checksum returns the xxhash64 digest of the payload
func (r Record) Checksum() uint64 {
	return xxhash.Sum64(r.Payload)
}

// Encode serializes the record header and payload, without padding
func (r Record) Encode() ([]byte, error) {
	if r.PayloadLength() != len(r.Payload) {
		return nil, fmt.Errorf("%w: header declares %d payload bytes, record has %d",
			ErrLengthOutOfRange, r.PayloadLength(), len(r.Payload))
	}

	buf, err := AppendHeader(make([]byte, 0, int(r.Length)), r.Header)
	if err != nil {
		return nil, err
	}
	return append(buf, r.Payload...), nil
}

// SpanOf rounds a record length up to the next even number
func SpanOf(length uint32) int64 {
	return int64(length) + int64(length&1)
}
