// Package codec decodes and encodes composite record streams.
//
// A composite record stream is a sequence of tagged, variable-length binary
// records. The stream starts with a 2-byte type tag; records follow from
// offset 2. Every record starts with a signature header whose physical shape
// is selected by the high byte of its first little-endian 16-bit word:
//
//	high byte 0x00   [signature(2)][length(4)]   6-byte header
//	high byte 0xFF   [signature(2)][length(2)]   4-byte header
//	anything else    [signature(1)][length(1)]   2-byte header
//
// In the 2-byte form the high byte is the record length itself and the
// signature is the low byte, so the lengths 0x00 and 0xFF are unavailable
// there. Lengths count header plus payload. A record with an odd length is
// followed by exactly one pad byte that belongs to no record.
//
// # Usage
//
//	h, err := codec.DecodeHeader(buf, 2)
//	if err != nil {
//	    return err // codec.ErrTruncated, codec.ErrCorruptHeader
//	}
//
//	rec, err := codec.DecodeRecord(buf, 2)
//	next := rec.NextOffset()
//
// Streams are produced with StreamWriter, which writes the type tag and the
// pad bytes.
//
// # Record Types
//
// The package knows nothing about payload layouts. A Registry maps
// signatures to payload decoders and is consulted once per record.
package codec
