package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Shape identifies the physical layout of a signature header
type Shape uint8

const (
	// ShapeByte packs the length into the high byte of the signature word
	ShapeByte Shape = iota
	// ShapeWord follows the signature word with a 2-byte length
	ShapeWord
	// ShapeDword follows the signature word with a 4-byte length
	ShapeDword
)

// High-byte markers of the signature word
const (
	LongRecordMarker = 0x00
	WordRecordMarker = 0xFF
)

const (
	byteHeaderSize  = 2
	wordHeaderSize  = 4
	dwordHeaderSize = 6

	// MaxHeaderSize is the largest header any shape produces
	MaxHeaderSize = dwordHeaderSize

	maxByteLength = 0xFE
	maxWordLength = 0xFFFF
)

var (
	ErrTruncated        = errors.New("record data truncated")
	ErrCorruptHeader    = errors.New("corrupt record header")
	ErrSignatureShape   = errors.New("signature does not match header shape")
	ErrLengthOutOfRange = errors.New("record length out of range for header shape")
)

func (s Shape) String() string {
	switch s {
	case ShapeByte:
		return "byte"
	case ShapeWord:
		return "word"
	case ShapeDword:
		return "dword"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// HeaderSize returns the number of bytes a header of this shape occupies
func (s Shape) HeaderSize() int {
	switch s {
	case ShapeWord:
		return wordHeaderSize
	case ShapeDword:
		return dwordHeaderSize
	default:
		return byteHeaderSize
	}
}

// Header is a decoded signature header
type Header struct {
	Signature uint16 // Record type tag, marker byte included for word and dword shapes
	Length    uint32 // Total record length (header + payload) before padding
	Shape     Shape
}

// Size returns the encoded size of the header
func (h Header) Size() int {
	return h.Shape.HeaderSize()
}

// PayloadLength returns the number of payload bytes following the header
func (h Header) PayloadLength() int {
	return int(h.Length) - h.Size()
}

// ShapeFor returns the smallest shape able to carry a total length
func ShapeFor(length uint32) Shape {
	switch {
	case length <= maxByteLength:
		return ShapeByte
	case length <= maxWordLength:
		return ShapeWord
	default:
		return ShapeDword
	}
}

// NewHeader builds the header for a record type and payload size using the
// smallest shape that fits
func NewHeader(tag byte, payloadLen int) Header {
	if payloadLen < 0 {
		payloadLen = 0
	}
	total := uint64(payloadLen) + byteHeaderSize
	shape := ShapeByte
	if total > maxByteLength {
		total = uint64(payloadLen) + wordHeaderSize
		shape = ShapeWord
		if total > maxWordLength {
			total = uint64(payloadLen) + dwordHeaderSize
			shape = ShapeDword
		}
	}

	sig := uint16(tag)
	switch shape {
	case ShapeWord:
		sig |= WordRecordMarker << 8
	case ShapeDword:
		sig |= LongRecordMarker << 8
	}

	return Header{Signature: sig, Length: uint32(total), Shape: shape}
}

// DecodeHeader decodes the signature header starting at off
func DecodeHeader(b []byte, off int) (Header, error) {
	if off < 0 || len(b)-off < byteHeaderSize {
		return Header{}, fmt.Errorf("%w: need %d header bytes at offset %d, have %d",
			ErrTruncated, byteHeaderSize, off, max(len(b)-off, 0))
	}

	word := binary.LittleEndian.Uint16(b[off:])
	var h Header
	switch word >> 8 {
	case LongRecordMarker:
		if len(b)-off < dwordHeaderSize {
			return Header{}, fmt.Errorf("%w: need %d header bytes at offset %d, have %d",
				ErrTruncated, dwordHeaderSize, off, len(b)-off)
		}
		h = Header{
			Signature: word,
			Length:    binary.LittleEndian.Uint32(b[off+2:]),
			Shape:     ShapeDword,
		}
	case WordRecordMarker:
		if len(b)-off < wordHeaderSize {
			return Header{}, fmt.Errorf("%w: need %d header bytes at offset %d, have %d",
				ErrTruncated, wordHeaderSize, off, len(b)-off)
		}
		h = Header{
			Signature: word,
			Length:    uint32(binary.LittleEndian.Uint16(b[off+2:])),
			Shape:     ShapeWord,
		}
	default:
		h = Header{
			Signature: word & 0xFF,
			Length:    uint32(word>>8) & 0xFF,
			Shape:     ShapeByte,
		}
	}

	if int64(h.Length) < int64(h.Size()) {
		return Header{}, fmt.Errorf("%w: length %d shorter than %s header at offset %d",
			ErrCorruptHeader, h.Length, h.Shape, off)
	}

	return h, nil
}

// EncodeHeader serializes a header
func EncodeHeader(h Header) ([]byte, error) {
	return AppendHeader(make([]byte, 0, h.Size()), h)
}

// AppendHeader appends the encoded header to dst
func AppendHeader(dst []byte, h Header) ([]byte, error) {
	if int64(h.Length) < int64(h.Size()) {
		return dst, fmt.Errorf("%w: length %d shorter than %s header", ErrLengthOutOfRange, h.Length, h.Shape)
	}

	switch h.Shape {
	case ShapeByte:
		if h.Signature > 0xFF {
			return dst, fmt.Errorf("%w: signature 0x%04X in byte form", ErrSignatureShape, h.Signature)
		}
		if h.Length > maxByteLength {
			return dst, fmt.Errorf("%w: length %d in byte form", ErrLengthOutOfRange, h.Length)
		}
		return binary.LittleEndian.AppendUint16(dst, uint16(h.Length)<<8|h.Signature), nil
	case ShapeWord:
		if h.Signature>>8 != WordRecordMarker {
			return dst, fmt.Errorf("%w: signature 0x%04X in word form", ErrSignatureShape, h.Signature)
		}
		if h.Length > maxWordLength {
			return dst, fmt.Errorf("%w: length %d in word form", ErrLengthOutOfRange, h.Length)
		}
		dst = binary.LittleEndian.AppendUint16(dst, h.Signature)
		return binary.LittleEndian.AppendUint16(dst, uint16(h.Length)), nil
	case ShapeDword:
		if h.Signature>>8 != LongRecordMarker {
			return dst, fmt.Errorf("%w: signature 0x%04X in dword form", ErrSignatureShape, h.Signature)
		}
		dst = binary.LittleEndian.AppendUint16(dst, h.Signature)
		return binary.LittleEndian.AppendUint32(dst, h.Length), nil
	default:
		return dst, fmt.Errorf("%w: unknown shape %d", ErrSignatureShape, h.Shape)
	}
}
