package codec

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestRegistry_Decode(t *testing.T) {
	reg := NewRegistry()
	reg.Register(0xFF85, "TEXT", func(payload []byte) (any, error) {
		if len(payload) < 2 {
			return nil, ErrTruncated
		}
		return string(payload[2:]), nil
	})

	payload := binary.LittleEndian.AppendUint16(nil, 0)
	payload = append(payload, "hello"...)
	rec := Record{Header: Header{Signature: 0xFF85, Length: uint32(4 + len(payload)), Shape: ShapeWord}, Payload: payload}

	v, err := reg.Decode(rec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v != "hello" {
		t.Errorf("decoded %v, want hello", v)
	}
	if reg.Name(0xFF85) != "TEXT" {
		t.Errorf("Name = %s, want TEXT", reg.Name(0xFF85))
	}
}

func TestRegistry_UnknownSignature(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Decode(Record{Header: Header{Signature: 0x04, Length: 2}})
	if !errors.Is(err, ErrUnknownSignature) {
		t.Fatalf("got error %v, want ErrUnknownSignature", err)
	}
	if reg.Name(0x04) != "0x0004" {
		t.Errorf("Name = %s, want 0x0004", reg.Name(0x04))
	}
}

func TestRegistry_DecoderErrorWrapped(t *testing.T) {
	reg := NewRegistry()
	reg.Register(0x04, "TINY", func(payload []byte) (any, error) {
		return nil, ErrTruncated
	})

	_, err := reg.Decode(Record{Header: Header{Signature: 0x04, Length: 2}})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("got error %v, want wrapped ErrTruncated", err)
	}
}
