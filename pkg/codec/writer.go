package codec

import (
	"bufio"
	"encoding/binary"
	"io"
)

// DefaultStreamType is the type tag written at the start of a record stream
const DefaultStreamType uint16 = 0x0001

// StreamPrefixSize is the size of the stream type tag preceding the first record
const StreamPrefixSize = 2

// StreamWriter writes a record stream: the type tag followed by records,
// each padded to an even length
type StreamWriter struct {
	writer  *bufio.Writer
	offset  int64
	started bool
	typ     uint16
}

// NewStreamWriter creates a writer emitting a stream of the given type
func NewStreamWriter(w io.Writer, streamType uint16) *StreamWriter {
	return &StreamWriter{
		writer: bufio.NewWriter(w),
		typ:    streamType,
	}
}

func (w *StreamWriter) start() error {
	if w.started {
		return nil
	}
	w.started = true

	var tag [StreamPrefixSize]byte
	binary.LittleEndian.PutUint16(tag[:], w.typ)
	n, err := w.writer.Write(tag[:])
	w.offset += int64(n)
	return err
}

// Write appends a record with the given header and payload and returns the
// offset it was written at
func (w *StreamWriter) Write(h Header, payload []byte) (int64, error) {
	if err := w.start(); err != nil {
		return 0, err
	}

	data, err := Record{Header: h, Payload: payload}.Encode()
	if err != nil {
		return 0, err
	}
	if h.Length&1 == 1 {
		data = append(data, 0)
	}

	offset := w.offset
	n, err := w.writer.Write(data)
	w.offset += int64(n)
	if err != nil {
		return 0, err
	}

	return offset, nil
}

// WriteTagged appends a record using the smallest header shape for the payload
func (w *StreamWriter) WriteTagged(tag byte, payload []byte) (int64, error) {
	return w.Write(NewHeader(tag, len(payload)), payload)
}

// Offset returns the offset the next record will be written at
func (w *StreamWriter) Offset() int64 {
	if !w.started {
		return StreamPrefixSize
	}
	return w.offset
}

// Flush writes the type tag if nothing was written yet and flushes buffered data
func (w *StreamWriter) Flush() error {
	if err := w.start(); err != nil {
		return err
	}
	return w.writer.Flush()
}
