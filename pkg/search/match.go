package search

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

// Variant selects which of the two search match layouts a buffer holds.
// The buffer does not describe itself; the caller knows which search call
// produced it.
type Variant int

const (
	Standard Variant = iota
	Large
)

// Layout offsets. Both variants share the first 52 bytes.
const (
	offFile          = 0
	offNote          = 8
	offNoteID        = 16
	offOrigFile      = 20
	offOrigNote      = 28
	offSequence      = 36
	offSequenceTime  = 40
	offClass         = 48
	offStatus        = 50
	offPrivileges    = 51
	offSummaryLength = 52 // standard: u16
	offLargeSummary  = 56 // large: u32 after 4 alignment bytes

	standardSize = 54
	largeSize    = 60
)

var (
	ErrTruncated      = errors.New("search match buffer truncated")
	ErrUnknownVariant = errors.New("unknown search match variant")
)

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case Large:
		return "large"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Size returns the fixed size of the variant's struct in bytes
func (v Variant) Size() int {
	if v == Large {
		return largeSize
	}
	return standardSize
}

// Match is one decoded search match. It is immutable; derived values are
// computed on first use and safe to request from several goroutines.
type Match struct {
	File           TimeDate // Global instance: database creation time
	Note           TimeDate // Global instance: note modification time
	NoteID         uint32
	OriginatorFile TimeDate
	OriginatorNote TimeDate
	Sequence       uint32
	SequenceTime   TimeDate
	Class          NoteClass
	Status         byte
	Privileges     byte
	SummaryLength  uint32
	Variant        Variant

	unidOnce  sync.Once
	unid      string
	flagsOnce sync.Once
	flags     Flags
}

// Decode decodes a search match of the given variant from the start of buf
func Decode(buf []byte, v Variant) (*Match, error) {
	if v != Standard && v != Large {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	if len(buf) < v.Size() {
		return nil, fmt.Errorf("%w: %s match needs %d bytes, have %d", ErrTruncated, v, v.Size(), len(buf))
	}

	m := &Match{
		File:           readTimeDate(buf, offFile),
		Note:           readTimeDate(buf, offNote),
		NoteID:         binary.LittleEndian.Uint32(buf[offNoteID:]),
		OriginatorFile: readTimeDate(buf, offOrigFile),
		OriginatorNote: readTimeDate(buf, offOrigNote),
		Sequence:       binary.LittleEndian.Uint32(buf[offSequence:]),
		SequenceTime:   readTimeDate(buf, offSequenceTime),
		Class:          NoteClass(binary.LittleEndian.Uint16(buf[offClass:])),
		Status:         buf[offStatus],
		Privileges:     buf[offPrivileges],
		Variant:        v,
	}

	if v == Large {
		m.SummaryLength = binary.LittleEndian.Uint32(buf[offLargeSummary:])
	} else {
		m.SummaryLength = uint32(binary.LittleEndian.Uint16(buf[offSummaryLength:]))
	}

	return m, nil
}

// Encode serializes the match in its variant's layout
func (m *Match) Encode() ([]byte, error) {
	if m.Variant == Standard && m.SummaryLength > 0xFFFF {
		return nil, fmt.Errorf("summary length %d does not fit a standard match", m.SummaryLength)
	}
	if m.Variant != Standard && m.Variant != Large {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(m.Variant))
	}

	buf := make([]byte, m.Variant.Size())
	writeTimeDate(buf, offFile, m.File)
	writeTimeDate(buf, offNote, m.Note)
	binary.LittleEndian.PutUint32(buf[offNoteID:], m.NoteID)
	writeTimeDate(buf, offOrigFile, m.OriginatorFile)
	writeTimeDate(buf, offOrigNote, m.OriginatorNote)
	binary.LittleEndian.PutUint32(buf[offSequence:], m.Sequence)
	writeTimeDate(buf, offSequenceTime, m.SequenceTime)
	binary.LittleEndian.PutUint16(buf[offClass:], uint16(m.Class))
	buf[offStatus] = m.Status
	buf[offPrivileges] = m.Privileges

	if m.Variant == Large {
		binary.LittleEndian.PutUint32(buf[offLargeSummary:], m.SummaryLength)
	} else {
		binary.LittleEndian.PutUint16(buf[offSummaryLength:], uint16(m.SummaryLength))
	}
	return buf, nil
}

// UNID returns the universal note id: the originator file and note
// timestamps as 32 upper-case hex digits, most significant word first
func (m *Match) UNID() string {
	m.unidOnce.Do(func() {
		m.unid = fmt.Sprintf("%08X%08X%08X%08X",
			m.OriginatorFile.Innards[1], m.OriginatorFile.Innards[0],
			m.OriginatorNote.Innards[1], m.OriginatorNote.Innards[0])
	})
	return m.unid
}

// Flags returns the flag set derived from the status byte
func (m *Match) Flags() Flags {
	m.flagsOnce.Do(func() {
		m.flags = FlagsFromStatus(m.Status)
	})
	return m.flags
}

// IsMatch reports whether the note satisfied the search
func (m *Match) IsMatch() bool {
	return m.Flags().Has(FlagMatch)
}

// Summary returns the variable-length summary section that follows the
// fixed struct in buf
func (m *Match) Summary(buf []byte) ([]byte, error) {
	start := m.Variant.Size()
	end := int64(start) + int64(m.SummaryLength)
	if end > int64(len(buf)) {
		return nil, fmt.Errorf("%w: summary needs %d bytes after offset %d, have %d",
			ErrTruncated, m.SummaryLength, start, max(len(buf)-start, 0))
	}
	return buf[start:end], nil
}

func readTimeDate(buf []byte, off int) TimeDate {
	return TimeDate{Innards: [2]uint32{
		binary.LittleEndian.Uint32(buf[off:]),
		binary.LittleEndian.Uint32(buf[off+4:]),
	}}
}

func writeTimeDate(buf []byte, off int, td TimeDate) {
	binary.LittleEndian.PutUint32(buf[off:], td.Innards[0])
	binary.LittleEndian.PutUint32(buf[off+4:], td.Innards[1])
}
