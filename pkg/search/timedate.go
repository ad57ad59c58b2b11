package search

import (
	"fmt"
	"time"
)

const (
	// julianDayUnixEpoch is the Julian day number of 1970-01-01
	julianDayUnixEpoch = 2440588
	ticksPerSecond     = 100
	ticksPerDay        = 24 * 60 * 60 * ticksPerSecond

	julianDayMask = 0x00FFFFFF
	wildcard      = 0xFFFFFFFF
)

// TimeDate is the two-word native timestamp encoding. Innards[0] holds
// hundredths of a second since midnight GMT; the low 24 bits of Innards[1]
// hold the Julian day, the high byte time zone and daylight saving flags.
type TimeDate struct {
	Innards [2]uint32
}

// IsZero reports whether both words are zero
func (td TimeDate) IsZero() bool {
	return td.Innards[0] == 0 && td.Innards[1] == 0
}

// HasTime reports whether the time-of-day word is set
func (td TimeDate) HasTime() bool {
	return td.Innards[0] != wildcard
}

// HasDate reports whether the date word is set
func (td TimeDate) HasDate() bool {
	return td.Innards[1] != wildcard
}

// Time converts the timestamp to UTC. It reports false for zero values and
// for timestamps missing either the date or the time part.
func (td TimeDate) Time() (time.Time, bool) {
	if td.IsZero() || !td.HasTime() || !td.HasDate() || td.Innards[0] >= ticksPerDay {
		return time.Time{}, false
	}

	days := int64(td.Innards[1]&julianDayMask) - julianDayUnixEpoch
	ticks := int64(td.Innards[0])

	sec := days*86400 + ticks/ticksPerSecond
	nsec := (ticks % ticksPerSecond) * int64(10*time.Millisecond)
	return time.Unix(sec, nsec).UTC(), true
}

// FromTime encodes t as a GMT timestamp, truncated to hundredths of a second
func FromTime(t time.Time) TimeDate {
	t = t.UTC()
	secs := t.Unix()

	days := secs / 86400
	rem := secs % 86400
	if rem < 0 {
		rem += 86400
		days--
	}
	ticks := rem*ticksPerSecond + int64(t.Nanosecond())/int64(10*time.Millisecond)

	return TimeDate{Innards: [2]uint32{
		uint32(ticks),
		uint32(days+julianDayUnixEpoch) & julianDayMask,
	}}
}

func (td TimeDate) String() string {
	if t, ok := td.Time(); ok {
		return t.Format("2006-01-02T15:04:05.00Z")
	}
	return fmt.Sprintf("%08X:%08X", td.Innards[1], td.Innards[0])
}
