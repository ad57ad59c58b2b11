package search

import "strings"

// Status bits of a search match
const (
	statusMatch                = 0x01
	statusTruncated            = 0x02
	statusPurged               = 0x04
	statusNoPurge              = 0x08
	statusSoftDeleted          = 0x10
	statusNoAccess             = 0x20
	statusTruncatedAttachments = 0x40
)

// Flags is the set of conditions reported for a search match
type Flags uint16

const (
	FlagMatch Flags = 1 << iota
	FlagNoMatch
	FlagTruncated
	FlagPurged
	FlagNoPurge
	FlagSoftDeleted
	FlagNoAccess
	FlagTruncatedAttachments
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagMatch, "match"},
	{FlagNoMatch, "nomatch"},
	{FlagTruncated, "truncated"},
	{FlagPurged, "purged"},
	{FlagNoPurge, "nopurge"},
	{FlagSoftDeleted, "softdeleted"},
	{FlagNoAccess, "noaccess"},
	{FlagTruncatedAttachments, "truncatedattachments"},
}

// FlagsFromStatus derives the flag set from a status byte. The match bit is
// reported either way: set yields FlagMatch, clear yields FlagNoMatch.
func FlagsFromStatus(status byte) Flags {
	var f Flags
	if status&statusMatch != 0 {
		f |= FlagMatch
	} else {
		f |= FlagNoMatch
	}

	bits := []struct {
		mask byte
		flag Flags
	}{
		{statusTruncated, FlagTruncated},
		{statusPurged, FlagPurged},
		{statusNoPurge, FlagNoPurge},
		{statusSoftDeleted, FlagSoftDeleted},
		{statusNoAccess, FlagNoAccess},
		{statusTruncatedAttachments, FlagTruncatedAttachments},
	}
	for _, b := range bits {
		if status&b.mask != 0 {
			f |= b.flag
		}
	}
	return f
}

// Has reports whether all flags in other are set
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}
