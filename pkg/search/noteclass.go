package search

import (
	"fmt"
	"strings"
)

// NoteClass is the 16-bit class tag of a matched note
type NoteClass uint16

const (
	ClassDocument    NoteClass = 0x0001
	ClassInfo        NoteClass = 0x0002
	ClassForm        NoteClass = 0x0004
	ClassView        NoteClass = 0x0008
	ClassIcon        NoteClass = 0x0010
	ClassDesign      NoteClass = 0x0020
	ClassACL         NoteClass = 0x0040
	ClassHelpIndex   NoteClass = 0x0080
	ClassHelp        NoteClass = 0x0100
	ClassFilter      NoteClass = 0x0200
	ClassField       NoteClass = 0x0400
	ClassReplFormula NoteClass = 0x0800
	ClassPrivate     NoteClass = 0x1000
	ClassDefault     NoteClass = 0x8000
)

var classNames = []struct {
	class NoteClass
	name  string
}{
	{ClassDocument, "document"},
	{ClassInfo, "info"},
	{ClassForm, "form"},
	{ClassView, "view"},
	{ClassIcon, "icon"},
	{ClassDesign, "design"},
	{ClassACL, "acl"},
	{ClassHelpIndex, "helpindex"},
	{ClassHelp, "help"},
	{ClassFilter, "filter"},
	{ClassField, "field"},
	{ClassReplFormula, "replformula"},
	{ClassPrivate, "private"},
	{ClassDefault, "default"},
}

func (c NoteClass) String() string {
	var names []string
	rest := c
	for _, cn := range classNames {
		if c&cn.class != 0 {
			names = append(names, cn.name)
			rest &^= cn.class
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%04X", uint16(rest)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
