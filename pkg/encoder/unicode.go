package encoder

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// StringToUnicode encodes a string the way Windows wants wide strings on
// the wire: UTF-16LE, no BOM, no terminator.
func StringToUnicode(s string) []byte {
	uints := utf16.Encode([]rune(s))
	b := bytes.Buffer{}
	_ = binary.Write(&b, binary.LittleEndian, &uints)
	return b.Bytes()
}

// UnicodeToString decodes UTF-16LE bytes, dropping a trailing NUL if one
// is present. SYSVOL ini files frequently come in this encoding.
func UnicodeToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	ws := make([]uint16, len(b)/2)
	for i := range ws {
		ws[i] = binary.LittleEndian.Uint16(b[2*i : 2*i+2])
	}
	if len(ws) > 0 && ws[len(ws)-1] == 0 {
		ws = ws[:len(ws)-1]
	}
	return string(utf16.Decode(ws))
}
