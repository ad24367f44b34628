package encoder

import (
	"encoding/hex"
	"strings"
)

// Active Directory stores objectGUID with the first three groups
// little-endian, so the textual form needs a byte swap in both directions.

func UUIDFromString(s string) []byte {
	s = strings.ReplaceAll(strings.Trim(s, "{}"), "-", "")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 16 {
		return nil
	}
	return []byte{b[3], b[2], b[1], b[0], b[5], b[4], b[7], b[6], b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15]}
}

func StringFromUUID(b []byte) string {
	if len(b) != 16 {
		return hex.Dump(b)
	}

	r := []byte{b[3], b[2], b[1], b[0], b[5], b[4], b[7], b[6], b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15]}
	s := hex.EncodeToString(r)
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:]
}

// BracedUUID renders a GUID the way GPO containers and SYSVOL folders
// name themselves: uppercase, brace-wrapped.
func BracedUUID(b []byte) string {
	return "{" + strings.ToUpper(StringFromUUID(b)) + "}"
}
