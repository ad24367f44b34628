package winsec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSIDRevision = errors.New("only SID revision 1 supported")

// SID holds a security identifier in compact form: 6 bytes of identifier
// authority followed by chunks of 4 little-endian bytes per subauthority.
// The Windows wire format prefixes a revision byte and a subauthority
// count, both dropped on parse.
type SID string

// ParseSID decodes a binary SID and returns the remaining data, so that
// callers walking an ACL can keep consuming the same buffer.
func ParseSID(data []byte) (SID, []byte, error) {
	if len(data) == 0 {
		return "", data, errors.New("no data supplied")
	}
	if data[0] != 0x01 {
		return "", data, ErrSIDRevision
	}
	subauthoritycount := int(data[1])
	if subauthoritycount > 15 {
		return "", data, errors.New("SID subauthority count is more than 15")
	}
	end := 8 + 4*subauthoritycount
	if len(data) < end {
		return "", data, errors.New("SID is truncated")
	}
	return SID(data[2:end]), data[end:], nil
}

func ParseStringSID(input string) (SID, error) {
	if len(input) < 5 {
		return "", errors.New("SID string is too short to be a SID")
	}
	if input[0] != 'S' {
		return "", errors.New("SID must start with S")
	}
	strnums := strings.Split(input, "-")
	subauthoritycount := len(strnums) - 3
	if subauthoritycount < 0 {
		return "", errors.New("less than one subauthority found")
	}

	revision, err := strconv.ParseUint(strnums[1], 10, 8)
	if err != nil {
		return "", err
	}
	if revision != 1 {
		return "", ErrSIDRevision
	}

	authority, err := strconv.ParseUint(strnums[2], 10, 48)
	if err != nil {
		return "", err
	}

	sid := make([]byte, 6+4*subauthoritycount)
	authslice := make([]byte, 8)
	binary.BigEndian.PutUint64(authslice, authority<<16)
	copy(sid, authslice[0:6])

	for i := 0; i < subauthoritycount; i++ {
		subauthority, err := strconv.ParseUint(strnums[3+i], 10, 32)
		if err != nil {
			return "", err
		}
		binary.LittleEndian.PutUint32(sid[6+4*i:], uint32(subauthority))
	}
	return SID(sid), nil
}

func MustParseStringSID(input string) SID {
	sid, err := ParseStringSID(input)
	if err != nil {
		panic(err)
	}
	return sid
}

func (sid SID) String() string {
	if sid == "" {
		return "NULL SID"
	}
	var authority uint64
	for i := 0; i <= 5; i++ {
		authority = authority<<8 | uint64(sid[i])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "S-1-%d", authority)
	for i := 6; i+4 <= len(sid); i += 4 {
		fmt.Fprintf(&b, "-%d", binary.LittleEndian.Uint32([]byte(sid[i:])))
	}
	return b.String()
}

func (sid SID) IsNull() bool {
	return sid == ""
}

// RID returns the last subauthority, 0 when there is none.
func (sid SID) RID() uint32 {
	if len(sid) <= 6 {
		return 0
	}
	return binary.LittleEndian.Uint32([]byte(sid[len(sid)-4:]))
}

// StripRID drops the last subauthority, turning an account SID into the
// SID of its domain.
func (sid SID) StripRID() SID {
	if len(sid) <= 10 {
		return sid
	}
	return sid[:len(sid)-4]
}

// AddComponent appends a subauthority, e.g. a well-known RID to a domain SID.
func (sid SID) AddComponent(component uint32) SID {
	newsid := make([]byte, len(sid)+4)
	copy(newsid, sid)
	binary.LittleEndian.PutUint32(newsid[len(sid):], component)
	return SID(newsid)
}

// Wire returns the Windows binary representation, revision and
// subauthority count included.
func (sid SID) Wire() []byte {
	wire := make([]byte, len(sid)+2)
	wire[0] = 0x01
	wire[1] = byte((len(sid) - 6) / 4)
	copy(wire[2:], sid)
	return wire
}
