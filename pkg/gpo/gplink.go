package gpo

import (
	"fmt"
	"strconv"
	"strings"
)

// Link-option bits carried in a gPLink segment's status digit (MS-GPOL
// 2.2.2): bit 0 disables the link, bit 1 enforces it.
const (
	linkFlagDisabled = 0x1
	linkFlagEnforced = 0x2
)

// LinkEntry is one decoded gPLink segment. Order 1 is the strongest
// link on the container: it is applied last and wins conflicts.
type LinkEntry struct {
	Target      string
	Enabled     bool
	Enforced    bool
	Status      int
	StatusKnown bool
	Order       int
}

// LinkOrderEntry is a LinkEntry joined with its container and the
// linked GPO's display name, ready for reporting.
type LinkOrderEntry struct {
	OU       string
	OUDN     string
	GPOName  string
	Enabled  bool
	Enforced bool
	Order    int
}

// ParseLinkList decodes a raw gPLink attribute value, a string of
// bracketed `LDAP://<dn>;<status>` segments. The returned entries run
// from the highest order down to 1, so the sequence for N good segments
// is exactly N, N-1, ..., 1. Segments without a path/status pair are
// collected in malformed and skipped; a status digit outside the known
// range keeps its entry but is surfaced with StatusKnown false. Only an
// attribute that is not bracket-delimited at all is an error.
func ParseLinkList(raw string) (entries []LinkEntry, malformed []string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil, nil
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, nil, fmt.Errorf("gPLink value is not bracket-delimited: %q", raw)
	}

	for _, segment := range strings.Split(raw[1:len(raw)-1], "][") {
		linkinfo := strings.Split(segment, ";")
		if len(linkinfo) != 2 {
			malformed = append(malformed, segment)
			continue
		}
		target := linkinfo[0]
		if len(target) >= 7 && strings.EqualFold(target[:7], "LDAP://") {
			target = target[7:]
		}
		entry := LinkEntry{Target: target}
		if status, converr := strconv.Atoi(strings.TrimSpace(linkinfo[1])); converr != nil {
			entry.Status = -1
		} else {
			entry.Status = status
			if status >= 0 && status <= 3 {
				entry.StatusKnown = true
				entry.Enabled = status&linkFlagDisabled == 0
				entry.Enforced = status&linkFlagEnforced != 0
			}
		}
		entries = append(entries, entry)
	}

	// The front of the attribute is the winning link. Number it 1 and
	// emit the list back-to-front so orders descend N..1.
	for i := range entries {
		entries[i].Order = i + 1
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, malformed, nil
}
