package winsec

import (
	"testing"
)

func TestParseStringSIDRoundTrip(t *testing.T) {
	tests := []string{
		"S-1-5-11",
		"S-1-1-0",
		"S-1-5-21-3623811015-3361044348-30300820",
		"S-1-5-21-3623811015-3361044348-30300820-515",
	}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			sid, err := ParseStringSID(tt)
			if err != nil {
				t.Fatalf("ParseStringSID(%q): %v", tt, err)
			}
			if got := sid.String(); got != tt {
				t.Errorf("round trip = %v, want %v", got, tt)
			}
		})
	}
}

func TestParseStringSIDRejects(t *testing.T) {
	for _, tt := range []string{"", "S-1", "X-1-5-11", "S-2-5-11", "S-1-5-abc"} {
		if _, err := ParseStringSID(tt); err == nil {
			t.Errorf("ParseStringSID(%q) accepted invalid input", tt)
		}
	}
}

func TestParseSIDWire(t *testing.T) {
	want := MustParseStringSID("S-1-5-21-1-2-3-515")
	wire := want.Wire()

	got, rest, err := ParseSID(append(wire, 0xde, 0xad))
	if err != nil {
		t.Fatalf("ParseSID: %v", err)
	}
	if got != want {
		t.Errorf("ParseSID = %v, want %v", got.String(), want.String())
	}
	if len(rest) != 2 {
		t.Errorf("ParseSID left %d trailing bytes, want 2", len(rest))
	}

	if _, _, err := ParseSID([]byte{0x02, 0x01}); err == nil {
		t.Error("ParseSID accepted revision 2")
	}
	if _, _, err := ParseSID(wire[:5]); err == nil {
		t.Error("ParseSID accepted truncated SID")
	}
}

func TestAddComponentAndRID(t *testing.T) {
	domain := MustParseStringSID("S-1-5-21-3623811015-3361044348-30300820")
	computers := domain.AddComponent(DomainComputersRID)
	if got, want := computers.String(), "S-1-5-21-3623811015-3361044348-30300820-515"; got != want {
		t.Errorf("AddComponent = %v, want %v", got, want)
	}
	if computers.RID() != DomainComputersRID {
		t.Errorf("RID = %d, want %d", computers.RID(), DomainComputersRID)
	}
}

func TestStripRID(t *testing.T) {
	acct := MustParseStringSID("S-1-5-21-1-2-3-1000")
	if got := acct.StripRID().String(); got != "S-1-5-21-1-2-3" {
		t.Errorf("StripRID = %v", got)
	}
	// A SID with a single subauthority keeps it.
	if got := AuthenticatedUsers.StripRID(); got != AuthenticatedUsers {
		t.Errorf("StripRID(%v) = %v", AuthenticatedUsers.String(), got.String())
	}
}

func TestWellKnownName(t *testing.T) {
	if got := AuthenticatedUsers.WellKnownName(); got != "Authenticated Users" {
		t.Errorf("WellKnownName = %q", got)
	}
	if got := MustParseStringSID("S-1-5-21-1-2-3").WellKnownName(); got != "" {
		t.Errorf("WellKnownName for domain SID = %q, want empty", got)
	}
}
