package gpo

import (
	"testing"

	"github.com/5amu/gpoaudit/pkg/winsec"
)

var testDomain = DomainInfo{
	SID:     winsec.MustParseStringSID("S-1-5-21-1-2-3"),
	NetBIOS: "EXAMPLE",
	Server:  "dc01.example.com",
}

func baselinePerm(sid winsec.SID, rights Right, denied bool) Permission {
	return Permission{SID: sid, Class: ClassGroup, Rights: rights, Denied: denied}
}

func TestVersionInconsistentIndependence(t *testing.T) {
	// The check only compares the two version counters; enabled and
	// content must not influence it.
	for _, enabled := range []bool{true, false} {
		for _, content := range []bool{true, false} {
			s := SectionState{Enabled: enabled, HasContent: content, ADVersion: 3, SysvolVersion: 5, VersionKnown: true}
			if !versionInconsistent(s) {
				t.Errorf("enabled=%v content=%v: mismatch not detected", enabled, content)
			}
			s.SysvolVersion = 3
			if versionInconsistent(s) {
				t.Errorf("enabled=%v content=%v: equal versions flagged", enabled, content)
			}
		}
	}

	unknown := SectionState{ADVersion: 3, SysvolVersion: 5}
	if versionInconsistent(unknown) {
		t.Error("section without SYSVOL data must not be flagged")
	}
}

func TestMissingBaselinePermissionOrSemantics(t *testing.T) {
	domainComputers := testDomain.DomainComputers()

	tests := []struct {
		name  string
		perms []Permission
		want  bool
	}{
		{"authenticated users read", []Permission{baselinePerm(winsec.AuthenticatedUsers, RightRead, false)}, false},
		{"authenticated users apply", []Permission{baselinePerm(winsec.AuthenticatedUsers, RightApply, false)}, false},
		{"domain computers only", []Permission{baselinePerm(domainComputers, RightApply, false)}, false},
		{"both present", []Permission{
			baselinePerm(winsec.AuthenticatedUsers, RightRead, false),
			baselinePerm(domainComputers, RightApply, false),
		}, false},
		{"authenticated users denied, computers fine", []Permission{
			baselinePerm(winsec.AuthenticatedUsers, RightRead, false),
			baselinePerm(winsec.AuthenticatedUsers, RightRead, true),
			baselinePerm(domainComputers, RightApply, false),
		}, false},
		{"both denied", []Permission{
			baselinePerm(winsec.AuthenticatedUsers, RightRead, true),
			baselinePerm(domainComputers, RightApply, true),
		}, true},
		{"unrelated trustee only", []Permission{
			baselinePerm(winsec.MustParseStringSID("S-1-5-21-1-2-3-1104"), RightApply|RightRead, false),
		}, true},
		{"baseline trustee without apply or read", []Permission{
			baselinePerm(winsec.AuthenticatedUsers, RightEdit, false),
		}, true},
		{"no permissions", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := missingBaselinePermission(testDomain, tt.perms); got != tt.want {
				t.Errorf("missingBaselinePermission = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnlinkedAndLinkDisabledExclusive(t *testing.T) {
	noLinks := Object{Name: "A"}
	f := Evaluate(testDomain, noLinks)
	if !f.Unlinked || f.LinkDisabled {
		t.Errorf("no links: Unlinked=%v LinkDisabled=%v, want true/false", f.Unlinked, f.LinkDisabled)
	}

	allDisabled := Object{Name: "B", Links: []Link{{Target: "OU=a,DC=x", Order: 1}, {Target: "DC=x", Order: 2}}}
	f = Evaluate(testDomain, allDisabled)
	if f.Unlinked || !f.LinkDisabled {
		t.Errorf("disabled links: Unlinked=%v LinkDisabled=%v, want false/true", f.Unlinked, f.LinkDisabled)
	}

	oneEnabled := Object{Name: "C", Links: []Link{{Target: "DC=x", Enabled: true, Order: 1}}}
	f = Evaluate(testDomain, oneEnabled)
	if f.Unlinked || f.LinkDisabled {
		t.Errorf("enabled link: Unlinked=%v LinkDisabled=%v, want false/false", f.Unlinked, f.LinkDisabled)
	}
}

func TestSectionMismatchDirections(t *testing.T) {
	if got := sectionMismatch(SectionState{Enabled: false, HasContent: true}); got != SectionContentButDisabled {
		t.Errorf("content+disabled = %v", got)
	}
	if got := sectionMismatch(SectionState{Enabled: true, HasContent: false}); got != SectionEnabledButEmpty {
		t.Errorf("enabled+empty = %v", got)
	}
	if got := sectionMismatch(SectionState{Enabled: true, HasContent: true}); got != SectionConsistent {
		t.Errorf("enabled+content = %v", got)
	}
	if got := sectionMismatch(SectionState{}); got != SectionConsistent {
		t.Errorf("disabled+empty = %v", got)
	}
}

func TestTrusteeChecks(t *testing.T) {
	o := Object{
		Name:       "ops",
		OwnerClass: ClassUser,
		Links:      []Link{{Enabled: true}},
		Permissions: []Permission{
			{SID: winsec.AuthenticatedUsers, Class: ClassWellKnown, Rights: RightApply | RightRead},
			{SID: winsec.MustParseStringSID("S-1-5-21-1-2-3-1104"), Class: ClassUser, Rights: RightEdit},
			{SID: winsec.MustParseStringSID("S-1-5-21-1-2-3-9999"), Rights: RightRead},
		},
	}
	f := Evaluate(testDomain, o)
	if !f.OwnerIsUserAccount {
		t.Error("user owner not flagged")
	}
	if !f.GrantsEditToUser {
		t.Error("user edit grant not flagged")
	}
	if !f.HasUnknownSID {
		t.Error("unresolved trustee not flagged")
	}
	if f.EmptySecurityFiltering {
		t.Error("apply grant present but filtering reported empty")
	}
	if f.MissingBaselinePermission {
		t.Error("authenticated users grant present but baseline reported missing")
	}

	// A denied edit is not an edit grant.
	o.Permissions[1].Denied = true
	if Evaluate(testDomain, o).GrantsEditToUser {
		t.Error("denied edit ACE flagged as grant")
	}
}
