package gpo

import (
	"reflect"
	"testing"
)

func TestClassifyContentButDisabled(t *testing.T) {
	o := Object{
		Name:     "Workstation Hardening",
		Computer: SectionState{Enabled: false, HasContent: true},
		User:     SectionState{Enabled: false, HasContent: false},
		Links:    []Link{{Target: "DC=example,DC=com", Enabled: true, Order: 1}},
		Permissions: []Permission{
			{SID: testDomain.DomainComputers(), Class: ClassGroup, Rights: RightApply | RightRead},
		},
		OwnerClass: ClassGroup,
	}

	f := Evaluate(testDomain, o)
	if f.ComputerMismatch != SectionContentButDisabled {
		t.Fatalf("ComputerMismatch = %v", f.ComputerMismatch)
	}

	findings := Classify(o, f)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	got := findings[0]
	if got.Urgency != Medium {
		t.Errorf("urgency = %v, want MEDIUM", got.Urgency)
	}
	if got.Problem != "Computer section has content but is disabled." {
		t.Errorf("problem = %q", got.Problem)
	}
	if got.PolicyName != "Workstation Hardening" {
		t.Errorf("policy = %q", got.PolicyName)
	}
}

func TestClassifyFanOut(t *testing.T) {
	// One GPO, several true facts, one finding each.
	o := Object{Name: "Legacy"}
	f := Facts{
		ComputerVersionInconsistent: true,
		Unlinked:                    true,
		MissingBaselinePermission:   true,
	}
	findings := Classify(o, f)
	if len(findings) != 3 {
		t.Fatalf("got %d findings, want 3", len(findings))
	}
	urgencies := map[string]Urgency{}
	for _, fd := range findings {
		urgencies[fd.Problem] = fd.Urgency
	}
	if urgencies["Computer section AD and SYSVOL versions differ."] != High {
		t.Error("version inconsistency must be HIGH")
	}
	if urgencies["Policy is not linked to any container."] != Low {
		t.Error("unlinked must be LOW")
	}
}

func TestClassifyOrphan(t *testing.T) {
	o := Object{Name: "{11111111-2222-3333-4444-555555555555}", OrphanedStore: true}
	findings := Classify(o, Facts{Orphaned: true})
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Urgency != Medium {
		t.Errorf("urgency = %v, want MEDIUM", findings[0].Urgency)
	}
}

func TestPipelineIdempotence(t *testing.T) {
	o := Object{
		Name:       "Baseline",
		OwnerClass: ClassUser,
		Computer:   SectionState{Enabled: true, HasContent: true, ADVersion: 4, SysvolVersion: 7, VersionKnown: true},
		User:       SectionState{Enabled: true, HasContent: false},
		Permissions: []Permission{
			{SID: testDomain.DomainComputers(), Class: ClassGroup, Rights: RightApply},
		},
	}

	first := Classify(o, Evaluate(testDomain, o))
	second := Classify(o, Evaluate(testDomain, o))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("pipeline is not idempotent:\n%+v\n%+v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("expected findings from the fixture")
	}
}

func TestUrgencyString(t *testing.T) {
	if Low.String() != "LOW" || Medium.String() != "MEDIUM" || High.String() != "HIGH" {
		t.Error("urgency labels drifted")
	}
}
