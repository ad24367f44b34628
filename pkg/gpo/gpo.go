// Package gpo holds the typed Group Policy snapshot records and the
// pure evaluation pipeline that turns them into findings. Nothing in
// this package talks to a directory server: collection happens at the
// LDAP boundary and lands here as fully-populated records.
package gpo

import "github.com/5amu/gpoaudit/pkg/winsec"

// DomainInfo is the context threaded through evaluation: everything a
// check needs to know about the domain itself.
type DomainInfo struct {
	SID     winsec.SID
	NetBIOS string
	Server  string
}

// DomainComputers returns the SID of the domain's Domain Computers group.
func (d DomainInfo) DomainComputers() winsec.SID {
	return d.SID.AddComponent(winsec.DomainComputersRID)
}

// Right is the subset of directory permissions the audit reasons about,
// already translated from raw ACE masks.
type Right uint8

const (
	RightApply Right = 1 << iota
	RightRead
	RightEdit
	RightDelete
	RightModifySecurity
)

// Trustee object classes as resolved from the directory. The empty
// string means resolution failed, which is itself an auditable fact.
const (
	ClassUser      = "user"
	ClassGroup     = "group"
	ClassComputer  = "computer"
	ClassWellKnown = "wellKnown"
)

// Permission is one trustee's effective grant (or denial) on a GPO.
type Permission struct {
	SID     winsec.SID
	Trustee string
	Class   string
	Rights  Right
	Denied  bool
}

// SectionState describes one half (Computer or User) of a GPO.
type SectionState struct {
	Enabled       bool
	HasContent    bool
	ADVersion     uint16
	SysvolVersion uint16
	VersionKnown  bool
}

// Link is one container the GPO is linked to.
type Link struct {
	Target   string
	Enabled  bool
	Enforced bool
	Order    int
}

// Object is the read-only snapshot of one GPO, populated in a single
// step by the collector and never mutated afterwards.
type Object struct {
	GUID        string
	Name        string
	DN          string
	FileSysPath string

	OwnerSID   winsec.SID
	Owner      string
	OwnerClass string

	Computer SectionState
	User     SectionState

	Permissions []Permission
	Links       []Link

	// OrphanedStore marks a synthetic record built from a SYSVOL folder
	// that has no matching directory object.
	OrphanedStore bool
}
