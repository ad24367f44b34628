package gpo

import "github.com/5amu/gpoaudit/pkg/winsec"

// SectionMismatch classifies the relation between a section's enabled
// flag and its content.
type SectionMismatch int

const (
	SectionConsistent SectionMismatch = iota
	SectionContentButDisabled
	SectionEnabledButEmpty
)

// Facts holds the outcome of every check for one GPO. All checks are
// independent functions of the record, so evaluation order never
// matters and records can be evaluated in parallel.
type Facts struct {
	ComputerVersionInconsistent bool
	UserVersionInconsistent     bool
	ComputerMismatch            SectionMismatch
	UserMismatch                SectionMismatch
	MissingBaselinePermission   bool
	OwnerIsUserAccount          bool
	HasUnknownSID               bool
	GrantsEditToUser            bool
	EmptySecurityFiltering      bool
	Unlinked                    bool
	LinkDisabled                bool
	Orphaned                    bool
}

// Evaluate runs every check against a fully-populated snapshot. Pure:
// same domain and record in, same facts out.
func Evaluate(domain DomainInfo, o Object) Facts {
	return Facts{
		ComputerVersionInconsistent: versionInconsistent(o.Computer),
		UserVersionInconsistent:     versionInconsistent(o.User),
		ComputerMismatch:            sectionMismatch(o.Computer),
		UserMismatch:                sectionMismatch(o.User),
		MissingBaselinePermission:   missingBaselinePermission(domain, o.Permissions),
		OwnerIsUserAccount:          o.OwnerClass == ClassUser,
		HasUnknownSID:               hasUnknownSID(o.Permissions),
		GrantsEditToUser:            grantsEditToUser(o.Permissions),
		EmptySecurityFiltering:      emptySecurityFiltering(o.Permissions),
		Unlinked:                    len(o.Links) == 0,
		LinkDisabled:                linkDisabled(o.Links),
		Orphaned:                    o.OrphanedStore,
	}
}

// versionInconsistent is independent of the section's enabled flag and
// content: a disabled section still replicates.
func versionInconsistent(s SectionState) bool {
	return s.VersionKnown && s.ADVersion != s.SysvolVersion
}

func sectionMismatch(s SectionState) SectionMismatch {
	switch {
	case s.HasContent && !s.Enabled:
		return SectionContentButDisabled
	case !s.HasContent && s.Enabled:
		return SectionEnabledButEmpty
	default:
		return SectionConsistent
	}
}

// missingBaselinePermission is true only when NEITHER Authenticated
// Users NOR Domain Computers holds an undenied Apply or Read grant.
// Either trustee alone is enough to suppress the finding.
func missingBaselinePermission(domain DomainInfo, perms []Permission) bool {
	for _, sid := range []winsec.SID{winsec.AuthenticatedUsers, domain.DomainComputers()} {
		var allowed, denied bool
		for _, p := range perms {
			if p.SID != sid || p.Rights&(RightApply|RightRead) == 0 {
				continue
			}
			if p.Denied {
				denied = true
			} else {
				allowed = true
			}
		}
		if allowed && !denied {
			return false
		}
	}
	return true
}

func hasUnknownSID(perms []Permission) bool {
	for _, p := range perms {
		if p.Class == "" {
			return true
		}
	}
	return false
}

func grantsEditToUser(perms []Permission) bool {
	for _, p := range perms {
		if !p.Denied && p.Class == ClassUser && p.Rights&(RightEdit|RightDelete|RightModifySecurity) != 0 {
			return true
		}
	}
	return false
}

func emptySecurityFiltering(perms []Permission) bool {
	for _, p := range perms {
		if !p.Denied && p.Rights&RightApply != 0 {
			return false
		}
	}
	return true
}

// linkDisabled requires at least one link: a GPO with none is Unlinked
// instead, never both.
func linkDisabled(links []Link) bool {
	if len(links) == 0 {
		return false
	}
	for _, l := range links {
		if l.Enabled {
			return false
		}
	}
	return true
}
