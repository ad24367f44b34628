package gpo

type Urgency int

const (
	Low Urgency = iota
	Medium
	High
)

func (u Urgency) String() string {
	switch u {
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Finding is one reportable problem on one GPO. A GPO with several true
// facts yields several findings; that fan-out is intentional.
type Finding struct {
	PolicyName     string
	Urgency        Urgency
	Problem        string
	Recommendation string
}

// FactID enumerates the classifiable facts in report order.
type FactID int

const (
	FactComputerVersionInconsistent FactID = iota
	FactUserVersionInconsistent
	FactComputerContentButDisabled
	FactComputerEnabledButEmpty
	FactUserContentButDisabled
	FactUserEnabledButEmpty
	FactMissingBaselinePermission
	FactOwnerIsUserAccount
	FactHasUnknownSID
	FactGrantsEditToUser
	FactEmptySecurityFiltering
	FactUnlinked
	FactLinkDisabled
	FactOrphaned
)

type rule struct {
	urgency        Urgency
	problem        string
	recommendation string
}

// Severity assignment is policy, fixed at build time, never computed.
var rules = [...]rule{
	FactComputerVersionInconsistent: {High, "Computer section AD and SYSVOL versions differ.", "Edit and save the policy to force replication, then verify SYSVOL health."},
	FactUserVersionInconsistent:     {High, "User section AD and SYSVOL versions differ.", "Edit and save the policy to force replication, then verify SYSVOL health."},
	FactComputerContentButDisabled:  {Medium, "Computer section has content but is disabled.", "Enable the computer section or remove its settings."},
	FactComputerEnabledButEmpty:     {Low, "Computer section is enabled but has no settings.", "Disable the unused section to speed up policy processing."},
	FactUserContentButDisabled:      {Medium, "User section has content but is disabled.", "Enable the user section or remove its settings."},
	FactUserEnabledButEmpty:         {Low, "User section is enabled but has no settings.", "Disable the unused section to speed up policy processing."},
	FactMissingBaselinePermission:   {High, "Neither Authenticated Users nor Domain Computers can read or apply the policy.", "Grant Authenticated Users read access so clients can evaluate the policy."},
	FactOwnerIsUserAccount:          {Medium, "Policy is owned by a user account.", "Transfer ownership to Domain Admins."},
	FactHasUnknownSID:               {Medium, "Policy grants rights to one or more unresolvable SIDs.", "Remove permission entries left behind by deleted accounts."},
	FactGrantsEditToUser:            {High, "A user account can edit the policy or change its security.", "Restrict edit rights to administrative groups."},
	FactEmptySecurityFiltering:      {Medium, "No trustee is granted Apply, so the policy affects nobody.", "Restore security filtering or remove the policy."},
	FactUnlinked:                    {Low, "Policy is not linked to any container.", "Link the policy where it is needed, or back it up and delete it."},
	FactLinkDisabled:                {Low, "All links for this policy are disabled.", "Enable a link or remove the policy."},
	FactOrphaned:                    {Medium, "A policy folder exists in SYSVOL with no matching directory object.", "Back up the folder contents and remove it from SYSVOL."},
}

func (f Facts) trueFacts() []FactID {
	var ids []FactID
	add := func(cond bool, id FactID) {
		if cond {
			ids = append(ids, id)
		}
	}
	add(f.ComputerVersionInconsistent, FactComputerVersionInconsistent)
	add(f.UserVersionInconsistent, FactUserVersionInconsistent)
	add(f.ComputerMismatch == SectionContentButDisabled, FactComputerContentButDisabled)
	add(f.ComputerMismatch == SectionEnabledButEmpty, FactComputerEnabledButEmpty)
	add(f.UserMismatch == SectionContentButDisabled, FactUserContentButDisabled)
	add(f.UserMismatch == SectionEnabledButEmpty, FactUserEnabledButEmpty)
	add(f.MissingBaselinePermission, FactMissingBaselinePermission)
	add(f.OwnerIsUserAccount, FactOwnerIsUserAccount)
	add(f.HasUnknownSID, FactHasUnknownSID)
	add(f.GrantsEditToUser, FactGrantsEditToUser)
	add(f.EmptySecurityFiltering, FactEmptySecurityFiltering)
	add(f.Unlinked, FactUnlinked)
	add(f.LinkDisabled, FactLinkDisabled)
	add(f.Orphaned, FactOrphaned)
	return ids
}

// Classify fans the true facts of one GPO out into findings, one per
// fact, in a fixed order.
func Classify(o Object, f Facts) []Finding {
	var findings []Finding
	for _, id := range f.trueFacts() {
		r := rules[id]
		findings = append(findings, Finding{
			PolicyName:     o.Name,
			Urgency:        r.urgency,
			Problem:        r.problem,
			Recommendation: r.recommendation,
		})
	}
	return findings
}
