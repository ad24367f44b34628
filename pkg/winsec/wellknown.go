package winsec

// RIDs of the default domain groups an audit cares about. Append to the
// domain SID with AddComponent.
const (
	DomainAdminsRID             = 512
	DomainUsersRID              = 513
	DomainComputersRID          = 515
	DomainControllersRID        = 516
	GroupPolicyCreatorOwnersRID = 520
)

var (
	AuthenticatedUsers = MustParseStringSID("S-1-5-11")
	LocalSystem        = MustParseStringSID("S-1-5-18")
	Everyone           = MustParseStringSID("S-1-1-0")
)

var KnownSIDs = map[string]string{
	"S-1-0-0":      "Nobody",
	"S-1-1-0":      "Everyone",
	"S-1-3-0":      "Creator Owner",
	"S-1-3-1":      "Creator Group",
	"S-1-5-2":      "Network",
	"S-1-5-4":      "Interactive",
	"S-1-5-6":      "Service",
	"S-1-5-7":      "Anonymous",
	"S-1-5-9":      "Enterprise Domain Controllers",
	"S-1-5-10":     "Principal Self",
	"S-1-5-11":     "Authenticated Users",
	"S-1-5-12":     "Restricted Code",
	"S-1-5-18":     "Local System",
	"S-1-5-19":     "Local Service",
	"S-1-5-20":     "Network Service",
	"S-1-5-32-544": "Administrators",
	"S-1-5-32-545": "Users",
	"S-1-5-32-546": "Guests",
	"S-1-5-32-548": "Account Operators",
	"S-1-5-32-549": "Server Operators",
	"S-1-5-32-550": "Print Operators",
	"S-1-5-32-551": "Backup Operators",
	"S-1-5-32-554": "Builtin - Pre-Windows 2000 Compatible Access",
}

// WellKnownName resolves sid against the fixed table, "" when unknown.
func (sid SID) WellKnownName() string {
	return KnownSIDs[sid.String()]
}
