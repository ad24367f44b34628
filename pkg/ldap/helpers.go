package ldap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/5amu/gpoaudit/pkg/winsec"
)

/*
   LDAP makes you search using an OID
   http://oid-info.com/get/1.2.840.113556.1.4.803
   The one for the userAccountControl in MS Active Directory is
   1.2.840.113556.1.4.803 (LDAP_MATCHING_RULE_BIT_AND)
   And we can look at the enabled flags using a query like (!(userAccountControl:1.2.840.113556.1.4.803:=2))
   https://learn.microsoft.com/en-us/troubleshoot/windows-server/identity/useraccountcontrol-manipulate-account-properties
*/

type UserAccountControl int

var (
	ACCOUNTDISABLE            UserAccountControl = 2
	NORMAL_ACCOUNT            UserAccountControl = 512
	WORKSTATION_TRUST_ACCOUNT UserAccountControl = 4096
	SERVER_TRUST_ACCOUNT      UserAccountControl = 8192
)

const (
	FilterIsGPO      = "(objectClass=groupPolicyContainer)"
	FilterHasGPLink  = "(gPLink=*)"
	FilterIsUser     = "(objectCategory=person)"
	FilterIsGroup    = "(objectCategory=group)"
	FilterIsComputer = "(objectCategory=computer)"
)

const (
	SAMAccountName           = "sAMAccountName"
	ObjectSid                = "objectSid"
	ObjectGUID               = "objectGUID"
	ObjectClass              = "objectClass"
	UAC                      = "userAccountControl:1.2.840.113556.1.4.803:"
	DistinguishedName        = "distinguishedName"
	CommonName               = "cn"
	DisplayName              = "displayName"
	GPCFileSysPath           = "gPCFileSysPath"
	GPCMachineExtensionNames = "gPCMachineExtensionNames"
	GPCUserExtensionNames    = "gPCUserExtensionNames"
	VersionNumber            = "versionNumber"
	GPOFlags                 = "flags"
	GPLink                   = "gPLink"
	GPOptions                = "gPOptions"
	NTSecurityDescriptor     = "nTSecurityDescriptor"
)

func JoinFilters(filters ...string) string {
	var builder strings.Builder
	builder.WriteString("(&")
	for _, s := range filters {
		builder.WriteString(s)
	}
	builder.WriteString(")")
	return builder.String()
}

func NegativeFilter(filter string) string {
	return fmt.Sprintf("(!%s)", filter)
}

func NewFilter(attribute string, equalsTo string) string {
	return fmt.Sprintf("(%s=%s)", attribute, equalsTo)
}

func UACFilter(prop UserAccountControl) string {
	return NewFilter(UAC, strconv.Itoa(int(prop)))
}

// EscapeBinary renders raw bytes the way LDAP filters want them, two hex
// digits per byte behind a backslash.
func EscapeBinary(data []byte) string {
	var builder strings.Builder
	for _, b := range data {
		fmt.Fprintf(&builder, "\\%02x", b)
	}
	return builder.String()
}

// FindBySID resolves a trustee to its account name and objectClass
// chain. The chain goes from the most generic class to the most
// specific, so callers usually want the last element.
func (lc *LdapClient) FindBySID(sid winsec.SID) (name string, classes []string, err error) {
	filter := NewFilter(ObjectSid, EscapeBinary(sid.Wire()))
	res, err := lc.Search(filter, SAMAccountName, ObjectClass)
	if err != nil {
		return "", nil, err
	}
	if len(res.Entries) == 0 {
		return "", nil, fmt.Errorf("no object with SID %s", sid)
	}
	e := res.Entries[0]
	return e.GetAttributeValue(SAMAccountName), e.GetAttributeValues(ObjectClass), nil
}

// GetDomainSID derives the domain SID from the first domain controller
// machine account, which carries it plus a trailing RID.
func (lc *LdapClient) GetDomainSID() (winsec.SID, error) {
	r, err := lc.Search(UACFilter(SERVER_TRUST_ACCOUNT), ObjectSid)
	if err != nil {
		return "", err
	}

	for _, entry := range r.Entries {
		sid, _, err := winsec.ParseSID(entry.GetRawAttributeValue(ObjectSid))
		if err != nil {
			return "", err
		}
		return sid.StripRID(), nil
	}
	return "", fmt.Errorf("impossible to get domain SID")
}
