package ldap

import (
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/go-ldap/ldap/v3"
)

// LDAP_SERVER_SD_FLAGS_OID. Without it the server returns no
// nTSecurityDescriptor to a non-admin bind, because the default scope
// includes the SACL which needs SeSecurityPrivilege.
const ControlTypeSDFlags = "1.2.840.113556.1.4.801"

const (
	SDFlagsOwner = 0x01
	SDFlagsGroup = 0x02
	SDFlagsDACL  = 0x04
	SDFlagsSACL  = 0x08
)

// ControlSDFlags narrows which parts of the security descriptor a search
// asks for.
type ControlSDFlags struct {
	Flags int32
}

var _ ldap.Control = &ControlSDFlags{}

// NewControlSDFlags requests owner, group and DACL, everything the audit
// needs and nothing privileged.
func NewControlSDFlags() *ControlSDFlags {
	return &ControlSDFlags{Flags: SDFlagsOwner | SDFlagsGroup | SDFlagsDACL}
}

func (c *ControlSDFlags) GetControlType() string {
	return ControlTypeSDFlags
}

func (c *ControlSDFlags) Encode() *ber.Packet {
	packet := ber.Encode(ber.ClassUniversal, ber.TypeConstructed, ber.TagSequence, nil, "Control")
	packet.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, ControlTypeSDFlags, "Control Type (SD Flags)"))

	p2 := ber.Encode(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, nil, "Control Value (SD Flags)")
	seq := ber.Encode(ber.ClassUniversal, ber.TypeConstructed, ber.TagSequence, nil, "SD Flags Control Value")
	seq.AppendChild(ber.NewInteger(ber.ClassUniversal, ber.TypePrimitive, ber.TagInteger, int64(c.Flags), "Flags"))
	p2.AppendChild(seq)
	packet.AppendChild(p2)
	return packet
}

func (c *ControlSDFlags) String() string {
	return fmt.Sprintf("Control Type: Security Descriptor Flags (%q) Flags: %d", ControlTypeSDFlags, c.Flags)
}
