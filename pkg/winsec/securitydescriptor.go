package winsec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
)

type SecurityDescriptorControlFlag uint16
type ACLPermissionMask uint32

// http://www.selfadsi.org/deep-inside/ad-security-descriptors.htm

const (
	CONTROLFLAG_OWNER_DEFAULTED SecurityDescriptorControlFlag = 0x0001
	CONTROLFLAG_GROUP_DEFAULTED                               = 0x0002
	CONTROLFLAG_DACL_PRESENT                                  = 0x0004
	CONTROLFLAG_DACL_DEFAULTED                                = 0x0008
	CONTROLFLAG_SACL_PRESENT                                  = 0x0010
	CONTROLFLAG_SACL_DEFAULTED                                = 0x0020
	CONTROLFLAG_SELF_RELATIVE                                 = 0x8000

	// ACE.Type
	ACETYPE_ACCESS_ALLOWED        = 0x00
	ACETYPE_ACCESS_DENIED         = 0x01
	ACETYPE_ACCESS_ALLOWED_OBJECT = 0x05
	ACETYPE_ACCESS_DENIED_OBJECT  = 0x06

	// ACE.ACEFlags
	ACEFLAG_INHERIT_ACE      = 0x02
	ACEFLAG_INHERIT_ONLY_ACE = 0x08 // Not valid for this object, only for children
	ACEFLAG_INHERITED_ACE    = 0x10

	// ACE.Flags - present if this is a ACETYPE_ACCESS_*_OBJECT Type
	OBJECT_TYPE_PRESENT           = 0x01
	INHERITED_OBJECT_TYPE_PRESENT = 0x02

	// Directory service specific rights
	ADS_RIGHT_DS_CREATE_CHILD   ACLPermissionMask = 0x00000001
	ADS_RIGHT_DS_DELETE_CHILD   ACLPermissionMask = 0x00000002
	ADS_RIGHT_ACTRL_DS_LIST     ACLPermissionMask = 0x00000004
	ADS_RIGHT_DS_SELF           ACLPermissionMask = 0x00000008
	ADS_RIGHT_DS_READ_PROP      ACLPermissionMask = 0x00000010
	ADS_RIGHT_DS_WRITE_PROP     ACLPermissionMask = 0x00000020
	ADS_RIGHT_DS_DELETE_TREE    ACLPermissionMask = 0x00000040
	ADS_RIGHT_DS_LIST_OBJECT    ACLPermissionMask = 0x00000080
	ADS_RIGHT_DS_CONTROL_ACCESS ACLPermissionMask = 0x00000100

	// Standard rights
	RIGHT_DELETE       ACLPermissionMask = 0x00010000
	RIGHT_READ_CONTROL ACLPermissionMask = 0x00020000
	RIGHT_WRITE_DACL   ACLPermissionMask = 0x00040000
	RIGHT_WRITE_OWNER  ACLPermissionMask = 0x00080000

	RIGHT_GENERIC_READ  ACLPermissionMask = 0x80000000
	RIGHT_GENERIC_WRITE ACLPermissionMask = 0x40000000
	RIGHT_GENERIC_ALL   ACLPermissionMask = 0x10000000
)

var (
	NullGUID = uuid.UUID{}

	// Apply Group Policy extended right. An ACE carrying
	// ADS_RIGHT_DS_CONTROL_ACCESS scoped to this GUID is what security
	// filtering is made of.
	ApplyGroupPolicyRight = uuid.Must(uuid.FromString("edacfd8f-ffb3-11d1-b41d-00a0c968f939"))
)

type SecurityDescriptor struct {
	Control SecurityDescriptorControlFlag
	Owner   SID
	Group   SID
	DACL    ACL
}

type ACL struct {
	Revision byte
	Entries  []ACE
}

type ACE struct {
	Type                byte
	ACEFlags            byte
	Mask                ACLPermissionMask
	Flags               uint32
	ObjectType          uuid.UUID
	InheritedObjectType uuid.UUID
	SID                 SID
}

// ParseSecurityDescriptor decodes a self-relative descriptor as returned
// in the nTSecurityDescriptor attribute. The SACL is ignored even when
// present.
func ParseSecurityDescriptor(data []byte) (SecurityDescriptor, error) {
	var sd SecurityDescriptor
	if len(data) < 20 {
		return sd, errors.New("not enough data to be a security descriptor")
	}
	if data[0] != 1 {
		return sd, fmt.Errorf("unsupported security descriptor revision %v", data[0])
	}
	sd.Control = SecurityDescriptorControlFlag(binary.LittleEndian.Uint16(data[2:4]))
	if sd.Control&CONTROLFLAG_SELF_RELATIVE == 0 {
		return sd, errors.New("only self-relative security descriptors supported")
	}

	offsetOwner := binary.LittleEndian.Uint32(data[4:8])
	offsetGroup := binary.LittleEndian.Uint32(data[8:12])
	offsetDACL := binary.LittleEndian.Uint32(data[16:20])

	var err error
	if offsetOwner > 0 {
		if int(offsetOwner) >= len(data) {
			return sd, errors.New("owner offset exceeds available data")
		}
		sd.Owner, _, err = ParseSID(data[offsetOwner:])
		if err != nil {
			return sd, err
		}
	}
	if offsetGroup > 0 {
		if int(offsetGroup) >= len(data) {
			return sd, errors.New("group offset exceeds available data")
		}
		sd.Group, _, err = ParseSID(data[offsetGroup:])
		if err != nil {
			return sd, err
		}
	}
	if sd.Control&CONTROLFLAG_DACL_PRESENT != 0 && offsetDACL > 0 {
		if int(offsetDACL) >= len(data) {
			return sd, errors.New("DACL offset exceeds available data")
		}
		sd.DACL, err = ParseACL(data[offsetDACL:])
		if err != nil {
			return sd, err
		}
	}
	return sd, nil
}

func ParseACL(data []byte) (ACL, error) {
	var acl ACL
	if len(data) < 8 {
		return acl, errors.New("not enough data to be an ACL")
	}
	acl.Revision = data[0]
	if acl.Revision != 1 && acl.Revision != 2 && acl.Revision != 4 {
		return acl, fmt.Errorf("unsupported ACL revision %v", acl.Revision)
	}
	aclsize := int(binary.LittleEndian.Uint16(data[2:4]))
	if aclsize > len(data) {
		return acl, errors.New("the ACL size exceeds available data")
	}
	aclcount := int(binary.LittleEndian.Uint16(data[4:6]))

	acedata := data[8:]
	acl.Entries = make([]ACE, aclcount)
	for i := 0; i < aclcount; i++ {
		var err error
		acl.Entries[i], acedata, err = ParseACLentry(acedata)
		if err != nil {
			return acl, err
		}
	}
	return acl, nil
}

func ParseACLentry(odata []byte) (ACE, []byte, error) {
	var ace ACE
	var err error
	if len(odata) < 8 {
		return ace, odata, errors.New("not enough data to be an ACE")
	}
	data := odata
	ace.Type = data[0]
	ace.ACEFlags = data[1]
	acesize := int(binary.LittleEndian.Uint16(data[2:]))
	if acesize > len(odata) {
		return ace, odata, errors.New("the ACE size exceeds available data")
	}
	ace.Mask = ACLPermissionMask(binary.LittleEndian.Uint32(data[4:]))

	data = data[8:]
	if ace.Type == ACETYPE_ACCESS_ALLOWED_OBJECT || ace.Type == ACETYPE_ACCESS_DENIED_OBJECT {
		ace.Flags = binary.LittleEndian.Uint32(data[0:])
		data = data[4:]
		if ace.Flags&OBJECT_TYPE_PRESENT != 0 {
			ace.ObjectType, err = uuid.FromBytes(data[0:16])
			if err != nil {
				return ace, data, err
			}
			ace.ObjectType = swapUUIDEndianess(ace.ObjectType)
			data = data[16:]
		}
		if ace.Flags&INHERITED_OBJECT_TYPE_PRESENT != 0 {
			ace.InheritedObjectType, err = uuid.FromBytes(data[0:16])
			if err != nil {
				return ace, data, err
			}
			ace.InheritedObjectType = swapUUIDEndianess(ace.InheritedObjectType)
			data = data[16:]
		}
	}

	ace.SID, _, err = ParseSID(data)
	if err != nil {
		return ace, odata, err
	}
	return ace, odata[acesize:], nil
}

// IsDeny reports whether the ACE removes rather than grants rights.
func (a ACE) IsDeny() bool {
	return a.Type == ACETYPE_ACCESS_DENIED || a.Type == ACETYPE_ACCESS_DENIED_OBJECT
}

// IsInheritOnly reports whether the ACE applies to child objects only.
func (a ACE) IsInheritOnly() bool {
	return a.ACEFlags&ACEFLAG_INHERIT_ONLY_ACE != 0
}

// AppliesToRight reports whether an object ACE is scoped to the given
// extended right. A null object type means the ACE covers everything.
func (a ACE) AppliesToRight(g uuid.UUID) bool {
	return a.ObjectType == NullGUID || a.ObjectType == g
}

// The first three fields of a GUID are stored little-endian on the wire.
func swapUUIDEndianess(u uuid.UUID) uuid.UUID {
	u[0], u[1], u[2], u[3] = u[3], u[2], u[1], u[0]
	u[4], u[5] = u[5], u[4]
	u[6], u[7] = u[7], u[6]
	return u
}
