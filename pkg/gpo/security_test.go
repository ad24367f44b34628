package gpo

import (
	"testing"

	"github.com/gofrs/uuid"

	"github.com/5amu/gpoaudit/pkg/winsec"
)

func TestRightsFromACE(t *testing.T) {
	tests := []struct {
		name string
		ace  winsec.ACE
		want Right
	}{
		{
			"apply via extended right",
			winsec.ACE{Mask: winsec.ADS_RIGHT_DS_CONTROL_ACCESS, ObjectType: winsec.ApplyGroupPolicyRight},
			RightApply,
		},
		{
			"unscoped control access covers apply",
			winsec.ACE{Mask: winsec.ADS_RIGHT_DS_CONTROL_ACCESS},
			RightApply,
		},
		{
			"control access scoped to another right is not apply",
			winsec.ACE{Mask: winsec.ADS_RIGHT_DS_CONTROL_ACCESS, ObjectType: uuid.Must(uuid.FromString("ab721a53-1e2f-11d0-9819-00aa0040529b"))},
			0,
		},
		{
			"read property",
			winsec.ACE{Mask: winsec.ADS_RIGHT_DS_READ_PROP},
			RightRead,
		},
		{
			"generic read",
			winsec.ACE{Mask: winsec.RIGHT_GENERIC_READ},
			RightRead,
		},
		{
			"write property is edit",
			winsec.ACE{Mask: winsec.ADS_RIGHT_DS_WRITE_PROP},
			RightEdit,
		},
		{
			"delete",
			winsec.ACE{Mask: winsec.RIGHT_DELETE},
			RightDelete,
		},
		{
			"write dacl is modify security",
			winsec.ACE{Mask: winsec.RIGHT_WRITE_DACL},
			RightModifySecurity,
		},
		{
			"generic all",
			winsec.ACE{Mask: winsec.RIGHT_GENERIC_ALL | winsec.ADS_RIGHT_DS_READ_PROP},
			RightEdit | RightRead,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RightsFromACE(tt.ace); got != tt.want {
				t.Errorf("RightsFromACE = %b, want %b", got, tt.want)
			}
		})
	}
}

func TestPermissionsFromDescriptor(t *testing.T) {
	user := winsec.MustParseStringSID("S-1-5-21-1-2-3-1104")
	sd := winsec.SecurityDescriptor{
		DACL: winsec.ACL{Entries: []winsec.ACE{
			{Mask: winsec.ADS_RIGHT_DS_CONTROL_ACCESS | winsec.ADS_RIGHT_DS_READ_PROP, SID: winsec.AuthenticatedUsers},
			{Type: winsec.ACETYPE_ACCESS_DENIED, Mask: winsec.RIGHT_WRITE_DACL, SID: user},
			// inherit-only, must be dropped
			{ACEFlags: winsec.ACEFLAG_INHERIT_ONLY_ACE, Mask: winsec.RIGHT_GENERIC_ALL, SID: user},
			// carries no audited right, must be dropped
			{Mask: winsec.ADS_RIGHT_ACTRL_DS_LIST, SID: user},
		}},
	}

	perms := PermissionsFromDescriptor(sd)
	if len(perms) != 2 {
		t.Fatalf("got %d permissions, want 2: %+v", len(perms), perms)
	}
	if p := perms[0]; p.SID != winsec.AuthenticatedUsers || p.Denied || p.Rights != RightApply|RightRead {
		t.Errorf("permission 0 = %+v", p)
	}
	if p := perms[1]; p.SID != user || !p.Denied || p.Rights != RightModifySecurity {
		t.Errorf("permission 1 = %+v", p)
	}
}
