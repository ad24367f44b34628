package gpo

import "github.com/5amu/gpoaudit/pkg/winsec"

// RightsFromACE maps a raw ACE mask onto the audit's right set. Apply
// only counts when the control-access bit is scoped to the Apply Group
// Policy extended right (or unscoped, which covers every right).
func RightsFromACE(ace winsec.ACE) Right {
	var r Right
	if ace.Mask&winsec.ADS_RIGHT_DS_CONTROL_ACCESS != 0 && ace.AppliesToRight(winsec.ApplyGroupPolicyRight) {
		r |= RightApply
	}
	if ace.Mask&(winsec.ADS_RIGHT_DS_READ_PROP|winsec.RIGHT_GENERIC_READ) != 0 {
		r |= RightRead
	}
	if ace.Mask&(winsec.ADS_RIGHT_DS_WRITE_PROP|winsec.RIGHT_GENERIC_WRITE|winsec.RIGHT_GENERIC_ALL) != 0 {
		r |= RightEdit
	}
	if ace.Mask&(winsec.RIGHT_DELETE|winsec.ADS_RIGHT_DS_DELETE_TREE) != 0 {
		r |= RightDelete
	}
	if ace.Mask&(winsec.RIGHT_WRITE_DACL|winsec.RIGHT_WRITE_OWNER) != 0 {
		r |= RightModifySecurity
	}
	return r
}

// PermissionsFromDescriptor flattens a parsed security descriptor into
// permission grants. Inherit-only ACEs do not apply to the GPO itself
// and are dropped; trustee names and classes are left for the caller to
// resolve against the directory.
func PermissionsFromDescriptor(sd winsec.SecurityDescriptor) []Permission {
	var perms []Permission
	for _, ace := range sd.DACL.Entries {
		if ace.IsInheritOnly() {
			continue
		}
		rights := RightsFromACE(ace)
		if rights == 0 {
			continue
		}
		perms = append(perms, Permission{
			SID:    ace.SID,
			Rights: rights,
			Denied: ace.IsDeny(),
		})
	}
	return perms
}
