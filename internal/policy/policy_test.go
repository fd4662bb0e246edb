package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
)

func editableSet(m map[Field]Access) map[Field]bool {
	out := map[Field]bool{}
	for f, a := range m {
		if a == Editable {
			out[f] = true
		}
	}
	return out
}

func TestFieldsFor(t *testing.T) {
	cases := []struct {
		name     string
		role     domain.Role
		isNew    bool
		editable []Field
	}{
		{
			name:     "admin create",
			role:     domain.RoleAdmin,
			isNew:    true,
			editable: []Field{FieldSerialNumber, FieldDisplayName, FieldDepartment, FieldModelCategory, FieldCompany},
		},
		{
			name:     "admin edit",
			role:     domain.RoleAdmin,
			isNew:    false,
			editable: []Field{FieldDisplayName, FieldDepartment, FieldModelCategory, FieldCompany},
		},
		{
			name:     "incharge create",
			role:     domain.RoleAssetIncharge,
			isNew:    true,
			editable: []Field{FieldStatus, FieldDepartment},
		},
		{
			name:     "incharge edit",
			role:     domain.RoleAssetIncharge,
			isNew:    false,
			editable: []Field{FieldStatus, FieldDepartment},
		},
		{name: "user create", role: domain.RoleUser, isNew: true},
		{name: "user edit", role: domain.RoleUser, isNew: false},
		{name: "unknown role treated as user", role: domain.Role("superuser"), isNew: true},
		{name: "empty role treated as user", role: domain.Role(""), isNew: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FieldsFor(tc.role, tc.isNew)

			// Every field gets a decision, no more, no less.
			require.Len(t, got, len(Fields))

			want := map[Field]bool{}
			for _, f := range tc.editable {
				want[f] = true
			}
			assert.Equal(t, want, editableSet(got))
		})
	}
}

func TestSerialNumberLockedOnEditForAllRoles(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleAssetIncharge, domain.RoleUser} {
		assert.False(t, CanEdit(role, false, FieldSerialNumber), "role %s must not edit serial_number on existing assets", role)
	}
}

func TestStatusLockedForAdmin(t *testing.T) {
	assert.False(t, CanEdit(domain.RoleAdmin, true, FieldStatus))
	assert.False(t, CanEdit(domain.RoleAdmin, false, FieldStatus))
}
