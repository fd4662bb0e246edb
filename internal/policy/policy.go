// Package policy decides which asset fields a role may write. The same table
// is consulted when rendering a form and when accepting a submitted change
// set, so a client claiming a field was enabled gains nothing.
package policy

import "github.com/dk8534/Automated-Asset-Management/internal/domain"

// Field names one of the writable attributes of an asset record.
type Field string

const (
	FieldSerialNumber  Field = "serial_number"
	FieldDisplayName   Field = "display_name"
	FieldDepartment    Field = "department"
	FieldModelCategory Field = "model_category"
	FieldStatus        Field = "status"
	FieldCompany       Field = "company"
)

// Access is the outcome of a policy decision for a single field.
type Access int

const (
	Locked Access = iota
	Editable
)

// Fields lists every policy-governed field in form order.
var Fields = []Field{
	FieldSerialNumber,
	FieldDisplayName,
	FieldDepartment,
	FieldModelCategory,
	FieldStatus,
	FieldCompany,
}

// FieldsFor maps every asset field to Editable or Locked for the given role.
// Rules:
//   - serial_number may only be written by an admin creating a new record;
//     it is locked on every edit and locked for asset_incharge even on create.
//   - admin: status always locked (the server forces new records to
//     available); the remaining fields are editable.
//   - asset_incharge: only status and department are editable.
//   - user or any unknown role: everything locked.
func FieldsFor(role domain.Role, isNew bool) map[Field]Access {
	out := make(map[Field]Access, len(Fields))
	for _, f := range Fields {
		out[f] = Locked
	}

	switch role {
	case domain.RoleAdmin:
		out[FieldDisplayName] = Editable
		out[FieldDepartment] = Editable
		out[FieldModelCategory] = Editable
		out[FieldCompany] = Editable
		if isNew {
			out[FieldSerialNumber] = Editable
		}
	case domain.RoleAssetIncharge:
		out[FieldStatus] = Editable
		out[FieldDepartment] = Editable
	}

	return out
}

// CanEdit reports whether role may write the single field.
func CanEdit(role domain.Role, isNew bool, f Field) bool {
	return FieldsFor(role, isNew)[f] == Editable
}
