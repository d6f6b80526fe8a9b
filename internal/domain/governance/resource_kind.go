// Package governance holds the types for subscription quota enforcement:
// the closed set of governed resource kinds and the gate decision model.
package governance

// ResourceKind identifies a governed resource type. The set is closed: every
// kind maps to exactly one quota column on a plan and one counted table.
// Wire values are the product's historical identifiers and must not change.
type ResourceKind string

const (
	// KindUsers counts active user accounts
	KindUsers ResourceKind = "usuarios"

	// KindDepartments counts departments
	KindDepartments ResourceKind = "departamentos"

	// KindDocuments counts controlled documents
	KindDocuments ResourceKind = "documentos"

	// KindAudits counts internal audits
	KindAudits ResourceKind = "auditorias"

	// KindFindings counts audit findings
	KindFindings ResourceKind = "hallazgos"

	// KindActions counts corrective actions
	KindActions ResourceKind = "acciones"
)

// AllResourceKinds lists every governed resource kind
var AllResourceKinds = []ResourceKind{
	KindUsers,
	KindDepartments,
	KindDocuments,
	KindAudits,
	KindFindings,
	KindActions,
}

// String returns the wire representation of the kind
func (k ResourceKind) String() string {
	return string(k)
}

// IsValid returns true if the kind belongs to the closed set
func (k ResourceKind) IsValid() bool {
	switch k {
	case KindUsers, KindDepartments, KindDocuments,
		KindAudits, KindFindings, KindActions:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for the kind
func (k ResourceKind) DisplayName() string {
	switch k {
	case KindUsers:
		return "Users"
	case KindDepartments:
		return "Departments"
	case KindDocuments:
		return "Documents"
	case KindAudits:
		return "Audits"
	case KindFindings:
		return "Findings"
	case KindActions:
		return "Corrective actions"
	default:
		return string(k)
	}
}
