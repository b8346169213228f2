// Package records holds the persisted record types and their shape descriptors.
package records

// Collection paths under /api.
const (
	MedicalRecordCollection  = "fiche-medicals"
	MilkProductionCollection = "production-laits"
	TreatmentCollection      = "traitements"
)

// Models lists every record type, in migration order.
func Models() []any {
	return []any{
		&MedicalRecord{},
		&MilkProduction{},
		&Treatment{},
	}
}

// Records are equal only when both carry the same assigned id.
func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
