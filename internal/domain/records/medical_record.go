package records

import (
	"time"

	"github.com/yungbote/microservice-production/internal/resource"
)

// MedicalRecord is a veterinary observation ("fiche medical").
type MedicalRecord struct {
	ID          *int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Observation *string    `gorm:"column:observation;not null" json:"observation"`
	ConsultedAt *time.Time `gorm:"column:dateconsultation;not null" json:"dateconsultation"`
}

func (MedicalRecord) TableName() string { return "fiche_medical" }

func (m *MedicalRecord) Equal(other *MedicalRecord) bool {
	return other != nil && sameID(m.ID, other.ID)
}

func MedicalRecordShape() resource.Shape[MedicalRecord] {
	return resource.Shape[MedicalRecord]{
		Name: "FicheMedical",
		ID:   func(r *MedicalRecord) *int64 { return r.ID },
		Fields: []resource.Field[MedicalRecord]{
			{
				Name:  "observation",
				IsSet: func(r *MedicalRecord) bool { return r.Observation != nil },
				Merge: func(dst, src *MedicalRecord) { dst.Observation = src.Observation },
			},
			{
				Name:  "dateconsultation",
				IsSet: func(r *MedicalRecord) bool { return r.ConsultedAt != nil },
				Merge: func(dst, src *MedicalRecord) { dst.ConsultedAt = src.ConsultedAt },
			},
		},
	}
}
