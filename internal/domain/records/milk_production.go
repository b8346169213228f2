package records

import (
	"time"

	"github.com/yungbote/microservice-production/internal/resource"
)

// MilkProduction is one milk yield measurement ("production lait").
type MilkProduction struct {
	ID         *int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Quantity   *int       `gorm:"column:quantite;not null" json:"quantite"`
	ProducedAt *time.Time `gorm:"column:dateproduction;not null" json:"dateproduction"`
}

func (MilkProduction) TableName() string { return "production_lait" }

func (m *MilkProduction) Equal(other *MilkProduction) bool {
	return other != nil && sameID(m.ID, other.ID)
}

func MilkProductionShape() resource.Shape[MilkProduction] {
	return resource.Shape[MilkProduction]{
		Name: "ProductionLait",
		ID:   func(r *MilkProduction) *int64 { return r.ID },
		Fields: []resource.Field[MilkProduction]{
			{
				Name:  "quantite",
				IsSet: func(r *MilkProduction) bool { return r.Quantity != nil },
				Merge: func(dst, src *MilkProduction) { dst.Quantity = src.Quantity },
			},
			{
				Name:  "dateproduction",
				IsSet: func(r *MilkProduction) bool { return r.ProducedAt != nil },
				Merge: func(dst, src *MilkProduction) { dst.ProducedAt = src.ProducedAt },
			},
		},
	}
}
