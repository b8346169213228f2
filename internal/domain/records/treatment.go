package records

import (
	"time"

	"github.com/yungbote/microservice-production/internal/resource"
)

// Treatment is an administered treatment ("traitement").
type Treatment struct {
	ID          *int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Description *string    `gorm:"column:traitement;not null" json:"traitement"`
	TreatedAt   *time.Time `gorm:"column:datetraitement;not null" json:"datetraitement"`
}

func (Treatment) TableName() string { return "traitement" }

func (t *Treatment) Equal(other *Treatment) bool {
	return other != nil && sameID(t.ID, other.ID)
}

func TreatmentShape() resource.Shape[Treatment] {
	return resource.Shape[Treatment]{
		Name: "Traitement",
		ID:   func(r *Treatment) *int64 { return r.ID },
		Fields: []resource.Field[Treatment]{
			{
				Name:  "traitement",
				IsSet: func(r *Treatment) bool { return r.Description != nil },
				Merge: func(dst, src *Treatment) { dst.Description = src.Description },
			},
			{
				Name:  "datetraitement",
				IsSet: func(r *Treatment) bool { return r.TreatedAt != nil },
				Merge: func(dst, src *Treatment) { dst.TreatedAt = src.TreatedAt },
			},
		},
	}
}
