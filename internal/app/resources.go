package app

import (
	"gorm.io/gorm"

	types "github.com/yungbote/microservice-production/internal/domain/records"
	"github.com/yungbote/microservice-production/internal/observability"
	"github.com/yungbote/microservice-production/internal/platform/logger"
	"github.com/yungbote/microservice-production/internal/resource"
)

type Resources struct {
	MedicalRecords  *resource.Resource[types.MedicalRecord]
	MilkProductions *resource.Resource[types.MilkProduction]
	Treatments      *resource.Resource[types.Treatment]
}

func wireResources(db *gorm.DB, log *logger.Logger, r Repos, metrics *observability.Metrics) Resources {
	var obs resource.Observer
	if metrics != nil {
		obs = metrics
	}
	return Resources{
		MedicalRecords:  newResource[types.MedicalRecord](db, log, types.MedicalRecordShape(), r.MedicalRecords, obs),
		MilkProductions: newResource[types.MilkProduction](db, log, types.MilkProductionShape(), r.MilkProductions, obs),
		Treatments:      newResource[types.Treatment](db, log, types.TreatmentShape(), r.Treatments, obs),
	}
}

func newResource[T any](db *gorm.DB, log *logger.Logger, shape resource.Shape[T], store resource.Store[T], obs resource.Observer) *resource.Resource[T] {
	return resource.New[T](db, log, shape, store, resource.WithObserver[T](obs))
}
