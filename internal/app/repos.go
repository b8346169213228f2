package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/microservice-production/internal/data/repos"
	"github.com/yungbote/microservice-production/internal/platform/logger"
)

type Repos struct {
	MedicalRecords  repos.MedicalRecordRepo
	MilkProductions repos.MilkProductionRepo
	Treatments      repos.TreatmentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		MedicalRecords:  repos.NewMedicalRecordRepo(db, log),
		MilkProductions: repos.NewMilkProductionRepo(db, log),
		Treatments:      repos.NewTreatmentRepo(db, log),
	}
}
