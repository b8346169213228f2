package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/microservice-production/internal/data/repos/records"
	types "github.com/yungbote/microservice-production/internal/domain/records"
	"github.com/yungbote/microservice-production/internal/platform/logger"
)

type MedicalRecordRepo = records.RecordRepo[types.MedicalRecord]
type MilkProductionRepo = records.RecordRepo[types.MilkProduction]
type TreatmentRepo = records.RecordRepo[types.Treatment]

func NewMedicalRecordRepo(db *gorm.DB, baseLog *logger.Logger) MedicalRecordRepo {
	return records.NewRecordRepo[types.MedicalRecord](db, baseLog, "MedicalRecord")
}

func NewMilkProductionRepo(db *gorm.DB, baseLog *logger.Logger) MilkProductionRepo {
	return records.NewRecordRepo[types.MilkProduction](db, baseLog, "MilkProduction")
}

func NewTreatmentRepo(db *gorm.DB, baseLog *logger.Logger) TreatmentRepo {
	return records.NewRecordRepo[types.Treatment](db, baseLog, "Treatment")
}
