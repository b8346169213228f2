package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/microservice-production/internal/data/db"
	types "github.com/yungbote/microservice-production/internal/domain/records"
	"github.com/yungbote/microservice-production/internal/events"
	httpH "github.com/yungbote/microservice-production/internal/http/handlers"
	"github.com/yungbote/microservice-production/internal/http/response"
	"github.com/yungbote/microservice-production/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Records []httpH.Routes
}

func wireHandlers(log *logger.Logger, cfg *Config, theDB *gorm.DB, r Resources, pub events.Publisher) Handlers {
	log.Info("Wiring handlers...")
	alerts := response.NewAlerts(cfg.AppName)
	return Handlers{
		Health: httpH.NewHealthHandler(func(ctx context.Context) error { return db.Ping(ctx, theDB) }),
		Records: []httpH.Routes{
			httpH.NewRecordHandler(log, r.MedicalRecords, types.MedicalRecordCollection, alerts, pub),
			httpH.NewRecordHandler(log, r.MilkProductions, types.MilkProductionCollection, alerts, pub),
			httpH.NewRecordHandler(log, r.Treatments, types.TreatmentCollection, alerts, pub),
		},
	}
}
