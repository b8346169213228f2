package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/microservice-production/internal/domain/records"
)

// Epoch is the default timestamp used by fixtures.
var Epoch = time.Unix(0, 0).UTC()

func SeedMedicalRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, observation string) *types.MedicalRecord {
	tb.Helper()
	at := Epoch
	rec := &types.MedicalRecord{Observation: &observation, ConsultedAt: &at}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed medical record: %v", err)
	}
	return rec
}

func SeedMilkProduction(tb testing.TB, ctx context.Context, tx *gorm.DB, quantity int) *types.MilkProduction {
	tb.Helper()
	at := Epoch
	rec := &types.MilkProduction{Quantity: &quantity, ProducedAt: &at}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed milk production: %v", err)
	}
	return rec
}

func SeedTreatment(tb testing.TB, ctx context.Context, tx *gorm.DB, description string) *types.Treatment {
	tb.Helper()
	at := Epoch
	rec := &types.Treatment{Description: &description, TreatedAt: &at}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed treatment: %v", err)
	}
	return rec
}
