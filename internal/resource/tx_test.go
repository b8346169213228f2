package resource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/microservice-production/internal/data/repos"
	"github.com/yungbote/microservice-production/internal/data/repos/testutil"
	types "github.com/yungbote/microservice-production/internal/domain/records"
	"github.com/yungbote/microservice-production/internal/pkg/dbctx"
	"github.com/yungbote/microservice-production/internal/pkg/pointers"
	"github.com/yungbote/microservice-production/internal/resource"
)

// failingSave writes through to the real store, then reports a failure.
type failingSave struct {
	repos.MilkProductionRepo
	sawTx bool
}

func (s *failingSave) Save(dbc dbctx.Context, rec *types.MilkProduction) (*types.MilkProduction, error) {
	s.sawTx = dbc.Tx != nil
	if _, err := s.MilkProductionRepo.Save(dbc, rec); err != nil {
		return nil, err
	}
	return nil, errors.New("connection reset after write")
}

func TestPartialUpdateRollsBackOnFault(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	seeded := testutil.SeedMilkProduction(t, ctx, tx, 12)
	store := &failingSave{MilkProductionRepo: repos.NewMilkProductionRepo(tx, log)}
	r := resource.New[types.MilkProduction](tx, log, types.MilkProductionShape(), store)

	_, err := r.PartialUpdate(ctx, *seeded.ID, &types.MilkProduction{ID: seeded.ID, Quantity: pointers.Int(99)})
	if !resource.IsStorageFault(err) {
		t.Fatalf("expected StorageFault, got %v", err)
	}
	if !store.sawTx {
		t.Fatalf("expected save to run inside a transaction")
	}

	var got types.MilkProduction
	if err := tx.WithContext(ctx).Where("id = ?", *seeded.ID).First(&got).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Quantity == nil || *got.Quantity != 12 {
		t.Fatalf("expected quantity 12 after rollback, got %v", got.Quantity)
	}
}

func TestUpdateCommits(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	seeded := testutil.SeedTreatment(t, ctx, tx, "vaccin")
	r := resource.New[types.Treatment](tx, log, types.TreatmentShape(), repos.NewTreatmentRepo(tx, log))

	at := testutil.Epoch
	res, err := r.Update(ctx, *seeded.ID, &types.Treatment{ID: seeded.ID, Description: pointers.String("rappel"), TreatedAt: &at})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Outcome != resource.Updated {
		t.Fatalf("expected Updated, got %v", res.Outcome)
	}
	got, err := r.Get(ctx, *seeded.ID)
	if err != nil || got.Description == nil || *got.Description != "rappel" {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}
}
