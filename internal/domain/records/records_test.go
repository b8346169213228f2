package records

import (
	"testing"
	"time"

	"github.com/yungbote/microservice-production/internal/pkg/pointers"
)

func TestEqualityFollowsIdentity(t *testing.T) {
	a := &MilkProduction{ID: pointers.Int64(1)}
	b := &MilkProduction{ID: pointers.Int64(1)}
	if !a.Equal(b) {
		t.Fatalf("expected records with the same id to be equal")
	}
	b.ID = pointers.Int64(2)
	if a.Equal(b) {
		t.Fatalf("expected records with different ids to differ")
	}
	a.ID = nil
	if a.Equal(b) {
		t.Fatalf("expected a record without id to differ")
	}
	if (&MilkProduction{}).Equal(&MilkProduction{}) {
		t.Fatalf("expected two unsaved records to differ")
	}
}

func TestShapesDescribeTwoFields(t *testing.T) {
	now := time.Now()
	t.Run("FicheMedical", func(t *testing.T) {
		s := MedicalRecordShape()
		src := &MedicalRecord{Observation: pointers.String("boiterie"), ConsultedAt: &now}
		dst := &MedicalRecord{}
		for _, f := range s.Fields {
			if !f.IsSet(src) {
				t.Fatalf("%s: expected set", f.Name)
			}
			if f.IsSet(dst) {
				t.Fatalf("%s: expected unset", f.Name)
			}
			f.Merge(dst, src)
		}
		if *dst.Observation != "boiterie" || !dst.ConsultedAt.Equal(now) {
			t.Fatalf("merge did not copy fields: %+v", dst)
		}
	})
	t.Run("ProductionLait", func(t *testing.T) {
		s := MilkProductionShape()
		if len(s.Fields) != 2 || s.Fields[0].Name != "quantite" || s.Fields[1].Name != "dateproduction" {
			t.Fatalf("unexpected fields: %+v", s.Fields)
		}
		if s.ID(&MilkProduction{ID: pointers.Int64(9)}) == nil {
			t.Fatalf("expected id accessor to see id")
		}
	})
	t.Run("Traitement", func(t *testing.T) {
		s := TreatmentShape()
		src := &Treatment{Description: pointers.String("antibiotique")}
		dst := &Treatment{TreatedAt: &now}
		for _, f := range s.Fields {
			if f.IsSet(src) {
				f.Merge(dst, src)
			}
		}
		if *dst.Description != "antibiotique" || dst.TreatedAt == nil {
			t.Fatalf("unexpected merge result: %+v", dst)
		}
	})
}
