package resource

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/microservice-production/internal/pkg/dbctx"
	"github.com/yungbote/microservice-production/internal/platform/logger"
)

type note struct {
	ID    *int64
	Title *string
	Count *int
}

func noteShape() Shape[note] {
	return Shape[note]{
		Name: "Note",
		ID:   func(n *note) *int64 { return n.ID },
		Fields: []Field[note]{
			{
				Name:  "title",
				IsSet: func(n *note) bool { return n.Title != nil },
				Merge: func(dst, src *note) { dst.Title = src.Title },
			},
			{
				Name:  "count",
				IsSet: func(n *note) bool { return n.Count != nil },
				Merge: func(dst, src *note) { dst.Count = src.Count },
			},
		},
	}
}

// memStore is an in-memory Store with per-operation fault injection.
type memStore struct {
	mu     sync.Mutex
	rows   map[int64]note
	nextID int64
	fail   map[string]error
	calls  []string
	last   PageRequest
	page   *Page[note]
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]note{}, fail: map[string]error{}}
}

func (s *memStore) record(op string) error {
	s.calls = append(s.calls, op)
	return s.fail[op]
}

func (s *memStore) Save(_ dbctx.Context, rec *note) (*note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("save"); err != nil {
		return nil, err
	}
	if rec.ID == nil {
		s.nextID++
		id := s.nextID
		rec.ID = &id
	}
	s.rows[*rec.ID] = *rec
	out := *rec
	return &out, nil
}

func (s *memStore) FindByID(_ dbctx.Context, id int64) (*note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("find_by_id"); err != nil {
		return nil, err
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *memStore) ExistsByID(_ dbctx.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("exists_by_id"); err != nil {
		return false, err
	}
	_, ok := s.rows[id]
	return ok, nil
}

func (s *memStore) FindAll(_ dbctx.Context, req PageRequest) (Page[note], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = req
	if err := s.record("find_all"); err != nil {
		return Page[note]{}, err
	}
	if s.page != nil {
		return *s.page, nil
	}
	total := int64(len(s.rows))
	return Page[note]{Page: req.Page, Size: req.Size, TotalElements: total, TotalPages: TotalPages(total, req.Size)}, nil
}

func (s *memStore) DeleteByID(_ dbctx.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("delete_by_id"); err != nil {
		return err
	}
	delete(s.rows, id)
	return nil
}

func (s *memStore) seed(title string, count int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.rows[id] = note{ID: &id, Title: &title, Count: &count}
	return id
}

type opRecord struct {
	entity, op, outcome string
}

type fakeObserver struct {
	ops []opRecord
}

func (o *fakeObserver) ObserveRecordOp(entity, op, outcome string, _ time.Duration) {
	o.ops = append(o.ops, opRecord{entity: entity, op: op, outcome: outcome})
}

func newTestResource(t *testing.T, store Store[note], opts ...Option[note]) *Resource[note] {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return New[note](nil, log, noteShape(), store, opts...)
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }
func idp(i int64) *int64    { return &i }

func wantReason(t *testing.T, err error, reason Reason) {
	t.Helper()
	ce, ok := AsContractError(err)
	if !ok {
		t.Fatalf("expected ContractError(%s), got %v", reason, err)
	}
	if ce.Reason != reason {
		t.Fatalf("expected reason %s, got %s", reason, ce.Reason)
	}
	if ce.Entity != "Note" {
		t.Fatalf("expected entity Note, got %q", ce.Entity)
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns identity", func(t *testing.T) {
		store := newMemStore()
		r := newTestResource(t, store)
		res, err := r.Create(ctx, &note{Title: strp("a"), Count: intp(1)})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if res.Outcome != Created || res.Outcome.String() != "created" {
			t.Fatalf("expected Created, got %v", res.Outcome)
		}
		if res.Record.ID == nil || *res.Record.ID != 1 {
			t.Fatalf("expected id 1, got %v", res.Record.ID)
		}
		if len(store.rows) != 1 {
			t.Fatalf("expected one stored row, got %d", len(store.rows))
		}
	})

	t.Run("rejects preassigned id", func(t *testing.T) {
		store := newMemStore()
		r := newTestResource(t, store)
		_, err := r.Create(ctx, &note{ID: idp(7), Title: strp("a"), Count: intp(1)})
		wantReason(t, err, ReasonIdentityAlreadyAssigned)
		if !errors.Is(err, ErrIdentityAlreadyAssigned) {
			t.Fatalf("expected errors.Is(ErrIdentityAlreadyAssigned)")
		}
		if len(store.calls) != 0 {
			t.Fatalf("expected no store calls, got %v", store.calls)
		}
	})

	t.Run("rejects missing field", func(t *testing.T) {
		store := newMemStore()
		r := newTestResource(t, store)
		_, err := r.Create(ctx, &note{Title: strp("a")})
		wantReason(t, err, ReasonFieldRequired)
		ce, _ := AsContractError(err)
		if ce.Field != "count" {
			t.Fatalf("expected field count, got %q", ce.Field)
		}
		if len(store.calls) != 0 {
			t.Fatalf("expected no store calls, got %v", store.calls)
		}
	})

	t.Run("wraps store failure", func(t *testing.T) {
		store := newMemStore()
		boom := errors.New("disk full")
		store.fail["save"] = boom
		r := newTestResource(t, store)
		_, err := r.Create(ctx, &note{Title: strp("a"), Count: intp(1)})
		if !IsStorageFault(err) || !errors.Is(err, boom) {
			t.Fatalf("expected StorageFault wrapping boom, got %v", err)
		}
		if _, ok := AsContractError(err); ok {
			t.Fatalf("storage fault must not look like a contract error")
		}
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces fields", func(t *testing.T) {
		store := newMemStore()
		id := store.seed("old", 1)
		r := newTestResource(t, store)
		res, err := r.Update(ctx, id, &note{ID: idp(id), Title: strp("new"), Count: intp(2)})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if res.Outcome != Updated {
			t.Fatalf("expected Updated, got %v", res.Outcome)
		}
		row := store.rows[id]
		if *row.Title != "new" || *row.Count != 2 {
			t.Fatalf("unexpected stored row %+v", row)
		}
	})

	cases := []struct {
		name   string
		pathID int64
		body   *note
		reason Reason
	}{
		{name: "missing id", pathID: 1, body: &note{Title: strp("a"), Count: intp(1)}, reason: ReasonMissingIdentity},
		{name: "mismatched id", pathID: 1, body: &note{ID: idp(2), Title: strp("a"), Count: intp(1)}, reason: ReasonIdentityMismatch},
		{name: "unknown id", pathID: 99, body: &note{ID: idp(99), Title: strp("a"), Count: intp(1)}, reason: ReasonNotFound},
		{name: "missing field", pathID: 1, body: &note{ID: idp(1), Count: intp(1)}, reason: ReasonFieldRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			store.seed("old", 1)
			r := newTestResource(t, store)
			_, err := r.Update(ctx, tc.pathID, tc.body)
			wantReason(t, err, tc.reason)
			row := store.rows[1]
			if *row.Title != "old" || *row.Count != 1 {
				t.Fatalf("store mutated on rejection: %+v", row)
			}
			for _, c := range store.calls {
				if c == "save" {
					t.Fatalf("save called on rejection")
				}
			}
		})
	}

	t.Run("exists failure is a fault", func(t *testing.T) {
		store := newMemStore()
		id := store.seed("old", 1)
		store.fail["exists_by_id"] = errors.New("timeout")
		r := newTestResource(t, store)
		_, err := r.Update(ctx, id, &note{ID: idp(id), Title: strp("new"), Count: intp(2)})
		if !IsStorageFault(err) {
			t.Fatalf("expected StorageFault, got %v", err)
		}
	})
}

func TestPartialUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("merges present fields only", func(t *testing.T) {
		store := newMemStore()
		id := store.seed("old", 1)
		r := newTestResource(t, store)
		res, err := r.PartialUpdate(ctx, id, &note{ID: idp(id), Count: intp(5)})
		if err != nil {
			t.Fatalf("PartialUpdate: %v", err)
		}
		if *res.Record.Title != "old" || *res.Record.Count != 5 {
			t.Fatalf("unexpected merge result %+v", res.Record)
		}
		if res.Outcome != Updated {
			t.Fatalf("expected Updated, got %v", res.Outcome)
		}
	})

	t.Run("empty patch keeps record", func(t *testing.T) {
		store := newMemStore()
		id := store.seed("old", 1)
		r := newTestResource(t, store)
		res, err := r.PartialUpdate(ctx, id, &note{ID: idp(id)})
		if err != nil {
			t.Fatalf("PartialUpdate: %v", err)
		}
		if *res.Record.Title != "old" || *res.Record.Count != 1 {
			t.Fatalf("unexpected record %+v", res.Record)
		}
	})

	t.Run("identity rules", func(t *testing.T) {
		store := newMemStore()
		store.seed("old", 1)
		r := newTestResource(t, store)
		_, err := r.PartialUpdate(ctx, 1, &note{Title: strp("x")})
		wantReason(t, err, ReasonMissingIdentity)
		_, err = r.PartialUpdate(ctx, 1, &note{ID: idp(3), Title: strp("x")})
		wantReason(t, err, ReasonIdentityMismatch)
		_, err = r.PartialUpdate(ctx, 42, &note{ID: idp(42), Title: strp("x")})
		wantReason(t, err, ReasonNotFound)
		_, err = r.PartialUpdate(ctx, 1, nil)
		wantReason(t, err, ReasonMissingIdentity)
	})

	t.Run("vanished between check and load", func(t *testing.T) {
		store := &vanishingStore{memStore: newMemStore()}
		id := store.seed("old", 1)
		r := newTestResource(t, store)
		_, err := r.PartialUpdate(ctx, id, &note{ID: idp(id), Title: strp("x")})
		if !errors.Is(err, ErrNoRecord) {
			t.Fatalf("expected ErrNoRecord, got %v", err)
		}
	})

	t.Run("load failure is a fault", func(t *testing.T) {
		store := newMemStore()
		id := store.seed("old", 1)
		store.fail["find_by_id"] = errors.New("broken pipe")
		r := newTestResource(t, store)
		_, err := r.PartialUpdate(ctx, id, &note{ID: idp(id), Title: strp("x")})
		if !IsStorageFault(err) {
			t.Fatalf("expected StorageFault, got %v", err)
		}
	})
}

// vanishingStore reports every id as present but never finds it.
type vanishingStore struct {
	*memStore
}

func (s *vanishingStore) FindByID(_ dbctx.Context, _ int64) (*note, error) {
	return nil, nil
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes request", func(t *testing.T) {
		cases := []struct {
			in       PageRequest
			wantPage int
			wantSize int
		}{
			{in: PageRequest{Page: 0, Size: 0}, wantPage: 0, wantSize: DefaultPageSize},
			{in: PageRequest{Page: -3, Size: 10}, wantPage: 0, wantSize: 10},
			{in: PageRequest{Page: 2, Size: 5000}, wantPage: 2, wantSize: MaxPageSize},
		}
		for _, tc := range cases {
			store := newMemStore()
			r := newTestResource(t, store)
			page, _, err := r.List(ctx, tc.in)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if store.last.Page != tc.wantPage || store.last.Size != tc.wantSize {
				t.Fatalf("store got %+v, want page=%d size=%d", store.last, tc.wantPage, tc.wantSize)
			}
			if page.Items == nil {
				t.Fatalf("expected empty slice, got nil")
			}
		}
	})

	t.Run("passes sort through", func(t *testing.T) {
		store := newMemStore()
		r := newTestResource(t, store)
		sort := []SortOrder{{Property: "title", Direction: Desc}}
		if _, _, err := r.List(ctx, PageRequest{Size: 5, Sort: sort}); err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(store.last.Sort) != 1 || store.last.Sort[0] != sort[0] {
			t.Fatalf("sort not forwarded: %+v", store.last.Sort)
		}
	})

	t.Run("metadata", func(t *testing.T) {
		store := newMemStore()
		store.page = &Page[note]{Items: []*note{{}, {}}, Page: 1, Size: 2, TotalElements: 5, TotalPages: 3}
		r := newTestResource(t, store)
		_, meta, err := r.List(ctx, PageRequest{Page: 1, Size: 2})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if meta.Last != 2 || meta.Next == nil || *meta.Next != 2 || meta.Prev == nil || *meta.Prev != 0 {
			t.Fatalf("unexpected meta %+v", meta)
		}
	})

	t.Run("invalid sort stays a client error", func(t *testing.T) {
		store := newMemStore()
		store.fail["find_all"] = ErrInvalidSort
		r := newTestResource(t, store)
		_, _, err := r.List(ctx, PageRequest{})
		if !errors.Is(err, ErrInvalidSort) || IsStorageFault(err) {
			t.Fatalf("expected bare ErrInvalidSort, got %v", err)
		}
	})

	t.Run("store failure is a fault", func(t *testing.T) {
		store := newMemStore()
		store.fail["find_all"] = errors.New("down")
		r := newTestResource(t, store)
		_, _, err := r.List(ctx, PageRequest{})
		if !IsStorageFault(err) {
			t.Fatalf("expected StorageFault, got %v", err)
		}
	})
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	id := store.seed("a", 1)
	r := newTestResource(t, store)

	got, err := r.Get(ctx, id)
	if err != nil || got == nil || *got.Title != "a" {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}
	if _, err := r.Get(ctx, id+1); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("Get(missing): expected ErrNoRecord, got %v", err)
	}

	if err := r.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete(ctx, id); err != nil {
		t.Fatalf("Delete(missing): expected nil, got %v", err)
	}
	if _, err := r.Get(ctx, id); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("Get(deleted): expected ErrNoRecord, got %v", err)
	}

	store.fail["delete_by_id"] = errors.New("locked")
	if err := r.Delete(ctx, id); !IsStorageFault(err) {
		t.Fatalf("Delete(failure): expected StorageFault, got %v", err)
	}
}

func TestObserverOutcomes(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	obs := &fakeObserver{}
	r := newTestResource(t, store, WithObserver[note](obs))

	_, _ = r.Create(ctx, &note{Title: strp("a"), Count: intp(1)})
	_, _ = r.Create(ctx, &note{ID: idp(5), Title: strp("a"), Count: intp(1)})
	store.fail["find_by_id"] = errors.New("down")
	_, _ = r.Get(ctx, 1)

	want := []opRecord{
		{entity: "Note", op: "create", outcome: "ok"},
		{entity: "Note", op: "create", outcome: "rejected"},
		{entity: "Note", op: "get", outcome: "fault"},
	}
	if len(obs.ops) != len(want) {
		t.Fatalf("expected %d observations, got %+v", len(want), obs.ops)
	}
	for i := range want {
		if obs.ops[i] != want[i] {
			t.Fatalf("observation %d: got %+v want %+v", i, obs.ops[i], want[i])
		}
	}
}
