package resource

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/microservice-production/internal/pkg/dbctx"
	"github.com/yungbote/microservice-production/internal/platform/logger"
)

// Store is the storage collaborator of one entity type.
type Store[T any] interface {
	// Save inserts rec when its id is nil (assigning one) and updates it otherwise.
	Save(dbc dbctx.Context, rec *T) (*T, error)
	// FindByID returns nil, nil when no record has the id.
	FindByID(dbc dbctx.Context, id int64) (*T, error)
	ExistsByID(dbc dbctx.Context, id int64) (bool, error)
	FindAll(dbc dbctx.Context, req PageRequest) (Page[T], error)
	DeleteByID(dbc dbctx.Context, id int64) error
}

// Observer receives the outcome of every contract operation.
type Observer interface {
	ObserveRecordOp(entity, op, outcome string, dur time.Duration)
}

type Outcome int

const (
	Created Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

type Result[T any] struct {
	Record  *T
	Outcome Outcome
}

type Option[T any] func(r *Resource[T])

func WithObserver[T any](o Observer) Option[T] {
	return func(r *Resource[T]) { r.observer = o }
}

// Resource applies the consistency contract of one entity type on top of its Store.
type Resource[T any] struct {
	db       *gorm.DB
	log      *logger.Logger
	shape    Shape[T]
	store    Store[T]
	observer Observer
}

// New builds a Resource. db may be nil, in which case update sequences run without a
// surrounding transaction.
func New[T any](db *gorm.DB, baseLog *logger.Logger, shape Shape[T], store Store[T], opts ...Option[T]) *Resource[T] {
	r := &Resource[T]{
		db:    db,
		log:   baseLog.With("resource", shape.Name),
		shape: shape,
		store: store,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resource[T]) Shape() Shape[T] { return r.shape }

// Create persists a record that carries no identity yet.
func (r *Resource[T]) Create(ctx context.Context, rec *T) (res Result[T], err error) {
	defer r.observe("create", time.Now(), &err)
	r.log.Debug("request to save record")

	if field, missing := r.shape.missingField(rec); missing {
		return res, &ContractError{Entity: r.shape.Name, Reason: ReasonFieldRequired, Field: field}
	}
	if r.shape.ID(rec) != nil {
		return res, contractErr(r.shape.Name, ReasonIdentityAlreadyAssigned)
	}
	saved, err := r.store.Save(dbctx.Context{Ctx: ctx}, rec)
	if err != nil {
		return res, r.fault("save", err)
	}
	return Result[T]{Record: saved, Outcome: Created}, nil
}

// Update replaces every domain field of the record at id.
func (r *Resource[T]) Update(ctx context.Context, id int64, rec *T) (res Result[T], err error) {
	defer r.observe("update", time.Now(), &err)
	r.log.Debug("request to update record", "id", id)

	if field, missing := r.shape.missingField(rec); missing {
		return res, &ContractError{Entity: r.shape.Name, Reason: ReasonFieldRequired, Field: field}
	}
	if err := r.checkIdentity(id, rec); err != nil {
		return res, err
	}
	err = r.inTx(ctx, func(dbc dbctx.Context) error {
		if err := r.requireExists(dbc, id); err != nil {
			return err
		}
		saved, err := r.store.Save(dbc, rec)
		if err != nil {
			return r.fault("save", err)
		}
		res = Result[T]{Record: saved, Outcome: Updated}
		return nil
	})
	return res, err
}

// PartialUpdate merges the non-null domain fields of patch into the stored record at id.
// Nothing guards against a concurrent update of the same record between load and save.
func (r *Resource[T]) PartialUpdate(ctx context.Context, id int64, patch *T) (res Result[T], err error) {
	defer r.observe("partial_update", time.Now(), &err)
	r.log.Debug("request to partially update record", "id", id)

	if err := r.checkIdentity(id, patch); err != nil {
		return res, err
	}
	err = r.inTx(ctx, func(dbc dbctx.Context) error {
		if err := r.requireExists(dbc, id); err != nil {
			return err
		}
		current, err := r.store.FindByID(dbc, id)
		if err != nil {
			return r.fault("find_by_id", err)
		}
		if current == nil {
			return ErrNoRecord
		}
		r.shape.mergePresent(current, patch)
		saved, err := r.store.Save(dbc, current)
		if err != nil {
			return r.fault("save", err)
		}
		res = Result[T]{Record: saved, Outcome: Updated}
		return nil
	})
	return res, err
}

// List returns one page of records plus its navigation metadata.
func (r *Resource[T]) List(ctx context.Context, req PageRequest) (page Page[T], meta PageMeta, err error) {
	defer r.observe("list", time.Now(), &err)
	req = req.normalized()
	r.log.Debug("request to get a page of records", "page", req.Page, "size", req.Size)

	page, err = r.store.FindAll(dbctx.Context{Ctx: ctx}, req)
	if errors.Is(err, ErrInvalidSort) {
		return Page[T]{}, PageMeta{}, err
	}
	if err != nil {
		return Page[T]{}, PageMeta{}, r.fault("find_all", err)
	}
	if page.Items == nil {
		page.Items = []*T{}
	}
	return page, MetaOf(page), nil
}

// Get returns the record at id or ErrNoRecord.
func (r *Resource[T]) Get(ctx context.Context, id int64) (rec *T, err error) {
	defer r.observe("get", time.Now(), &err)
	r.log.Debug("request to get record", "id", id)

	rec, err = r.store.FindByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, r.fault("find_by_id", err)
	}
	if rec == nil {
		return nil, ErrNoRecord
	}
	return rec, nil
}

// Delete removes the record at id. A missing id is not an error here.
func (r *Resource[T]) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("delete", time.Now(), &err)
	r.log.Debug("request to delete record", "id", id)

	if err := r.store.DeleteByID(dbctx.Context{Ctx: ctx}, id); err != nil {
		return r.fault("delete_by_id", err)
	}
	return nil
}

func (r *Resource[T]) checkIdentity(pathID int64, rec *T) error {
	id := r.shape.idOf(rec)
	if id == nil {
		return contractErr(r.shape.Name, ReasonMissingIdentity)
	}
	if *id != pathID {
		return contractErr(r.shape.Name, ReasonIdentityMismatch)
	}
	return nil
}

func (r *Resource[T]) requireExists(dbc dbctx.Context, id int64) error {
	ok, err := r.store.ExistsByID(dbc, id)
	if err != nil {
		return r.fault("exists_by_id", err)
	}
	if !ok {
		return contractErr(r.shape.Name, ReasonNotFound)
	}
	return nil
}

func (r *Resource[T]) inTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r.db == nil {
		return fn(dbctx.Context{Ctx: ctx})
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
	if err == nil || errors.Is(err, ErrNoRecord) || IsStorageFault(err) {
		return err
	}
	if _, ok := AsContractError(err); ok {
		return err
	}
	// begin or commit failed
	return r.fault("transaction", err)
}

func (r *Resource[T]) fault(op string, err error) error {
	r.log.Warn("storage call failed", "op", op, "error", err)
	return &StorageFault{Entity: r.shape.Name, Op: op, Err: err}
}

func (r *Resource[T]) observe(op string, start time.Time, errp *error) {
	if r.observer == nil {
		return
	}
	outcome := "ok"
	if err := *errp; err != nil {
		switch {
		case IsStorageFault(err):
			outcome = "fault"
		default:
			outcome = "rejected"
		}
	}
	r.observer.ObserveRecordOp(r.shape.Name, op, outcome, time.Since(start))
}
