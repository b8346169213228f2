package records

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/yungbote/microservice-production/internal/pkg/dbctx"
	"github.com/yungbote/microservice-production/internal/platform/logger"
	"github.com/yungbote/microservice-production/internal/resource"
)

// RecordRepo is the gorm storage collaborator for one record type.
type RecordRepo[T any] interface {
	resource.Store[T]
}

type recordRepo[T any] struct {
	db  *gorm.DB
	log *logger.Logger

	schemaOnce sync.Once
	schema     *schema.Schema
	schemaErr  error
}

func NewRecordRepo[T any](db *gorm.DB, baseLog *logger.Logger, name string) RecordRepo[T] {
	return &recordRepo[T]{
		db:  db,
		log: baseLog.With("repo", name+"Repo"),
	}
}

func (r *recordRepo[T]) Save(dbc dbctx.Context, rec *T) (*T, error) {
	if err := dbc.Conn(r.db).Save(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recordRepo[T]) FindByID(dbc dbctx.Context, id int64) (*T, error) {
	var out T
	res := dbc.Conn(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (r *recordRepo[T]) ExistsByID(dbc dbctx.Context, id int64) (bool, error) {
	var count int64
	if err := dbc.Conn(r.db).
		Model(new(T)).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recordRepo[T]) FindAll(dbc dbctx.Context, req resource.PageRequest) (resource.Page[T], error) {
	orders, err := r.orderBy(req.Sort)
	if err != nil {
		return resource.Page[T]{}, err
	}

	var total int64
	if err := dbc.Conn(r.db).Model(new(T)).Count(&total).Error; err != nil {
		return resource.Page[T]{}, err
	}

	items := []*T{}
	q := dbc.Conn(r.db).Model(new(T))
	for _, o := range orders {
		q = q.Order(o)
	}
	if err := q.Offset(req.Offset()).Limit(req.Size).Find(&items).Error; err != nil {
		return resource.Page[T]{}, err
	}

	return resource.Page[T]{
		Items:         items,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    resource.TotalPages(total, req.Size),
	}, nil
}

func (r *recordRepo[T]) DeleteByID(dbc dbctx.Context, id int64) error {
	res := dbc.Conn(r.db).
		Where("id = ?", id).
		Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Debug("DeleteByID: no record", "id", id)
	}
	return nil
}

// orderBy resolves sort properties against the model's columns. The primary key is
// appended as a tie breaker so pages stay stable.
func (r *recordRepo[T]) orderBy(sort []resource.SortOrder) ([]clause.OrderByColumn, error) {
	sch, err := r.modelSchema()
	if err != nil {
		return nil, err
	}
	out := make([]clause.OrderByColumn, 0, len(sort)+1)
	seenID := false
	for _, o := range sort {
		field := sch.LookUpField(o.Property)
		if field == nil || field.DBName == "" {
			return nil, fmt.Errorf("%w: %q", resource.ErrInvalidSort, o.Property)
		}
		if field.PrimaryKey {
			seenID = true
		}
		out = append(out, clause.OrderByColumn{
			Column: clause.Column{Name: field.DBName},
			Desc:   o.Direction == resource.Desc,
		})
	}
	if !seenID && sch.PrioritizedPrimaryField != nil {
		out = append(out, clause.OrderByColumn{Column: clause.Column{Name: sch.PrioritizedPrimaryField.DBName}})
	}
	return out, nil
}

func (r *recordRepo[T]) modelSchema() (*schema.Schema, error) {
	r.schemaOnce.Do(func() {
		stmt := &gorm.Statement{DB: r.db}
		if err := stmt.Parse(new(T)); err != nil {
			r.schemaErr = fmt.Errorf("parse model schema: %w", err)
			return
		}
		r.schema = stmt.Schema
	})
	return r.schema, r.schemaErr
}
