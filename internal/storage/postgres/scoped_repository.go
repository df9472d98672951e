package postgres

import (
	"context"
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/policy"
)

// ScopedRepository stores records of type T whose reads are filtered by a
// visibility rule. Lists and single fetches share the rule, so a row the
// viewer may not read is absent from both.
type ScopedRepository[T any] struct {
	db      *gorm.DB
	log     *log.Logger
	entity  string
	read    policy.Rule[*T]
	preload []string
	// many2many associations replaced on update
	associations []string
	order        string
}

func newScopedRepository[T any](db *gorm.DB, entity string, read policy.Rule[*T], preload ...string) *ScopedRepository[T] {
	return &ScopedRepository[T]{
		db:           db,
		log:          logger.Repository(entity),
		entity:       entity,
		read:         read,
		preload:      preload,
		associations: preload,
		order:        "id",
	}
}

func (r *ScopedRepository[T]) withOrder(order string) *ScopedRepository[T] {
	r.order = order
	return r
}

func (r *ScopedRepository[T]) withAssociations(names ...string) *ScopedRepository[T] {
	r.associations = names
	return r
}

// Create inserts rec. Associated rows are linked, never upserted.
func (r *ScopedRepository[T]) Create(ctx context.Context, rec *T) error {
	r.log.Debug("Creating record", "entity", r.entity)

	tx := r.db.WithContext(ctx)
	if len(r.associations) > 0 {
		// Omit replaces the previous list, so every association goes in one call
		omit := make([]string, len(r.associations))
		for i, a := range r.associations {
			omit[i] = a + ".*"
		}
		tx = tx.Omit(omit...)
	}
	if err := tx.Create(rec).Error; err != nil {
		r.log.Error("Failed to create record", "entity", r.entity, "error", err)
		return translate(err, r.entity)
	}

	r.log.Info("Record created", "entity", r.entity)
	return nil
}

// Get returns the record with the given id if the viewer may read it
func (r *ScopedRepository[T]) Get(ctx context.Context, viewer, id uuid.UUID) (*T, error) {
	return r.GetWith(ctx, r.read, viewer, id)
}

// GetWith is Get under another rule
func (r *ScopedRepository[T]) GetWith(ctx context.Context, rule policy.Rule[*T], viewer, id uuid.UUID) (*T, error) {
	r.log.Debug("Retrieving record", "entity", r.entity, "id", id, "viewer", viewer, "rule", rule)

	var rec T
	query := rule.Scope(viewer)(r.db.WithContext(ctx)).Where(idEquals(id))
	for _, p := range r.preload {
		query = query.Preload(p)
	}
	if err := query.Take(&rec).Error; err != nil {
		err = translate(err, r.entity)
		r.log.Debug("Record not retrieved", "entity", r.entity, "id", id, "error", err)
		return nil, err
	}
	return &rec, nil
}

// Find returns the record with the given id without any visibility rule.
// Callers apply their own decision to the result.
func (r *ScopedRepository[T]) Find(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.GetWith(ctx, policy.Everyone[*T](), uuid.Nil, id)
}

// List returns one page of the records the viewer may read
func (r *ScopedRepository[T]) List(ctx context.Context, viewer uuid.UUID, params PaginationParams) (*PaginatedResult[T], error) {
	return r.ListWith(ctx, r.read, viewer, params)
}

// ListWith is List under another rule
func (r *ScopedRepository[T]) ListWith(ctx context.Context, rule policy.Rule[*T], viewer uuid.UUID, params PaginationParams, filters ...func(*gorm.DB) *gorm.DB) (*PaginatedResult[T], error) {
	r.log.Debug("Listing records", "entity", r.entity, "viewer", viewer, "rule", rule, "page", params.Page)

	query := apply(rule.Scope(viewer)(r.db.Model(new(T))), filters...)
	result, err := paginate[T](ctx, query, params, r.order, r.preload...)
	if err != nil {
		r.log.Error("Failed to list records", "entity", r.entity, "error", err)
		return nil, fmt.Errorf("failed to list %s: %w", r.entity, err)
	}
	return result, nil
}

// Update saves the columns of rec and replaces its many2many associations
func (r *ScopedRepository[T]) Update(ctx context.Context, rec *T) error {
	r.log.Debug("Updating record", "entity", r.entity)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(rec).Error; err != nil {
			return err
		}
		for _, a := range r.associations {
			if err := tx.Model(rec).Association(a).Replace(associationValue(rec, a)); err != nil {
				return fmt.Errorf("failed to replace %s: %w", a, err)
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to update record", "entity", r.entity, "error", err)
		return translate(err, r.entity)
	}

	r.log.Info("Record updated", "entity", r.entity)
	return nil
}

// Delete removes rec
func (r *ScopedRepository[T]) Delete(ctx context.Context, rec *T) error {
	r.log.Debug("Deleting record", "entity", r.entity)

	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(rec).Error; err != nil {
		r.log.Error("Failed to delete record", "entity", r.entity, "error", err)
		return translate(err, r.entity)
	}

	r.log.Info("Record deleted", "entity", r.entity)
	return nil
}

// apply runs the scopes on db right away so later sessions share their conditions
func apply(db *gorm.DB, scopes ...func(*gorm.DB) *gorm.DB) *gorm.DB {
	for _, scope := range scopes {
		db = scope(db)
	}
	return db
}

// associationValue reads the association field named name from rec
func associationValue[T any](rec *T, name string) any {
	return reflect.ValueOf(rec).Elem().FieldByName(name).Interface()
}

func idEquals(id uuid.UUID) clause.Expression {
	return clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Value: id}
}
