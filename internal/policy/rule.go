// Package policy holds the read and write rules of every resource.
//
// A Rule is evaluated two ways: in memory against a loaded record, and as a
// WHERE condition for queries. Both forms are built together so a list query
// never returns, or counts, a row that a single fetch would refuse.
package policy

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rule is a predicate over a viewer and a record of type T
type Rule[T any] struct {
	name  string
	match func(viewer uuid.UUID, rec T) bool
	where func(viewer uuid.UUID) clause.Expression
}

// New creates a rule from its in-memory and SQL forms
func New[T any](name string, match func(uuid.UUID, T) bool, where func(uuid.UUID) clause.Expression) Rule[T] {
	return Rule[T]{name: name, match: match, where: where}
}

func (r Rule[T]) String() string {
	return r.name
}

// Allows evaluates the rule against a loaded record
func (r Rule[T]) Allows(viewer uuid.UUID, rec T) bool {
	return r.match(viewer, rec)
}

// Expr renders the rule as a WHERE condition for the given viewer
func (r Rule[T]) Expr(viewer uuid.UUID) clause.Expression {
	return r.where(viewer)
}

// Scope returns a gorm scope restricting a query to rows the viewer passes
func (r Rule[T]) Scope(viewer uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(r.Expr(viewer))
	}
}

// Or passes when any of the rules passes
func Or[T any](rules ...Rule[T]) Rule[T] {
	return Rule[T]{
		name: joinNames("or", rules),
		match: func(viewer uuid.UUID, rec T) bool {
			for _, r := range rules {
				if r.match(viewer, rec) {
					return true
				}
			}
			return false
		},
		where: func(viewer uuid.UUID) clause.Expression {
			return clause.Or(exprs(viewer, rules)...)
		},
	}
}

// And passes when every rule passes
func And[T any](rules ...Rule[T]) Rule[T] {
	return Rule[T]{
		name: joinNames("and", rules),
		match: func(viewer uuid.UUID, rec T) bool {
			for _, r := range rules {
				if !r.match(viewer, rec) {
					return false
				}
			}
			return true
		},
		where: func(viewer uuid.UUID) clause.Expression {
			return clause.And(exprs(viewer, rules)...)
		},
	}
}

// Not inverts a rule
func Not[T any](rule Rule[T]) Rule[T] {
	return Rule[T]{
		name: "not(" + rule.name + ")",
		match: func(viewer uuid.UUID, rec T) bool {
			return !rule.match(viewer, rec)
		},
		where: func(viewer uuid.UUID) clause.Expression {
			return clause.Not(rule.where(viewer))
		},
	}
}

// Everyone passes for any viewer
func Everyone[T any]() Rule[T] {
	return Rule[T]{
		name:  "everyone",
		match: func(uuid.UUID, T) bool { return true },
		where: func(uuid.UUID) clause.Expression { return clause.Expr{SQL: "TRUE"} },
	}
}

// Nobody never passes
func Nobody[T any]() Rule[T] {
	return Rule[T]{
		name:  "nobody",
		match: func(uuid.UUID, T) bool { return false },
		where: func(uuid.UUID) clause.Expression { return clause.Expr{SQL: "FALSE"} },
	}
}

// column qualifies a column with the table of the current statement
func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func exprs[T any](viewer uuid.UUID, rules []Rule[T]) []clause.Expression {
	out := make([]clause.Expression, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.where(viewer))
	}
	return out
}

func joinNames[T any](op string, rules []Rule[T]) string {
	name := op + "("
	for i, r := range rules {
		if i > 0 {
			name += ", "
		}
		name += r.name
	}
	return name + ")"
}
