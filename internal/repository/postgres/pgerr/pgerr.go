// Package pgerr maps driver level constraint failures onto plain values the repositories can branch on.
package pgerr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolationCode = "23505"

const sqliteUniqueMarker = "UNIQUE constraint failed: "

// UniqueViolation reports whether err is a unique constraint failure and returns the
// violated constraint: the index name on postgres, "table.column" on sqlite.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName, pgErr.Code == uniqueViolationCode
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	message := err.Error()
	if idx := strings.Index(message, sqliteUniqueMarker); idx >= 0 {
		constraint := message[idx+len(sqliteUniqueMarker):]
		if end := strings.IndexAny(constraint, " ,("); end >= 0 {
			constraint = constraint[:end]
		}
		return constraint, true
	}
	return "", false
}

// IsPostgres reports whether db talks to postgres. Locking helpers degrade to no-ops elsewhere.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() == "postgres"
}

// ForUpdate adds a row lock to query on postgres. sqlite serializes writers on its own.
func ForUpdate(query *gorm.DB) *gorm.DB {
	if IsPostgres(query) {
		return query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

// Like builds a case-insensitive containment condition for column.
func Like(db *gorm.DB, column string) string {
	if IsPostgres(db) {
		return column + " ILIKE ? ESCAPE '\\'"
	}
	return "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '\\'"
}

// Pattern escapes LIKE wildcards in term and wraps it for containment.
func Pattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
