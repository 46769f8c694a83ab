package postgres

import (
	"database/sql"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func uuidPtr(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func decimalPtr(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// variantColumn maps an optional variant to its stored form. Variants
// are stored as '' rather than NULL so the cart's unique key sees "no
// color" as a single value and the upsert arbiter always matches.
func variantColumn(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func variantFromColumn(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
