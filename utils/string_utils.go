package utils

import (
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// TextToStringPtr converts a nullable text column to a *string.
func TextToStringPtr(t pgtype.Text) *string {
	if t.Valid {
		return &t.String
	}
	return nil
}

// PointerToString dereferences p, returning "" for nil.
func PointerToString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// FloatPointerToString formats an optional amount with two decimals, "" for nil.
func FloatPointerToString(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}
