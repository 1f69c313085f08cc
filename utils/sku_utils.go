package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// RowQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GenerateSKU generates the next SKU for a shopkeeper in the format SKU-YYYY-NNNN
// where YYYY is the current year and NNNN is a sequential number.
func GenerateSKU(ctx context.Context, db RowQuerier, userID string, now time.Time) (string, error) {
	prefix := SKUPrefix(now)

	query := `
		SELECT sku
		FROM products
		WHERE user_id = $1 AND sku LIKE $2
		ORDER BY sku DESC
		LIMIT 1
	`

	var lastSKU string
	err := db.QueryRow(ctx, query, userID, prefix+"%").Scan(&lastSKU)
	if err != nil {
		// No SKU exists for this year yet: start at 0001.
		if errors.Is(err, pgx.ErrNoRows) {
			return NextSKU(prefix, ""), nil
		}
		return "", fmt.Errorf("failed to query last sku: %w", err)
	}
	return NextSKU(prefix, lastSKU), nil
}

// SKUPrefix is the year prefix of generated SKUs.
func SKUPrefix(now time.Time) string {
	return fmt.Sprintf("SKU-%d-", now.Year())
}

// NextSKU increments the sequence of last. An empty or foreign last starts a fresh sequence.
func NextSKU(prefix, last string) string {
	var lastSeq int
	if _, err := fmt.Sscanf(last, prefix+"%d", &lastSeq); err != nil {
		return fmt.Sprintf("%s%04d", prefix, 1)
	}
	return fmt.Sprintf("%s%04d", prefix, lastSeq+1)
}
