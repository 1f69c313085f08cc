package database

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"deadstock/apperrors"
	"deadstock/logging"
	"deadstock/models"
	"deadstock/utils"
)

const uniqueViolation = "23505"

// Ledger persists shopkeepers, their products and every stock movement.
type Ledger struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool, now: time.Now}
}

// WithClock replaces the clock used for generated SKUs and snapshots.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Ping reports whether the pool can reach the database.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.pool.Ping(ctx)
}

// RegisterShopkeeper stores a new shopkeeper with a bcrypt password hash.
func (l *Ledger) RegisterShopkeeper(ctx context.Context, req models.RegisterShopkeeperRequest) (*models.Shopkeeper, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err, "Could not process password")
	}

	query := `
		INSERT INTO shopkeepers (user_id, shop_name, email, phone, location, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id, shop_name, email, phone, location, role, created_at
	`

	var s models.Shopkeeper
	var phone pgtype.Text
	err = l.pool.QueryRow(ctx, query,
		req.UserID, req.ShopName, strings.ToLower(req.Email), req.Phone, req.Location, string(hashedPassword), utils.RoleShopkeeper,
	).Scan(&s.UserID, &s.ShopName, &s.Email, &phone, &s.Location, &s.Role, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("User ID or email already exists")
		}
		return nil, apperrors.Internal(err, "Could not create shopkeeper")
	}
	s.Phone = utils.PointerToString(utils.TextToStringPtr(phone))

	logging.Info().Str("user_id", s.UserID).Msg("[LEDGER] shopkeeper registered")
	return &s, nil
}

// Authenticate checks a shopkeeper's credentials.
func (l *Ledger) Authenticate(ctx context.Context, userID, password string) (*models.Shopkeeper, error) {
	query := `
		SELECT user_id, shop_name, email, phone, location, role, created_at, password_hash
		FROM shopkeepers
		WHERE user_id = $1
	`

	var s models.Shopkeeper
	var phone pgtype.Text
	var passwordHash string
	err := l.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.ShopName, &s.Email, &phone, &s.Location, &s.Role, &s.CreatedAt, &passwordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
		return nil, apperrors.Internal(err, "Database error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	s.Phone = utils.PointerToString(utils.TextToStringPtr(phone))
	return &s, nil
}

// AddProduct inserts a product together with its initial_stock event.
func (l *Ledger) AddProduct(ctx context.Context, userID string, req models.AddProductRequest) (*models.TrackedProduct, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "Could not start transaction")
	}
	defer tx.Rollback(ctx)

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		sku, err = utils.GenerateSKU(ctx, tx, userID, l.now())
		if err != nil {
			return nil, apperrors.Internal(err, "Could not generate SKU")
		}
	}

	query := `
		INSERT INTO products (user_id, sku, product_name, category, price, initial_quantity, current_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING product_id, sku, product_name, category, price, initial_quantity, current_quantity, date_added
	`

	var p models.TrackedProduct
	err = tx.QueryRow(ctx, query, userID, sku, req.ProductName, req.Category, req.Price, req.InitialQuantity).Scan(
		&p.ProductID, &p.SKU, &p.ProductName, &p.Category, &p.Price, &p.InitialQuantity, &p.CurrentQuantity, &p.DateAdded,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("SKU already exists for this user")
		}
		return nil, apperrors.Internal(err, "Could not add product")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO sale_events (product_id, user_id, event_type, quantity_changed, remaining_quantity, notes)
		VALUES ($1, $2, $3, $4, $4, $5)
	`, p.ProductID, userID, models.EventInitialStock, p.InitialQuantity, "Initial stock entry")
	if err != nil {
		return nil, apperrors.Internal(err, "Could not record initial stock")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Internal(err, "Could not commit product")
	}

	logging.Info().Str("user_id", userID).Str("sku", p.SKU).Int("quantity", p.InitialQuantity).Msg("[LEDGER] product added")
	return &p, nil
}

// RecordEvent applies a sale, restock or adjustment to a product's stock.
func (l *Ledger) RecordEvent(ctx context.Context, userID string, req models.SaleEventRequest) (*models.EventOutcome, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "Could not start transaction")
	}
	defer tx.Rollback(ctx)

	var productID int64
	var current int
	err = tx.QueryRow(ctx, `
		SELECT product_id, current_quantity
		FROM products
		WHERE user_id = $1 AND sku = $2
		FOR UPDATE
	`, userID, req.SKU).Scan(&productID, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, apperrors.Internal(err, "Database error")
	}

	outcome, err := applyEvent(current, req)
	if err != nil {
		return nil, err
	}

	var notes *string
	if n := strings.TrimSpace(req.Notes); n != "" {
		notes = &n
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO sale_events (product_id, user_id, event_type, quantity_changed,
		                         price_per_unit, total_amount, remaining_quantity, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, productID, userID, outcome.EventType, outcome.Delta, req.PricePerUnit, outcome.TotalAmount, outcome.NewQuantity, notes)
	if err != nil {
		return nil, apperrors.Internal(err, "Could not record event")
	}

	if _, err := tx.Exec(ctx, `UPDATE products SET current_quantity = $1 WHERE product_id = $2`, outcome.NewQuantity, productID); err != nil {
		return nil, apperrors.Internal(err, "Could not update stock")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Internal(err, "Could not commit event")
	}

	logging.Info().Str("user_id", userID).Str("sku", req.SKU).Str("event", outcome.EventType).
		Int("new_quantity", outcome.NewQuantity).Msg("[LEDGER] event recorded")
	return outcome, nil
}

// applyEvent computes the stock movement of req against the current quantity.
func applyEvent(current int, req models.SaleEventRequest) (*models.EventOutcome, error) {
	delta := req.QuantityChanged
	switch req.EventType {
	case models.EventSale:
		delta = -abs(delta)
	case models.EventRestock:
		delta = abs(delta)
	case models.EventAdjustment:
	default:
		return nil, apperrors.InputValidation("event_type", "event_type must be one of sale, restock, adjustment")
	}
	if delta == 0 {
		return nil, apperrors.InputValidation("quantity_changed", "quantity_changed must not be zero")
	}

	newQuantity := current + delta
	if newQuantity < 0 {
		return nil, apperrors.InputValidation("quantity_changed", "Insufficient stock")
	}

	out := &models.EventOutcome{
		SKU:         req.SKU,
		EventType:   req.EventType,
		Delta:       delta,
		NewQuantity: newQuantity,
	}
	if req.PricePerUnit != nil && *req.PricePerUnit > 0 {
		total := utils.Round2(float64(abs(delta)) * *req.PricePerUnit)
		out.TotalAmount = &total
	}
	return out, nil
}

// ListProducts returns one page of the shopkeeper's products, newest first.
func (l *Ledger) ListProducts(ctx context.Context, userID string, page, pageSize int) ([]models.TrackedProduct, *utils.Pagination, error) {
	var total int
	if err := l.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, nil, apperrors.Internal(err, "Could not count products")
	}
	pagination := utils.CreatePagination(total, page, pageSize)

	rows, err := l.pool.Query(ctx, `
		SELECT product_id, sku, product_name, category, price, initial_quantity, current_quantity, date_added
		FROM products
		WHERE user_id = $1
		ORDER BY date_added DESC, product_id DESC
		LIMIT $2 OFFSET $3
	`, userID, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, nil, apperrors.Internal(err, "Could not list products")
	}
	defer rows.Close()

	products := []models.TrackedProduct{}
	for rows.Next() {
		var p models.TrackedProduct
		if err := rows.Scan(&p.ProductID, &p.SKU, &p.ProductName, &p.Category, &p.Price,
			&p.InitialQuantity, &p.CurrentQuantity, &p.DateAdded); err != nil {
			return nil, nil, apperrors.Internal(err, "Could not read product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.Internal(err, "Could not list products")
	}
	return products, pagination, nil
}

// History returns the shopkeeper's events matching f, newest first.
func (l *Ledger) History(ctx context.Context, userID string, f models.HistoryFilter) ([]models.HistoryEntry, error) {
	query, args := historyQuery(userID, f)
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Internal(err, "Could not load history")
	}
	defer rows.Close()

	history := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		var notes pgtype.Text
		if err := rows.Scan(&e.SKU, &e.ProductName, &e.Category, &e.EventType, &e.QuantityChanged,
			&e.PricePerUnit, &e.TotalAmount, &e.RemainingQuantity, &e.EventDate, &notes); err != nil {
			return nil, apperrors.Internal(err, "Could not read history")
		}
		e.Notes = utils.TextToStringPtr(notes)
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal(err, "Could not load history")
	}
	return history, nil
}

func historyQuery(userID string, f models.HistoryFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`
		SELECT p.sku, p.product_name, p.category, se.event_type, se.quantity_changed,
		       se.price_per_unit, se.total_amount, se.remaining_quantity, se.event_date, se.notes
		FROM sale_events se
		JOIN products p ON se.product_id = p.product_id
		WHERE se.user_id = $1`)
	args := []any{userID}

	if f.SKU != "" {
		args = append(args, f.SKU)
		fmt.Fprintf(&b, " AND p.sku = $%d", len(args))
	}
	if f.Start != nil {
		args = append(args, *f.Start)
		fmt.Fprintf(&b, " AND se.event_date >= $%d", len(args))
	}
	if f.End != nil {
		args = append(args, *f.End)
		fmt.Fprintf(&b, " AND se.event_date <= $%d", len(args))
	}
	b.WriteString(" ORDER BY se.event_date DESC, se.event_id DESC")
	return b.String(), args
}

// Stats summarises the shopkeeper's ledger.
func (l *Ledger) Stats(ctx context.Context, userID string) (*models.LedgerStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE user_id = $1),
			(SELECT COALESCE(SUM(total_amount), 0) FROM sale_events WHERE user_id = $1 AND event_type = 'sale'),
			(SELECT COALESCE(SUM(ABS(quantity_changed)), 0) FROM sale_events WHERE user_id = $1 AND event_type = 'sale'),
			(SELECT COALESCE(SUM(current_quantity), 0) FROM products WHERE user_id = $1)
	`

	var s models.LedgerStats
	if err := l.pool.QueryRow(ctx, query, userID).Scan(
		&s.TotalProducts, &s.TotalSalesValue, &s.TotalItemsSold, &s.CurrentInventoryCount,
	); err != nil {
		return nil, apperrors.Internal(err, "Could not compute stats")
	}
	s.TotalSalesValue = utils.Round2(s.TotalSalesValue)
	return &s, nil
}

// Snapshot turns a persisted product into an analysis input.
func (l *Ledger) Snapshot(ctx context.Context, userID, sku string) (*models.ProductInput, error) {
	query := `
		SELECT p.sku, p.product_name, p.category, p.price, p.current_quantity, p.date_added, s.location,
		       COALESCE(SUM(ABS(se.quantity_changed)) FILTER (WHERE se.event_type = 'sale'), 0)
		FROM products p
		JOIN shopkeepers s ON s.user_id = p.user_id
		LEFT JOIN sale_events se ON se.product_id = p.product_id
		WHERE p.user_id = $1 AND p.sku = $2
		GROUP BY p.product_id, s.location
	`

	var p models.TrackedProduct
	var location string
	var sold int
	err := l.pool.QueryRow(ctx, query, userID, sku).Scan(
		&p.SKU, &p.ProductName, &p.Category, &p.Price, &p.CurrentQuantity, &p.DateAdded, &location, &sold,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, apperrors.Internal(err, "Database error")
	}

	in := snapshotInput(p, sold, location, l.now())
	return &in, nil
}

// snapshotInput derives days in stock from date_added and velocity as units sold per day.
func snapshotInput(p models.TrackedProduct, sold int, location string, now time.Time) models.ProductInput {
	days := int(now.Sub(p.DateAdded).Hours() / 24)
	if days < 0 {
		days = 0
	}
	velocity := float64(sold) / float64(max(days, 1))

	return models.ProductInput{
		Name:          p.ProductName,
		Category:      p.Category,
		SKU:           p.SKU,
		Price:         p.Price,
		StockQuantity: p.CurrentQuantity,
		DaysInStock:   days,
		SalesVelocity: utils.Round2(velocity),
		Location:      strings.ToLower(strings.TrimSpace(location)),
	}
}

var historyCSVHeader = []string{
	"sku", "product_name", "category", "event_type", "quantity_changed",
	"price_per_unit", "total_amount", "remaining_quantity", "event_date", "notes",
}

// WriteHistoryCSV writes history entries as CSV with a header row.
func WriteHistoryCSV(w io.Writer, history []models.HistoryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyCSVHeader); err != nil {
		return err
	}
	for _, e := range history {
		record := []string{
			e.SKU,
			e.ProductName,
			e.Category,
			e.EventType,
			strconv.Itoa(e.QuantityChanged),
			utils.FloatPointerToString(e.PricePerUnit),
			utils.FloatPointerToString(e.TotalAmount),
			strconv.Itoa(e.RemainingQuantity),
			e.EventDate.UTC().Format(time.RFC3339),
			utils.PointerToString(e.Notes),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
