package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"foodie/foodie-svc/internal/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const undefinedTable = "42P01"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		customer_id    INTEGER PRIMARY KEY,
		wallet_balance NUMERIC(12,2) NOT NULL CHECK (wallet_balance >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id          UUID PRIMARY KEY,
		seq         BIGSERIAL,
		customer_id INTEGER NOT NULL REFERENCES users(customer_id) ON DELETE CASCADE,
		placed_date TEXT NOT NULL,
		placed_time TEXT NOT NULL,
		grand_total NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name     TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		PRIMARY KEY (order_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS menu_categories (
		position INTEGER PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		category_position INTEGER NOT NULL REFERENCES menu_categories(position) ON DELETE CASCADE,
		position          INTEGER NOT NULL,
		name              TEXT NOT NULL,
		price             NUMERIC(12,2) NOT NULL CHECK (price > 0),
		PRIMARY KEY (category_position, position)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS branches (
		location TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		details  JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS branch_tables (
		location   TEXT NOT NULL REFERENCES branches(location) ON DELETE CASCADE,
		table_type TEXT NOT NULL,
		available  INTEGER NOT NULL CHECK (available >= 0),
		unit_price NUMERIC(12,2) NOT NULL,
		PRIMARY KEY (location, table_type)
	)`,
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

type branchDetails struct {
	Specials          []domain.Special  `json:"specials"`
	OpeningHours      map[string]string `json:"opening_hours"`
	ContactNumber     string            `json:"contact_number"`
	DeliveryAvailable bool              `json:"delivery_available"`
	Rating            float64           `json:"rating"`
	Manager           string            `json:"manager"`
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	return ensureSchema(ctx, r.DB)
}

func ensureSchema(ctx context.Context, db execer) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func isMissingTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == undefinedTable
}

func (r *PostgresRepository) LoadUser(ctx context.Context, customerID int) (*domain.User, error) {
	user := domain.User{CustomerID: customerID, LastOrders: []domain.OrderRecord{}}
	err := r.DB.QueryRowContext(ctx,
		`SELECT wallet_balance FROM users WHERE customer_id = $1`, customerID).
		Scan(&user.WalletBalance)
	switch {
	case isMissingTable(err):
		return nil, domain.ErrStorageMissing
	case errors.Is(err, sql.ErrNoRows):
		return nil, r.missingUser(ctx, customerID)
	case err != nil:
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	orders, err := r.loadOrders(ctx, `WHERE o.customer_id = $1`, customerID)
	if err != nil {
		return nil, err
	}
	user.LastOrders = orders
	return &user, nil
}

// missingUser tells an unknown customer apart from an empty users table.
func (r *PostgresRepository) missingUser(ctx context.Context, customerID int) error {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count == 0 {
		return domain.ErrStorageMissing
	}
	return domain.Errorf(domain.ErrNotFound, "Customer %d not found", customerID)
}

func (r *PostgresRepository) FindOrder(ctx context.Context, customerID int, orderID string) (*domain.OrderRecord, error) {
	orders, err := r.loadOrders(ctx, `WHERE o.customer_id = $1 AND o.id = $2`, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "Order not found")
	}
	return &orders[0], nil
}

func (r *PostgresRepository) loadOrders(ctx context.Context, where string, args ...interface{}) ([]domain.OrderRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.id, o.placed_date, o.placed_time, o.grand_total
		FROM orders o
		`+where+`
		ORDER BY o.seq DESC`, args...)
	if err != nil {
		if isMissingTable(err) {
			return nil, domain.ErrStorageMissing
		}
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.OrderRecord{}
	positions := make(map[string]int)
	for rows.Next() {
		order := domain.OrderRecord{Food: []domain.OrderLine{}}
		if err := rows.Scan(&order.ID, &order.Date, &order.Time, &order.GrandTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		positions[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.DB.QueryContext(ctx, `
		SELECT oi.order_id, oi.name, oi.quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		`+where+`
		ORDER BY oi.order_id, oi.position`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var line domain.OrderLine
		if err := itemRows.Scan(&orderID, &line.Name, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if i, ok := positions[orderID]; ok {
			orders[i].Food = append(orders[i].Food, line)
		}
	}
	return orders, itemRows.Err()
}

func (r *PostgresRepository) LoadMenu(ctx context.Context) (*domain.Menu, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.name, i.name, i.price
		FROM menu_categories c
		JOIN menu_items i ON i.category_position = c.position
		ORDER BY c.position, i.position`)
	if err != nil {
		if isMissingTable(err) {
			return nil, domain.ErrStorageMissing
		}
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	defer rows.Close()

	menu := &domain.Menu{}
	for rows.Next() {
		var categoryName string
		var item domain.MenuItem
		if err := rows.Scan(&categoryName, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		last := len(menu.Categories) - 1
		if last < 0 || menu.Categories[last].Name != categoryName {
			menu.Categories = append(menu.Categories, domain.Category{Name: categoryName})
			last++
		}
		menu.Categories[last].Items = append(menu.Categories[last].Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(menu.Categories) == 0 {
		return nil, domain.ErrStorageMissing
	}

	var vat string
	err = r.DB.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = 'vat_percentage'`).Scan(&vat)
	switch {
	case isMissingTable(err), errors.Is(err, sql.ErrNoRows):
		return nil, domain.ErrStorageMissing
	case err != nil:
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if menu.VATPercentage, err = decimal.NewFromString(vat); err != nil {
		return nil, fmt.Errorf("invalid vat_percentage %q: %w", vat, err)
	}
	return menu, nil
}

func (r *PostgresRepository) LoadBranches(ctx context.Context) ([]domain.Branch, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT location, details FROM branches ORDER BY position`)
	if err != nil {
		if isMissingTable(err) {
			return nil, domain.ErrStorageMissing
		}
		return nil, fmt.Errorf("failed to load branches: %w", err)
	}
	defer rows.Close()

	var branches []domain.Branch
	index := make(map[string]int)
	for rows.Next() {
		var location string
		var raw []byte
		if err := rows.Scan(&location, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		var details branchDetails
		if err := json.Unmarshal(raw, &details); err != nil {
			return nil, fmt.Errorf("invalid details for branch %s: %w", location, err)
		}
		index[location] = len(branches)
		branches = append(branches, domain.Branch{
			Location:          location,
			AvailableTables:   map[string]domain.TableInfo{},
			Specials:          details.Specials,
			OpeningHours:      details.OpeningHours,
			ContactNumber:     details.ContactNumber,
			DeliveryAvailable: details.DeliveryAvailable,
			Rating:            details.Rating,
			Manager:           details.Manager,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, domain.ErrStorageMissing
	}

	tableRows, err := r.DB.QueryContext(ctx, `SELECT location, table_type, available, unit_price FROM branch_tables`)
	if err != nil {
		if isMissingTable(err) {
			return nil, domain.ErrStorageMissing
		}
		return nil, fmt.Errorf("failed to load branch tables: %w", err)
	}
	defer tableRows.Close()

	for tableRows.Next() {
		var location, tableType string
		var info domain.TableInfo
		if err := tableRows.Scan(&location, &tableType, &info.Number, &info.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan branch table: %w", err)
		}
		if i, ok := index[location]; ok {
			branches[i].AvailableTables[tableType] = info
		}
	}
	return branches, tableRows.Err()
}

func (r *PostgresRepository) CommitOrder(ctx context.Context, customerID int, order domain.OrderRecord) (decimal.Decimal, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	balance, err := debit(ctx, tx, customerID, order.GrandTotal)
	if err != nil {
		return decimal.Zero, err
	}
	if err := insertOrder(ctx, tx, customerID, order); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit order: %w", err)
	}
	return balance, nil
}

func (r *PostgresRepository) CommitBooking(ctx context.Context, customerID int, location, tableType string, price decimal.Decimal) (int, decimal.Decimal, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, decimal.Zero, err
	}
	defer tx.Rollback()

	var remaining int
	err = tx.QueryRowContext(ctx, `
		UPDATE branch_tables
		SET available = available - 1
		WHERE location = $1 AND table_type = $2 AND available > 0
		RETURNING available`, location, tableType).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, decimal.Zero, domain.Errorf(domain.ErrUnavailable, "No tables available for %s at %s.", tableType, domain.TitleCase(location))
	}
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to reserve table: %w", err)
	}

	balance, err := debit(ctx, tx, customerID, price)
	if err != nil {
		return 0, decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to commit booking: %w", err)
	}
	return remaining, balance, nil
}

func (r *PostgresRepository) CreditWallet(ctx context.Context, customerID int, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.DB.QueryRowContext(ctx, `
		UPDATE users
		SET wallet_balance = wallet_balance + $2
		WHERE customer_id = $1
		RETURNING wallet_balance`, customerID, amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, domain.Errorf(domain.ErrNotFound, "Customer %d not found", customerID)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit wallet: %w", err)
	}
	return balance, nil
}

// debit subtracts amount only when the balance covers it, so concurrent
// commits for one customer cannot overdraw the wallet.
func debit(ctx context.Context, tx *sql.Tx, customerID int, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx, `
		UPDATE users
		SET wallet_balance = wallet_balance - $2
		WHERE customer_id = $1 AND wallet_balance >= $2
		RETURNING wallet_balance`, customerID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("failed to debit wallet: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE customer_id = $1)`, customerID).Scan(&exists); err != nil {
		return decimal.Zero, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return decimal.Zero, domain.Errorf(domain.ErrNotFound, "Customer %d not found", customerID)
	}
	return decimal.Zero, domain.Errorf(domain.ErrInsufficientFunds, "Insufficient wallet balance.")
}

func insertOrder(ctx context.Context, ex execer, customerID int, order domain.OrderRecord) error {
	if _, err := ex.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, placed_date, placed_time, grand_total)
		VALUES ($1, $2, $3, $4, $5)`,
		order.ID, customerID, order.Date, order.Time, order.GrandTotal); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	for i, line := range order.Food {
		if _, err := ex.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, name, quantity)
			VALUES ($1, $2, $3, $4)`,
			order.ID, i, line.Name, line.Quantity); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

// ReplaceAll recreates the schema if needed and overwrites every table with
// the seed, all in one transaction.
func (r *PostgresRepository) ReplaceAll(ctx context.Context, seed *domain.Seed) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := ensureSchema(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		TRUNCATE order_items, orders, users, menu_items, menu_categories, settings, branch_tables, branches`); err != nil {
		return fmt.Errorf("failed to truncate: %w", err)
	}

	for _, user := range seed.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (customer_id, wallet_balance) VALUES ($1, $2)`,
			user.CustomerID, user.WalletBalance); err != nil {
			return fmt.Errorf("failed to seed user %d: %w", user.CustomerID, err)
		}
		// Oldest first so seq order matches the newest-first history.
		for i := len(user.LastOrders) - 1; i >= 0; i-- {
			if err := insertOrder(ctx, tx, user.CustomerID, user.LastOrders[i]); err != nil {
				return err
			}
		}
	}

	for c, category := range seed.Menu.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO menu_categories (position, name) VALUES ($1, $2)`, c, category.Name); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
		for i, item := range category.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO menu_items (category_position, position, name, price) VALUES ($1, $2, $3, $4)`,
				c, i, item.Name, item.Price); err != nil {
				return fmt.Errorf("failed to seed menu item %s: %w", item.Name, err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ('vat_percentage', $1)`, seed.Menu.VATPercentage.String()); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	for p, branch := range seed.Branches {
		details, err := json.Marshal(branchDetails{
			Specials:          branch.Specials,
			OpeningHours:      branch.OpeningHours,
			ContactNumber:     branch.ContactNumber,
			DeliveryAvailable: branch.DeliveryAvailable,
			Rating:            branch.Rating,
			Manager:           branch.Manager,
		})
		if err != nil {
			return err
		}
		location := domain.NormalizeName(branch.Location)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO branches (location, position, details) VALUES ($1, $2, $3)`,
			location, p, details); err != nil {
			return fmt.Errorf("failed to seed branch %s: %w", location, err)
		}

		tableTypes := make([]string, 0, len(branch.AvailableTables))
		for t := range branch.AvailableTables {
			tableTypes = append(tableTypes, t)
		}
		sort.Strings(tableTypes)
		for _, t := range tableTypes {
			info := branch.AvailableTables[t]
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO branch_tables (location, table_type, available, unit_price) VALUES ($1, $2, $3, $4)`,
				location, t, info.Number, info.UnitPrice); err != nil {
				return fmt.Errorf("failed to seed table %s/%s: %w", location, t, err)
			}
		}
	}

	return tx.Commit()
}
