// Package localstore persists the anonymous browsing cart in a local SQLite
// database under the app config directory. It is the durable-storage analog
// of the legacy local cart: never authoritative, read only when no identity
// exists, and wiped on login so it cannot diverge from the server cart.
package localstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"trolley/internal/logging"
)

// Item is one locally stashed cart line.
type Item struct {
	ProductID     int64
	Name          string
	UnitPrice     float64
	OriginalPrice float64
	Quantity      int
	StockQuantity int
}

// Store wraps the SQLite handle.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the local store at dbPath, creating the directory
// and schema as needed.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify database connection: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Store("local store opened at %s", dbPath)
	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS anonymous_cart (
		product_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		unit_price REAL NOT NULL,
		original_price REAL NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		stock_quantity INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create anonymous_cart table: %w", err)
	}
	return nil
}

// Items returns every stashed line.
func (s *Store) Items() ([]Item, error) {
	timer := logging.StartTimer(logging.CategoryStore, "localstore.Items")
	defer timer.Stop()

	rows, err := s.db.Query(`
		SELECT product_id, name, unit_price, original_price, quantity, stock_quantity
		FROM anonymous_cart`)
	if err != nil {
		return nil, fmt.Errorf("failed to query local cart: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.UnitPrice, &it.OriginalPrice, &it.Quantity, &it.StockQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan local cart row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Upsert inserts or replaces one line.
func (s *Store) Upsert(it Item) error {
	if it.Quantity <= 0 {
		return s.Delete(it.ProductID)
	}
	_, err := s.db.Exec(`
		INSERT INTO anonymous_cart (product_id, name, unit_price, original_price, quantity, stock_quantity, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(product_id) DO UPDATE SET
			name = excluded.name,
			unit_price = excluded.unit_price,
			original_price = excluded.original_price,
			quantity = excluded.quantity,
			stock_quantity = excluded.stock_quantity,
			updated_at = CURRENT_TIMESTAMP`,
		it.ProductID, it.Name, it.UnitPrice, it.OriginalPrice, it.Quantity, it.StockQuantity)
	if err != nil {
		return fmt.Errorf("failed to upsert local cart line: %w", err)
	}
	return nil
}

// Delete removes one line.
func (s *Store) Delete(productID int64) error {
	if _, err := s.db.Exec(`DELETE FROM anonymous_cart WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("failed to delete local cart line: %w", err)
	}
	return nil
}

// Clear removes every line. Called after login.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM anonymous_cart`); err != nil {
		return fmt.Errorf("failed to clear local cart: %w", err)
	}
	logging.Store("local cart cleared")
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
