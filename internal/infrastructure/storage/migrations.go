package storage

import (
	"database/sql"
	"fmt"
)

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migration001InitialSchema,
	},
	{
		Version: 2,
		Name:    "add_allocation_tables",
		Up:      migration002AddAllocationTables,
	},
	{
		Version: 3,
		Name:    "add_reconciliation_tables",
		Up:      migration003AddReconciliationTables,
	},
}

// runMigrations executes all pending migrations
func (s *SQLiteStore) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES (?, ?)
		`, migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table
func (s *SQLiteStore) ensureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := s.db.Exec(query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions
func (s *SQLiteStore) getAppliedMigrations() (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// migration001InitialSchema creates the order, processing, account,
// bank record and entry tables. Money columns are TEXT holding exact
// decimal strings; REAL would silently corrupt cents.
func migration001InitialSchema(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS processing_orders (
			id TEXT PRIMARY KEY,
			order_number TEXT UNIQUE NOT NULL,
			customer_id TEXT NOT NULL,
			order_date TIMESTAMP NOT NULL,
			product_name TEXT NOT NULL,
			pricing_unit TEXT NOT NULL,
			quantity TEXT NOT NULL,
			unit_price TEXT NOT NULL,
			total_amount TEXT NOT NULL,
			status TEXT NOT NULL,
			received_amount TEXT NOT NULL DEFAULT '0',
			outsourced_cost TEXT NOT NULL DEFAULT '0',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_orders_customer
		 ON processing_orders(customer_id)`,

		`CREATE INDEX IF NOT EXISTS idx_orders_date
		 ON processing_orders(order_date DESC)`,

		`CREATE INDEX IF NOT EXISTS idx_orders_status
		 ON processing_orders(status)`,

		`CREATE TABLE IF NOT EXISTS outsourced_processing (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			supplier_id TEXT NOT NULL,
			process_type TEXT NOT NULL,
			process_date TIMESTAMP NOT NULL,
			quantity TEXT NOT NULL,
			unit_price TEXT NOT NULL,
			total_cost TEXT NOT NULL,
			paid_amount TEXT NOT NULL DEFAULT '0',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			FOREIGN KEY (order_id) REFERENCES processing_orders(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_processing_order
		 ON outsourced_processing(order_id)`,

		`CREATE INDEX IF NOT EXISTS idx_processing_supplier
		 ON outsourced_processing(supplier_id)`,

		`CREATE TABLE IF NOT EXISTS bank_accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			account_number TEXT NOT NULL DEFAULT '',
			account_type TEXT NOT NULL,
			has_invoice BOOLEAN NOT NULL DEFAULT 0,
			balance TEXT NOT NULL DEFAULT '0',
			description TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS bank_records (
			id TEXT PRIMARY KEY,
			transaction_date TIMESTAMP NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL,
			balance TEXT NOT NULL DEFAULT '0',
			transaction_type TEXT NOT NULL,
			counterparty TEXT NOT NULL DEFAULT '',
			bank_account_id TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bank_records_account
		 ON bank_records(bank_account_id)`,

		`CREATE INDEX IF NOT EXISTS idx_bank_records_date
		 ON bank_records(transaction_date)`,

		`CREATE TABLE IF NOT EXISTS transaction_records (
			id TEXT PRIMARY KEY,
			date TIMESTAMP NOT NULL,
			type TEXT NOT NULL,
			amount TEXT NOT NULL,
			counterparty_id TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			bank_account_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_type
		 ON transaction_records(type)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_date
		 ON transaction_records(date)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// migration002AddAllocationTables creates the payment allocation table.
// Rows are append-only; there is no update path.
func migration002AddAllocationTables(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payment_allocations (
			id TEXT PRIMARY KEY,
			payment_id TEXT NOT NULL,
			obligation_id TEXT NOT NULL,
			allocated_amount TEXT NOT NULL,
			allocation_date TIMESTAMP NOT NULL,
			FOREIGN KEY (payment_id) REFERENCES transaction_records(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_allocations_payment
		 ON payment_allocations(payment_id)`,

		`CREATE INDEX IF NOT EXISTS idx_allocations_obligation
		 ON payment_allocations(obligation_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// migration003AddReconciliationTables creates the match table. The id
// lists are stored as JSON arrays since sqlite has no array type and
// the lists are only ever read whole.
func migration003AddReconciliationTables(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reconciliation_matches (
			id TEXT PRIMARY KEY,
			match_date TIMESTAMP NOT NULL,
			bank_record_ids TEXT NOT NULL,
			order_ids TEXT NOT NULL,
			total_bank_amount TEXT NOT NULL,
			total_order_amount TEXT NOT NULL,
			difference TEXT NOT NULL,
			match_type TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_matches_date
		 ON reconciliation_matches(match_date)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
