package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

// SQLiteStore is the durable Repository implementation backed by a
// single sqlite database file.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements Repository
var _ Repository = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and runs all
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// execer abstracts *sql.DB and *sql.Tx so the save helpers can run
// standalone or inside a transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func parseDec(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// ---- orders ----

const orderColumns = `id, order_number, customer_id, order_date, product_name,
	pricing_unit, quantity, unit_price, total_amount, status,
	received_amount, outsourced_cost, notes, created_at, updated_at`

// saveOrderTx upserts on id. A duplicate order_number on a different
// row violates the unique index and surfaces as an error instead of
// silently replacing the existing order.
func saveOrderTx(ex execer, o *model.ProcessingOrder) error {
	query := `
	INSERT INTO processing_orders
	(` + orderColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		order_number = excluded.order_number,
		customer_id = excluded.customer_id,
		order_date = excluded.order_date,
		product_name = excluded.product_name,
		pricing_unit = excluded.pricing_unit,
		quantity = excluded.quantity,
		unit_price = excluded.unit_price,
		total_amount = excluded.total_amount,
		status = excluded.status,
		received_amount = excluded.received_amount,
		outsourced_cost = excluded.outsourced_cost,
		notes = excluded.notes,
		updated_at = excluded.updated_at
	`
	_, err := ex.Exec(query,
		o.ID, o.OrderNumber, o.CustomerID, o.OrderDate, o.ProductName,
		string(o.PricingUnit), o.Quantity.String(), o.UnitPrice.String(),
		o.TotalAmount.String(), string(o.Status), o.ReceivedAmount.String(),
		o.OutsourcedCost.String(), o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func scanOrder(row scanner) (*model.ProcessingOrder, error) {
	o := &model.ProcessingOrder{}
	var unit, status string
	var quantity, unitPrice, total, received, outsourced string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.OrderDate, &o.ProductName,
		&unit, &quantity, &unitPrice, &total, &status,
		&received, &outsourced, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.PricingUnit = model.PricingUnit(unit)
	o.Status = model.OrderStatus(status)
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&o.Quantity, quantity},
		{&o.UnitPrice, unitPrice},
		{&o.TotalAmount, total},
		{&o.ReceivedAmount, received},
		{&o.OutsourcedCost, outsourced},
	} {
		if *f.dst, err = parseDec(f.src); err != nil {
			return nil, fmt.Errorf("order %s has bad decimal %q: %w", o.ID, f.src, err)
		}
	}
	return o, nil
}

// SaveOrder inserts or updates a processing order.
func (s *SQLiteStore) SaveOrder(order *model.ProcessingOrder) error {
	if err := saveOrderTx(s.db, order); err != nil {
		return &model.PersistenceError{Op: "SaveOrder", Err: err}
	}
	return nil
}

// GetOrder returns the order or (nil, nil) when absent.
func (s *SQLiteStore) GetOrder(id string) (*model.ProcessingOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM processing_orders WHERE id = ?`
	o, err := scanOrder(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "GetOrder", Err: err}
	}
	return o, nil
}

// GetOrderByNumber returns the order or (nil, nil) when absent.
func (s *SQLiteStore) GetOrderByNumber(orderNumber string) (*model.ProcessingOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM processing_orders WHERE order_number = ?`
	o, err := scanOrder(s.db.QueryRow(query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "GetOrderByNumber", Err: err}
	}
	return o, nil
}

// ListOrders returns orders matching the filters, newest first.
func (s *SQLiteStore) ListOrders(filters OrderFilters) ([]*model.ProcessingOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM processing_orders WHERE 1=1`
	var args []any
	if filters.CustomerID != "" {
		query += ` AND customer_id = ?`
		args = append(args, filters.CustomerID)
	}
	if filters.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filters.Status))
	}
	if filters.PricingUnit != "" {
		query += ` AND pricing_unit = ?`
		args = append(args, string(filters.PricingUnit))
	}
	if !filters.From.IsZero() {
		query += ` AND order_date >= ?`
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		query += ` AND order_date <= ?`
		args = append(args, filters.To)
	}
	query += ` ORDER BY order_date DESC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &model.PersistenceError{Op: "ListOrders", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var orders []*model.ProcessingOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, &model.PersistenceError{Op: "ListOrders", Err: err}
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ---- outsourced processing ----

const processingColumns = `id, order_id, supplier_id, process_type, process_date,
	quantity, unit_price, total_cost, paid_amount, notes, created_at, updated_at`

func saveProcessingTx(ex execer, p *model.OutsourcedProcessing) error {
	query := `
	INSERT OR REPLACE INTO outsourced_processing
	(` + processingColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := ex.Exec(query,
		p.ID, p.OrderID, p.SupplierID, string(p.ProcessType), p.ProcessDate,
		p.Quantity.String(), p.UnitPrice.String(), p.TotalCost.String(),
		p.PaidAmount.String(), p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func scanProcessing(row scanner) (*model.OutsourcedProcessing, error) {
	p := &model.OutsourcedProcessing{}
	var processType string
	var quantity, unitPrice, total, paid string
	err := row.Scan(
		&p.ID, &p.OrderID, &p.SupplierID, &processType, &p.ProcessDate,
		&quantity, &unitPrice, &total, &paid, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ProcessType = model.ProcessType(processType)
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&p.Quantity, quantity},
		{&p.UnitPrice, unitPrice},
		{&p.TotalCost, total},
		{&p.PaidAmount, paid},
	} {
		if *f.dst, err = parseDec(f.src); err != nil {
			return nil, fmt.Errorf("processing %s has bad decimal %q: %w", p.ID, f.src, err)
		}
	}
	return p, nil
}

// SaveProcessing inserts or replaces an outsourced processing job.
func (s *SQLiteStore) SaveProcessing(job *model.OutsourcedProcessing) error {
	if err := saveProcessingTx(s.db, job); err != nil {
		return &model.PersistenceError{Op: "SaveProcessing", Err: err}
	}
	return nil
}

// GetProcessing returns the job or (nil, nil) when absent.
func (s *SQLiteStore) GetProcessing(id string) (*model.OutsourcedProcessing, error) {
	query := `SELECT ` + processingColumns + ` FROM outsourced_processing WHERE id = ?`
	p, err := scanProcessing(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "GetProcessing", Err: err}
	}
	return p, nil
}

// ListProcessing returns jobs matching the filters, newest first.
func (s *SQLiteStore) ListProcessing(filters ProcessingFilters) ([]*model.OutsourcedProcessing, error) {
	query := `SELECT ` + processingColumns + ` FROM outsourced_processing WHERE 1=1`
	var args []any
	if filters.OrderID != "" {
		query += ` AND order_id = ?`
		args = append(args, filters.OrderID)
	}
	if filters.SupplierID != "" {
		query += ` AND supplier_id = ?`
		args = append(args, filters.SupplierID)
	}
	if !filters.From.IsZero() {
		query += ` AND process_date >= ?`
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		query += ` AND process_date <= ?`
		args = append(args, filters.To)
	}
	query += ` ORDER BY process_date DESC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &model.PersistenceError{Op: "ListProcessing", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var jobs []*model.OutsourcedProcessing
	for rows.Next() {
		p, err := scanProcessing(rows)
		if err != nil {
			return nil, &model.PersistenceError{Op: "ListProcessing", Err: err}
		}
		jobs = append(jobs, p)
	}
	return jobs, rows.Err()
}

// ApplyProcessingChange writes a job and its owning order in one
// transaction so the order's derived outsourced cost can never drift
// from the job rows it summarizes.
func (s *SQLiteStore) ApplyProcessingChange(job *model.OutsourcedProcessing, order *model.ProcessingOrder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &model.PersistenceError{Op: "ApplyProcessingChange", Err: err}
	}
	if err := saveProcessingTx(tx, job); err != nil {
		_ = tx.Rollback()
		return &model.PersistenceError{Op: "ApplyProcessingChange", Err: err}
	}
	if err := saveOrderTx(tx, order); err != nil {
		_ = tx.Rollback()
		return &model.PersistenceError{Op: "ApplyProcessingChange", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &model.PersistenceError{Op: "ApplyProcessingChange", Err: err}
	}
	return nil
}

// ---- bank accounts ----

func (s *SQLiteStore) SaveBankAccount(account *model.BankAccount) error {
	query := `
	INSERT OR REPLACE INTO bank_accounts
	(id, name, account_number, account_type, has_invoice, balance, description)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		account.ID, account.Name, account.AccountNumber,
		string(account.AccountType), account.HasInvoice,
		account.Balance.String(), account.Description,
	)
	if err != nil {
		return &model.PersistenceError{Op: "SaveBankAccount", Err: err}
	}
	return nil
}

func scanBankAccount(row scanner) (*model.BankAccount, error) {
	a := &model.BankAccount{}
	var accountType, balance string
	err := row.Scan(&a.ID, &a.Name, &a.AccountNumber, &accountType,
		&a.HasInvoice, &balance, &a.Description)
	if err != nil {
		return nil, err
	}
	a.AccountType = model.AccountType(accountType)
	if a.Balance, err = parseDec(balance); err != nil {
		return nil, fmt.Errorf("account %s has bad balance %q: %w", a.ID, balance, err)
	}
	return a, nil
}

func (s *SQLiteStore) GetBankAccount(id string) (*model.BankAccount, error) {
	query := `SELECT id, name, account_number, account_type, has_invoice, balance, description
		FROM bank_accounts WHERE id = ?`
	a, err := scanBankAccount(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "GetBankAccount", Err: err}
	}
	return a, nil
}

func (s *SQLiteStore) ListBankAccounts() ([]*model.BankAccount, error) {
	query := `SELECT id, name, account_number, account_type, has_invoice, balance, description
		FROM bank_accounts ORDER BY name ASC`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, &model.PersistenceError{Op: "ListBankAccounts", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var accounts []*model.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, &model.PersistenceError{Op: "ListBankAccounts", Err: err}
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ---- bank records ----

// SaveBankRecords upserts a batch of bank records in one transaction.
func (s *SQLiteStore) SaveBankRecords(records []model.BankRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &model.PersistenceError{Op: "SaveBankRecords", Err: err}
	}
	query := `
	INSERT OR REPLACE INTO bank_records
	(id, transaction_date, description, amount, balance, transaction_type, counterparty, bank_account_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i := range records {
		r := &records[i]
		_, err := tx.Exec(query,
			r.ID, r.TransactionDate, r.Description, r.Amount.String(),
			r.Balance.String(), string(r.TransactionType), r.Counterparty,
			r.BankAccountID,
		)
		if err != nil {
			_ = tx.Rollback()
			return &model.PersistenceError{Op: "SaveBankRecords", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &model.PersistenceError{Op: "SaveBankRecords", Err: err}
	}
	return nil
}

// ListBankRecords returns records matching the filters in date order.
func (s *SQLiteStore) ListBankRecords(filters BankRecordFilters) ([]model.BankRecord, error) {
	query := `SELECT id, transaction_date, description, amount, balance,
		transaction_type, counterparty, bank_account_id
		FROM bank_records WHERE 1=1`
	var args []any
	if filters.BankAccountID != "" {
		query += ` AND bank_account_id = ?`
		args = append(args, filters.BankAccountID)
	}
	if !filters.From.IsZero() {
		query += ` AND transaction_date >= ?`
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		query += ` AND transaction_date <= ?`
		args = append(args, filters.To)
	}
	query += ` ORDER BY transaction_date ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &model.PersistenceError{Op: "ListBankRecords", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var records []model.BankRecord
	for rows.Next() {
		var r model.BankRecord
		var txType, amount, balance string
		err := rows.Scan(&r.ID, &r.TransactionDate, &r.Description, &amount,
			&balance, &txType, &r.Counterparty, &r.BankAccountID)
		if err != nil {
			return nil, &model.PersistenceError{Op: "ListBankRecords", Err: err}
		}
		r.TransactionType = model.TransactionType(txType)
		if r.Amount, err = parseDec(amount); err != nil {
			return nil, &model.PersistenceError{Op: "ListBankRecords", Err: err}
		}
		if r.Balance, err = parseDec(balance); err != nil {
			return nil, &model.PersistenceError{Op: "ListBankRecords", Err: err}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ---- entries ----

const entryColumns = `id, date, type, amount, counterparty_id, description,
	category, status, bank_account_id, created_at, updated_at`

func saveEntryTx(ex execer, e *model.TransactionRecord) error {
	query := `
	INSERT OR REPLACE INTO transaction_records
	(` + entryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := ex.Exec(query,
		e.ID, e.Date, string(e.Type), e.Amount.String(), e.CounterpartyID,
		e.Description, e.Category, string(e.Status), e.BankAccountID,
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func scanEntry(row scanner) (model.TransactionRecord, error) {
	var e model.TransactionRecord
	var entryType, amount, status string
	err := row.Scan(&e.ID, &e.Date, &entryType, &amount, &e.CounterpartyID,
		&e.Description, &e.Category, &status, &e.BankAccountID,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	e.Type = model.EntryType(entryType)
	e.Status = model.EntryStatus(status)
	if e.Amount, err = parseDec(amount); err != nil {
		return e, fmt.Errorf("entry %s has bad amount %q: %w", e.ID, amount, err)
	}
	return e, nil
}

func (s *SQLiteStore) SaveEntry(entry *model.TransactionRecord) error {
	if err := saveEntryTx(s.db, entry); err != nil {
		return &model.PersistenceError{Op: "SaveEntry", Err: err}
	}
	return nil
}

// GetEntry returns the entry or (nil, nil) when absent.
func (s *SQLiteStore) GetEntry(id string) (*model.TransactionRecord, error) {
	query := `SELECT ` + entryColumns + ` FROM transaction_records WHERE id = ?`
	e, err := scanEntry(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "GetEntry", Err: err}
	}
	return &e, nil
}

func (s *SQLiteStore) ListEntries(filters EntryFilters) ([]model.TransactionRecord, error) {
	query := `SELECT ` + entryColumns + ` FROM transaction_records WHERE 1=1`
	var args []any
	if filters.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filters.Type))
	}
	if filters.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filters.Status))
	}
	if filters.CounterpartyID != "" {
		query += ` AND counterparty_id = ?`
		args = append(args, filters.CounterpartyID)
	}
	if !filters.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, filters.To)
	}
	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &model.PersistenceError{Op: "ListEntries", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var entries []model.TransactionRecord
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, &model.PersistenceError{Op: "ListEntries", Err: err}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ---- allocations ----

func (s *SQLiteStore) listAllocations(column, id string) ([]model.PaymentAllocation, error) {
	query := `SELECT id, payment_id, obligation_id, allocated_amount, allocation_date
		FROM payment_allocations WHERE ` + column + ` = ?
		ORDER BY allocation_date ASC, id ASC`
	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, &model.PersistenceError{Op: "ListAllocations", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var allocations []model.PaymentAllocation
	for rows.Next() {
		var a model.PaymentAllocation
		var amount string
		err := rows.Scan(&a.ID, &a.PaymentID, &a.ObligationID, &amount, &a.AllocationDate)
		if err != nil {
			return nil, &model.PersistenceError{Op: "ListAllocations", Err: err}
		}
		if a.AllocatedAmount, err = parseDec(amount); err != nil {
			return nil, &model.PersistenceError{Op: "ListAllocations", Err: err}
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

func (s *SQLiteStore) ListAllocationsByPayment(paymentID string) ([]model.PaymentAllocation, error) {
	return s.listAllocations("payment_id", paymentID)
}

func (s *SQLiteStore) ListAllocationsByObligation(obligationID string) ([]model.PaymentAllocation, error) {
	return s.listAllocations("obligation_id", obligationID)
}

// ApplyAllocations commits one allocation mutation set in a single
// transaction: the payment insert (if any), the appended allocation
// rows, and the updated obligations all land together or not at all.
func (s *SQLiteStore) ApplyAllocations(write AllocationWrite) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &model.PersistenceError{Op: "ApplyAllocations", Err: err}
	}
	fail := func(err error) error {
		_ = tx.Rollback()
		return &model.PersistenceError{Op: "ApplyAllocations", Err: err}
	}

	if write.Payment != nil {
		if err := saveEntryTx(tx, write.Payment); err != nil {
			return fail(err)
		}
	}

	allocQuery := `
	INSERT INTO payment_allocations
	(id, payment_id, obligation_id, allocated_amount, allocation_date)
	VALUES (?, ?, ?, ?, ?)
	`
	for i := range write.Allocations {
		a := &write.Allocations[i]
		_, err := tx.Exec(allocQuery,
			a.ID, a.PaymentID, a.ObligationID, a.AllocatedAmount.String(), a.AllocationDate)
		if err != nil {
			return fail(err)
		}
	}

	for _, o := range write.Orders {
		if err := saveOrderTx(tx, o); err != nil {
			return fail(err)
		}
	}
	for _, j := range write.Jobs {
		if err := saveProcessingTx(tx, j); err != nil {
			return fail(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return &model.PersistenceError{Op: "ApplyAllocations", Err: err}
	}
	return nil
}

// ---- matches ----

// SaveMatches inserts a batch of reconciliation matches atomically.
func (s *SQLiteStore) SaveMatches(matches []model.ReconciliationMatch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &model.PersistenceError{Op: "SaveMatches", Err: err}
	}
	query := `
	INSERT INTO reconciliation_matches
	(id, match_date, bank_record_ids, order_ids, total_bank_amount,
	 total_order_amount, difference, match_type, notes, created_by, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i := range matches {
		m := &matches[i]
		bankIDs, err := json.Marshal(m.BankRecordIDs)
		if err != nil {
			_ = tx.Rollback()
			return &model.PersistenceError{Op: "SaveMatches", Err: err}
		}
		orderIDs, err := json.Marshal(m.OrderIDs)
		if err != nil {
			_ = tx.Rollback()
			return &model.PersistenceError{Op: "SaveMatches", Err: err}
		}
		_, err = tx.Exec(query,
			m.ID, m.MatchDate, string(bankIDs), string(orderIDs),
			m.TotalBankAmount.String(), m.TotalOrderAmount.String(),
			m.Difference.String(), m.MatchType, m.Notes, m.CreatedBy, m.CreatedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return &model.PersistenceError{Op: "SaveMatches", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &model.PersistenceError{Op: "SaveMatches", Err: err}
	}
	return nil
}

// ListMatches returns matches in match date order.
func (s *SQLiteStore) ListMatches(filters MatchFilters) ([]model.ReconciliationMatch, error) {
	query := `SELECT id, match_date, bank_record_ids, order_ids, total_bank_amount,
		total_order_amount, difference, match_type, notes, created_by, created_at
		FROM reconciliation_matches WHERE 1=1`
	var args []any
	if !filters.From.IsZero() {
		query += ` AND match_date >= ?`
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		query += ` AND match_date <= ?`
		args = append(args, filters.To)
	}
	query += ` ORDER BY match_date ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &model.PersistenceError{Op: "ListMatches", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var matches []model.ReconciliationMatch
	for rows.Next() {
		var m model.ReconciliationMatch
		var bankIDs, orderIDs string
		var totalBank, totalOrder, difference string
		err := rows.Scan(&m.ID, &m.MatchDate, &bankIDs, &orderIDs, &totalBank,
			&totalOrder, &difference, &m.MatchType, &m.Notes, &m.CreatedBy, &m.CreatedAt)
		if err != nil {
			return nil, &model.PersistenceError{Op: "ListMatches", Err: err}
		}
		if err := json.Unmarshal([]byte(bankIDs), &m.BankRecordIDs); err != nil {
			return nil, &model.PersistenceError{Op: "ListMatches", Err: err}
		}
		if err := json.Unmarshal([]byte(orderIDs), &m.OrderIDs); err != nil {
			return nil, &model.PersistenceError{Op: "ListMatches", Err: err}
		}
		if m.TotalBankAmount, err = parseDec(totalBank); err != nil {
			return nil, &model.PersistenceError{Op: "ListMatches", Err: err}
		}
		if m.TotalOrderAmount, err = parseDec(totalOrder); err != nil {
			return nil, &model.PersistenceError{Op: "ListMatches", Err: err}
		}
		if m.Difference, err = parseDec(difference); err != nil {
			return nil, &model.PersistenceError{Op: "ListMatches", Err: err}
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
