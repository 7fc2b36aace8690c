// Package service wires the reconciliation engine to the ledger store:
// it snapshots the two pools, runs the matching passes, stamps accepted
// matches with identity and audit fields, and optionally persists them.
package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/domain/reconciler"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// ReconcileStore is the slice of the repository the service needs.
type ReconcileStore interface {
	ListBankRecords(filters storage.BankRecordFilters) ([]model.BankRecord, error)
	ListEntries(filters storage.EntryFilters) ([]model.TransactionRecord, error)
	SaveMatches(matches []model.ReconciliationMatch) error
	ListMatches(filters storage.MatchFilters) ([]model.ReconciliationMatch, error)
}

// ReconcileOptions selects the pools and controls persistence.
type ReconcileOptions struct {
	BankAccountID string
	From, To      time.Time

	// Apply persists accepted matches. When false the run is a dry
	// report and writes nothing.
	Apply     bool
	CreatedBy string
}

// ReconcileService runs reconciliation over stored records.
type ReconcileService struct {
	store  ReconcileStore
	engine *reconciler.Engine
	logger *slog.Logger
	now    func() time.Time
}

// NewReconcileService creates a service around the given engine.
func NewReconcileService(store ReconcileStore, engine *reconciler.Engine, logger *slog.Logger) *ReconcileService {
	return &ReconcileService{store: store, engine: engine, logger: logger, now: time.Now}
}

// Run snapshots both pools at call time, matches them, and stamps each
// accepted match with an id, the match date and the operator. Records
// written by other activity during the run are not visible to it.
func (s *ReconcileService) Run(opts ReconcileOptions) (*reconciler.Result, error) {
	externals, err := s.store.ListBankRecords(storage.BankRecordFilters{
		BankAccountID: opts.BankAccountID,
		From:          opts.From,
		To:            opts.To,
	})
	if err != nil {
		return nil, err
	}

	// Only completed entries are candidates; pending and failed
	// entries have no settled bank counterpart yet.
	internals, err := s.store.ListEntries(storage.EntryFilters{
		Status: model.EntryCompleted,
		From:   opts.From,
		To:     opts.To,
	})
	if err != nil {
		return nil, err
	}

	result := s.engine.Reconcile(externals, internals)

	now := s.now()
	for i := range result.Matches {
		result.Matches[i].ID = uuid.NewString()
		result.Matches[i].MatchDate = now
		result.Matches[i].CreatedBy = opts.CreatedBy
		result.Matches[i].CreatedAt = now
	}

	s.logger.Info("reconciliation run",
		"externals", len(externals),
		"internals", len(internals),
		"matches", len(result.Matches),
		"unmatched_bank", len(result.UnmatchedBank),
		"unmatched_internal", len(result.UnmatchedInternal),
		"applied", opts.Apply)

	if opts.Apply && len(result.Matches) > 0 {
		if err := s.store.SaveMatches(result.Matches); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// History returns previously persisted matches in a date range.
func (s *ReconcileService) History(from, to time.Time) ([]model.ReconciliationMatch, error) {
	return s.store.ListMatches(storage.MatchFilters{From: from, To: to})
}
