// Package reconciler matches external bank records against internal
// ledger entries.
//
// The engine is a pure batch transform over two immutable pools. It
// runs three passes in order of preference:
//
//  1. exact:       |amount diff| < exact tolerance
//  2. fuzzy:       exact tolerance <= |amount diff| <= fuzzy tolerance
//  3. combination: 2- then 3-element subsets of nearby internal
//     entries whose sum lands within the combination tolerance
//
// Candidates must agree in direction (bank credits settle income
// entries, debits settle expenses) and fall inside the date tolerance
// window. Among candidates the smallest date difference wins, with a
// stable earliest-encountered tie-break. The result is deterministic
// for a fixed input order, and the engine never writes anything.
package reconciler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

// Engine runs the three-pass matching algorithm.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given tolerances.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Reconcile matches the external pool against the internal pool and
// returns accepted match groups plus both unmatched lists. Emitted
// matches carry id lists, totals, type and notes; the caller assigns
// ids and audit fields before persisting.
func (e *Engine) Reconcile(externals []model.BankRecord, internals []model.TransactionRecord) *Result {
	matchedExt := make([]bool, len(externals))
	matchedInt := make([]bool, len(internals))
	skipReasons := make(map[int]string)

	result := &Result{
		Matches:           make([]model.ReconciliationMatch, 0),
		UnmatchedBank:     make([]UnmatchedBank, 0),
		UnmatchedInternal: make([]UnmatchedInternal, 0),
	}

	// Pass 1: exact amount within tolerance_days
	for i := range externals {
		if matchedExt[i] {
			continue
		}
		j, dateDiff := e.findBestCandidate(&externals[i], internals, matchedInt,
			decimal.Zero, e.config.ExactAmountTolerance, e.config.ToleranceDays)
		if j < 0 {
			continue
		}
		matchedExt[i] = true
		matchedInt[j] = true
		result.Matches = append(result.Matches,
			buildPairMatch(&externals[i], &internals[j], MatchExact,
				fmt.Sprintf("exact match, %d day(s) apart", dateDiff)))
	}

	// Pass 2: fuzzy amount, same window, signed delta kept for audit
	for i := range externals {
		if matchedExt[i] {
			continue
		}
		j, dateDiff := e.findBestCandidate(&externals[i], internals, matchedInt,
			e.config.ExactAmountTolerance, e.config.FuzzyAmountTolerance, e.config.ToleranceDays)
		if j < 0 {
			continue
		}
		matchedExt[i] = true
		matchedInt[j] = true
		delta := internals[j].Amount.Sub(externals[i].Amount)
		result.Matches = append(result.Matches,
			buildPairMatch(&externals[i], &internals[j], MatchFuzzy,
				fmt.Sprintf("fuzzy match, amount delta %s, %d day(s) apart", delta, dateDiff)))
	}

	// Pass 3: combinatorial subset-sum over a widened window
	e.combinationPass(externals, internals, matchedExt, matchedInt, skipReasons, result)

	// Collate what survived all three passes
	for i := range externals {
		if matchedExt[i] {
			continue
		}
		reason := reasonBankOnly
		if skip, ok := skipReasons[i]; ok {
			reason = skip
		}
		result.UnmatchedBank = append(result.UnmatchedBank, UnmatchedBank{
			Record: externals[i],
			Reason: reason,
		})
	}
	for j := range internals {
		if matchedInt[j] {
			continue
		}
		result.UnmatchedInternal = append(result.UnmatchedInternal, UnmatchedInternal{
			Entry:  internals[j],
			Reason: reasonInternalOnly,
		})
	}

	return result
}

// findBestCandidate scans unmatched internal entries for the given
// external record. The amount difference must satisfy the pass bounds
// (strict |diff| < maxAmount for the exact pass, closed interval
// minAmount <= |diff| <= maxAmount for the fuzzy pass), the date
// difference must be within toleranceDays, and the directions must
// agree. Returns the index of the candidate with the smallest date
// difference, or -1. Ties keep the earliest encountered candidate.
func (e *Engine) findBestCandidate(
	ext *model.BankRecord,
	internals []model.TransactionRecord,
	matched []bool,
	minAmount, maxAmount decimal.Decimal,
	toleranceDays int,
) (int, int) {
	best := -1
	bestDateDiff := 0

	for j := range internals {
		if matched[j] {
			continue
		}
		in := &internals[j]
		if !in.Type.MatchesDirection(ext.TransactionType) {
			continue
		}

		diff := in.Amount.Sub(ext.Amount).Abs()
		if minAmount.IsZero() {
			// Exact pass: strict upper bound
			if diff.GreaterThanOrEqual(maxAmount) {
				continue
			}
		} else {
			// Fuzzy pass: closed interval
			if diff.LessThan(minAmount) || diff.GreaterThan(maxAmount) {
				continue
			}
		}

		dateDiff := dateDiffDays(ext.TransactionDate, in.Date)
		if dateDiff > toleranceDays {
			continue
		}

		if best < 0 || dateDiff < bestDateDiff {
			best = j
			bestDateDiff = dateDiff
		}
	}

	return best, bestDateDiff
}

// buildPairMatch assembles a one-to-one match group.
func buildPairMatch(ext *model.BankRecord, in *model.TransactionRecord, matchType, notes string) model.ReconciliationMatch {
	return model.ReconciliationMatch{
		BankRecordIDs:    []string{ext.ID},
		OrderIDs:         []string{in.ID},
		TotalBankAmount:  ext.Amount,
		TotalOrderAmount: in.Amount,
		Difference:       ext.Amount.Sub(in.Amount),
		MatchType:        matchType,
		Notes:            notes,
	}
}

// dateDiffDays returns the absolute calendar-day distance between two
// dates. Timestamps are truncated to dates before comparing.
func dateDiffDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ad.Sub(bd).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
