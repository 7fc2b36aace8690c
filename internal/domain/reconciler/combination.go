package reconciler

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

// combinationPass tries to explain each still-unmatched external entry
// as the sum of 2 or 3 still-unmatched internal entries. The candidate
// window is wider than the pairwise passes (tolerance_days + extra),
// and the search is bounded: externals whose candidate set exceeds the
// cap are skipped outright, and no subset beyond size 3 is attempted.
func (e *Engine) combinationPass(
	externals []model.BankRecord,
	internals []model.TransactionRecord,
	matchedExt, matchedInt []bool,
	skipReasons map[int]string,
	result *Result,
) {
	if e.config.CombinationMaxSubsetSize < 2 {
		return
	}
	window := e.config.ToleranceDays + e.config.CombinationWindowExtraDays

	for i := range externals {
		if matchedExt[i] {
			continue
		}
		ext := &externals[i]

		// Candidate set: unmatched internals in the widened window with
		// agreeing direction, in pool order for determinism.
		var candidates []int
		for j := range internals {
			if matchedInt[j] {
				continue
			}
			if !internals[j].Type.MatchesDirection(ext.TransactionType) {
				continue
			}
			if dateDiffDays(ext.TransactionDate, internals[j].Date) > window {
				continue
			}
			candidates = append(candidates, j)
		}

		if len(candidates) > e.config.CombinationCandidateCap {
			skipReasons[i] = fmt.Sprintf(
				"combination search skipped: %d candidates exceed cap %d",
				len(candidates), e.config.CombinationCandidateCap)
			continue
		}

		subset := e.findSubset(ext, internals, candidates)
		if subset == nil {
			continue
		}

		matchedExt[i] = true
		for _, j := range subset {
			matchedInt[j] = true
		}
		result.Matches = append(result.Matches, buildCombinationMatch(ext, internals, subset))
	}
}

// findSubset returns the first 2-element, then 3-element, subset of
// candidates whose amounts sum to the external amount within the
// combination tolerance, or nil.
func (e *Engine) findSubset(ext *model.BankRecord, internals []model.TransactionRecord, candidates []int) []int {
	n := len(candidates)

	for a := 0; a < n-1; a++ {
		for b := a + 1; b < n; b++ {
			sum := internals[candidates[a]].Amount.Add(internals[candidates[b]].Amount)
			if sum.Sub(ext.Amount).Abs().LessThan(e.config.CombinationAmountTolerance) {
				return []int{candidates[a], candidates[b]}
			}
		}
	}

	if e.config.CombinationMaxSubsetSize < 3 {
		return nil
	}

	for a := 0; a < n-2; a++ {
		for b := a + 1; b < n-1; b++ {
			partial := internals[candidates[a]].Amount.Add(internals[candidates[b]].Amount)
			for c := b + 1; c < n; c++ {
				sum := partial.Add(internals[candidates[c]].Amount)
				if sum.Sub(ext.Amount).Abs().LessThan(e.config.CombinationAmountTolerance) {
					return []int{candidates[a], candidates[b], candidates[c]}
				}
			}
		}
	}

	return nil
}

// buildCombinationMatch assembles a one-to-many match group from the
// accepted subset.
func buildCombinationMatch(ext *model.BankRecord, internals []model.TransactionRecord, subset []int) model.ReconciliationMatch {
	ids := make([]string, 0, len(subset))
	total := decimal.Zero
	for _, j := range subset {
		ids = append(ids, internals[j].ID)
		total = total.Add(internals[j].Amount)
	}

	return model.ReconciliationMatch{
		BankRecordIDs:    []string{ext.ID},
		OrderIDs:         ids,
		TotalBankAmount:  ext.Amount,
		TotalOrderAmount: total,
		Difference:       ext.Amount.Sub(total),
		MatchType:        CombinationMatchType(len(subset)),
		Notes: fmt.Sprintf("sum of %d internal entries [%s]",
			len(subset), strings.Join(ids, ", ")),
	}
}
