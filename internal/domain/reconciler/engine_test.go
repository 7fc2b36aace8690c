package reconciler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func bankCredit(id string, amount string, date time.Time) model.BankRecord {
	return model.BankRecord{
		ID:              id,
		TransactionDate: date,
		Amount:          d(amount),
		TransactionType: model.TransactionCredit,
		BankAccountID:   "acct-1",
	}
}

func income(id string, amount string, date time.Time) model.TransactionRecord {
	return model.TransactionRecord{
		ID:     id,
		Date:   date,
		Type:   model.EntryIncome,
		Amount: d(amount),
		Status: model.EntryCompleted,
	}
}

func TestReconcile_ExactMatchWithinDateTolerance(t *testing.T) {
	// Bank record on day D, internal entry dated D+1, tolerance 2 days
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{bankCredit("b1", "1000.00", day(0))}
	internals := []model.TransactionRecord{income("t1", "1000.00", day(1))}

	result := engine.Reconcile(externals, internals)

	require.Len(t, result.Matches, 1)
	match := result.Matches[0]
	assert.Equal(t, MatchExact, match.MatchType)
	assert.Equal(t, []string{"b1"}, match.BankRecordIDs)
	assert.Equal(t, []string{"t1"}, match.OrderIDs)
	assert.True(t, match.Difference.IsZero())
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedInternal)
}

func TestReconcile_ExactMatch_PicksSmallestDateDiff(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{bankCredit("b1", "500.00", day(2))}
	internals := []model.TransactionRecord{
		income("t-far", "500.00", day(0)),
		income("t-near", "500.00", day(2)),
	}

	result := engine.Reconcile(externals, internals)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, []string{"t-near"}, result.Matches[0].OrderIDs)
}

func TestReconcile_TieBreak_IsStableEarliestEncountered(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{bankCredit("b1", "500.00", day(1))}
	internals := []model.TransactionRecord{
		income("t-first", "500.00", day(0)),
		income("t-second", "500.00", day(2)),
	}

	result := engine.Reconcile(externals, internals)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, []string{"t-first"}, result.Matches[0].OrderIDs)
}

func TestReconcile_DateOutsideTolerance_NoMatch(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{bankCredit("b1", "1000.00", day(0))}
	internals := []model.TransactionRecord{income("t1", "1000.00", day(3))}

	result := engine.Reconcile(externals, internals)

	assert.Empty(t, result.Matches)
	require.Len(t, result.UnmatchedBank, 1)
	assert.Contains(t, result.UnmatchedBank[0].Reason, "unrecorded")
	require.Len(t, result.UnmatchedInternal, 1)
	assert.Contains(t, result.UnmatchedInternal[0].Reason, "no corresponding bank movement")
}

func TestReconcile_FuzzyMatch_KeepsSignedDelta(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{bankCredit("b1", "1000.00", day(0))}
	internals := []model.TransactionRecord{income("t1", "999.40", day(0))}

	result := engine.Reconcile(externals, internals)

	require.Len(t, result.Matches, 1)
	match := result.Matches[0]
	assert.Equal(t, MatchFuzzy, match.MatchType)
	assert.True(t, match.Difference.Equal(d("0.60")))
	assert.Contains(t, match.Notes, "-0.6")
}

func TestReconcile_PassOrdering_ExactBeatsFuzzyAndCombination(t *testing.T) {
	// t-exact satisfies pass 1; t-close would satisfy pass 2; the
	// 600+400 pair would satisfy pass 3. Pass 1 must win.
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{bankCredit("b1", "1000.00", day(0))}
	internals := []model.TransactionRecord{
		income("t-close", "1000.50", day(0)),
		income("t-exact", "1000.00", day(1)),
		income("t-600", "600.00", day(0)),
		income("t-400", "400.00", day(0)),
	}

	result := engine.Reconcile(externals, internals)

	require.NotEmpty(t, result.Matches)
	assert.Equal(t, MatchExact, result.Matches[0].MatchType)
	assert.Equal(t, []string{"t-exact"}, result.Matches[0].OrderIDs)
}

func TestReconcile_DirectionAgreement(t *testing.T) {
	// A credit must not match an expense entry of the same amount.
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{bankCredit("b1", "250.00", day(0))}
	internals := []model.TransactionRecord{{
		ID: "t1", Date: day(0), Type: model.EntryExpense,
		Amount: d("250.00"), Status: model.EntryCompleted,
	}}

	result := engine.Reconcile(externals, internals)

	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedBank, 1)
	assert.Len(t, result.UnmatchedInternal, 1)
}

func TestReconcile_Determinism(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{
		bankCredit("b1", "1000.00", day(0)),
		bankCredit("b2", "320.50", day(1)),
		bankCredit("b3", "75.00", day(4)),
	}
	internals := []model.TransactionRecord{
		income("t1", "600.00", day(0)),
		income("t2", "400.00", day(1)),
		income("t3", "320.00", day(1)),
		income("t4", "9999.00", day(2)),
	}

	first := engine.Reconcile(externals, internals)
	second := engine.Reconcile(externals, internals)

	require.Equal(t, len(first.Matches), len(second.Matches))
	for i := range first.Matches {
		assert.Equal(t, first.Matches[i].BankRecordIDs, second.Matches[i].BankRecordIDs)
		assert.Equal(t, first.Matches[i].OrderIDs, second.Matches[i].OrderIDs)
		assert.Equal(t, first.Matches[i].MatchType, second.Matches[i].MatchType)
	}
	assert.Equal(t, first.UnmatchedBank, second.UnmatchedBank)
	assert.Equal(t, first.UnmatchedInternal, second.UnmatchedInternal)
}

func TestReconcile_InputPoolsAreNotMutated(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	externals := []model.BankRecord{bankCredit("b1", "100.00", day(0))}
	internals := []model.TransactionRecord{income("t1", "100.00", day(0))}

	before := internals[0]
	_ = engine.Reconcile(externals, internals)

	assert.Equal(t, before, internals[0])
}
