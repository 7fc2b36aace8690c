package cli

import (
	"fmt"
	"strings"

	"github.com/craftbooks/settlement-backend/internal/domain/reconciler"
)

// PrintHeader prints the command header.
func PrintHeader(accountID string, apply bool) {
	mode := "DRY-RUN"
	if apply {
		mode = "APPLY"
	}
	if accountID == "" {
		accountID = "all accounts"
	}
	fmt.Printf("settlement-reconcile: %s (%s mode)\n\n", accountID, mode)
}

// PrintReconcileSummary prints the reconciliation result.
func PrintReconcileSummary(result *reconciler.Result, applied bool) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Matches=%d UnmatchedBank=%d UnmatchedInternal=%d\n",
		len(result.Matches),
		len(result.UnmatchedBank),
		len(result.UnmatchedInternal))

	if len(result.Matches) > 0 {
		byType := map[string]int{}
		for _, m := range result.Matches {
			byType[m.MatchType]++
		}
		fmt.Println("\nMatches:")
		for matchType, count := range byType {
			fmt.Printf("  %-16s %d\n", matchType, count)
		}
	}

	if len(result.UnmatchedBank) > 0 {
		fmt.Println("\nUnmatched bank records:")
		for _, u := range result.UnmatchedBank {
			fmt.Printf("  - %s %s %s: %s\n",
				u.Record.TransactionDate.Format("2006-01-02"),
				u.Record.Amount,
				u.Record.Description,
				u.Reason)
		}
	}

	if len(result.UnmatchedInternal) > 0 {
		fmt.Println("\nUnmatched internal entries:")
		for _, u := range result.UnmatchedInternal {
			fmt.Printf("  - %s %s %s: %s\n",
				u.Entry.Date.Format("2006-01-02"),
				u.Entry.Amount,
				u.Entry.Description,
				u.Reason)
		}
	}

	if applied && len(result.Matches) > 0 {
		fmt.Println("\nMatches persisted.")
	}
}
