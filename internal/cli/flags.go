// Package cli holds the flag parsing and console report rendering
// shared by the command line entry points.
package cli

import (
	"flag"
	"time"

	"github.com/craftbooks/settlement-backend/internal/application/service"
)

// ReconcileFlags are the flags for the reconcile command.
type ReconcileFlags struct {
	ConfigFile    string
	CSVFile       string
	BankAccountID string
	From          string
	To            string
	Apply         bool
	CreatedBy     string
	Verbose       bool
}

// ParseReconcileFlags parses reconcile flags from the command line.
func ParseReconcileFlags() ReconcileFlags {
	var flags ReconcileFlags
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.CSVFile, "csv", "", "Bank statement CSV to import before matching")
	flag.StringVar(&flags.BankAccountID, "account", "", "Restrict matching to one bank account")
	flag.StringVar(&flags.From, "from", "", "Start date (YYYY-MM-DD)")
	flag.StringVar(&flags.To, "to", "", "End date (YYYY-MM-DD)")
	flag.BoolVar(&flags.Apply, "apply", false, "Persist accepted matches (default: dry run)")
	flag.StringVar(&flags.CreatedBy, "by", "cli", "Operator name recorded on persisted matches")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ToReconcileOptions converts the parsed flags into service options.
func (f ReconcileFlags) ToReconcileOptions() (service.ReconcileOptions, error) {
	opts := service.ReconcileOptions{
		BankAccountID: f.BankAccountID,
		Apply:         f.Apply,
		CreatedBy:     f.CreatedBy,
	}

	var err error
	if f.From != "" {
		if opts.From, err = time.Parse("2006-01-02", f.From); err != nil {
			return opts, err
		}
	}
	if f.To != "" {
		if opts.To, err = time.Parse("2006-01-02", f.To); err != nil {
			return opts, err
		}
	}
	return opts, nil
}
