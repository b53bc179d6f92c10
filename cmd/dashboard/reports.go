package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/report"
)

// loansCmd prints the loan portfolio of a Master workbook.
type loansCmd struct {
	flags reportFlags
}

func (*loansCmd) Name() string     { return "loans" }
func (*loansCmd) Synopsis() string { return "report the loan portfolio of a Master workbook" }
func (*loansCmd) Usage() string {
	return `dashboard loans [-as-of <YYYY-MM-DD>] [-status-ref now|as_of] [-render] <master.xlsx>

  Extracts every loan sheet and prints the snapshot, the loans and the payment projection.
`
}

func (c *loansCmd) SetFlags(f *flag.FlagSet) { c.flags.register(f) }

func (c *loansCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	md, err := c.report(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md, c.flags.render)
	return subcommands.ExitSuccess
}

func (c *loansCmd) report(masterPath string) (string, error) {
	params, err := c.flags.params()
	if err != nil {
		return "", err
	}
	svc, err := newService(params.StatusReference)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(masterPath)
	if err != nil {
		return "", err
	}
	portfolio, err := svc.ExtractLoanPortfolio(data, params.AsOf, params.StatusReference)
	if err != nil {
		return "", fmt.Errorf("%s: %w", masterPath, err)
	}
	return report.LoanPortfolioMarkdown(portfolio), nil
}

// policiesCmd prints the life-settlement portfolio.
type policiesCmd struct {
	render bool
}

func (*policiesCmd) Name() string     { return "policies" }
func (*policiesCmd) Synopsis() string { return "report the policies of a life-settlement workbook" }
func (*policiesCmd) Usage() string {
	return `dashboard policies [-render] <life-settlement.xlsx>

  Prints the policy snapshot, the policies and the monthly premium schedule.
`
}

func (c *policiesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.render, "render", false, "Render the markdown for the terminal")
}

func (c *policiesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	md, err := c.report(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md, c.render)
	return subcommands.ExitSuccess
}

func (c *policiesCmd) report(path string) (string, error) {
	svc, err := newService("")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return report.LifeSettlementMarkdown(svc.ExtractLifeSettlementPortfolio(data)), nil
}

// reconcileCmd compares projected loan payments with premiums due.
type reconcileCmd struct {
	flags reportFlags
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "compare projected loan payments with premiums due" }
func (*reconcileCmd) Usage() string {
	return `dashboard reconcile [-as-of <YYYY-MM-DD>] [-status-ref now|as_of] [-render] <master.xlsx> <life-settlement.xlsx>

  Prints projected loan payments against life-settlement premiums per month.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) { c.flags.register(f) }

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	md, err := c.report(f.Arg(0), f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md, c.flags.render)
	return subcommands.ExitSuccess
}

func (c *reconcileCmd) report(masterPath, lsPath string) (string, error) {
	params, err := c.flags.params()
	if err != nil {
		return "", err
	}
	svc, err := newService(params.StatusReference)
	if err != nil {
		return "", err
	}
	master, err := os.ReadFile(masterPath)
	if err != nil {
		return "", err
	}
	ls, err := os.ReadFile(lsPath)
	if err != nil {
		return "", err
	}
	dashboard, err := svc.BuildDashboard(master, ls, params.AsOf, params.StatusReference)
	if err != nil {
		return "", fmt.Errorf("%s: %w", masterPath, err)
	}

	var b strings.Builder
	b.WriteString(report.LoanPortfolioMarkdown(dashboard.Loans))
	b.WriteString("\n")
	b.WriteString(report.LifeSettlementMarkdown(dashboard.LifeSettlement))
	if dashboard.Reconciliation != nil {
		b.WriteString("\n")
		b.WriteString(report.ReconciliationMarkdown(dashboard.Reconciliation))
	}
	return b.String(), nil
}

// layoutCmd prints the workbook layout accepted by the active profiles.
type layoutCmd struct{}

func (*layoutCmd) Name() string     { return "layout" }
func (*layoutCmd) Synopsis() string { return "describe the supported workbook layout" }
func (*layoutCmd) Usage() string {
	return `dashboard [-profiles <profiles.yaml>] layout

  Lists where every field is read from in the Master and life-settlement workbooks.
`
}

func (*layoutCmd) SetFlags(*flag.FlagSet) {}

func (*layoutCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	profiles, err := profile.Load(*profilesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(report.LayoutMarkdown(profiles.Layout()))
	return subcommands.ExitSuccess
}
