package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/validation"
)

var (
	profilesPath     = flag.String("profiles", "", "Path to a YAML file replacing the embedded workbook profiles")
	projectionMonths = flag.Int("horizon", 12, "Number of months in the payment projection")
	normalizeIDs     = flag.Bool("normalize-ids", true, "Match premium rows to policies case-insensitively")
)

// newService builds a DashboardService from the global flags.
func newService(statusRef model.StatusReference) (*service.DashboardService, error) {
	profiles, err := profile.Load(*profilesPath)
	if err != nil {
		return nil, err
	}
	return service.NewDashboardService(profiles, service.DashboardOptions{
		ProjectionMonths:   *projectionMonths,
		StatusReference:    statusRef,
		NormalizePolicyIDs: *normalizeIDs,
	}), nil
}

// reportFlags are the flags shared by the loan-based reports.
type reportFlags struct {
	asOf      string
	statusRef string
	render    bool
}

func (r *reportFlags) register(f *flag.FlagSet) {
	f.StringVar(&r.asOf, "as-of", "", "Override the Dashboard as-of date (YYYY-MM-DD)")
	f.StringVar(&r.statusRef, "status-ref", "", "Date loan statuses are evaluated against: now or as_of")
	f.BoolVar(&r.render, "render", false, "Render the markdown for the terminal")
}

func (r *reportFlags) params() (validation.ReportParams, error) {
	var params validation.ReportParams
	var err error
	if params.AsOf, err = validation.ParseAsOf(r.asOf); err != nil {
		return params, err
	}
	if params.StatusReference, err = validation.ParseStatusReference(r.statusRef); err != nil {
		return params, err
	}
	return params, nil
}

// printMarkdown writes md to stdout, through glamour when render is set.
func printMarkdown(md string, render bool) {
	if render {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(140))
		if err == nil {
			if out, err := renderer.Render(md); err == nil {
				fmt.Print(out)
				return
			}
		}
		fmt.Fprintf(os.Stderr, "Warning: rendering failed, printing raw markdown\n")
	}
	fmt.Print(md)
}
