package gpoaudit

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/5amu/gpoaudit/pkg/gpo"
)

func colorUrgency(u gpo.Urgency) string {
	switch u {
	case gpo.High:
		return color.New(color.FgRed, color.Bold).Sprint(u)
	case gpo.Medium:
		return color.New(color.FgYellow).Sprint(u)
	default:
		return color.New(color.FgCyan).Sprint(u)
	}
}

func renderFindings(findings []gpo.Finding, audited int) {
	if len(findings) == 0 {
		fmt.Printf("\nNo problems found in %d policies\n\n", audited)
		return
	}

	tbl := table.New("Urgency", "Policy", "Problem", "Recommendation")
	tbl.WithHeaderFormatter(color.New(color.FgGreen, color.Underline).SprintfFunc())
	for _, f := range findings {
		tbl.AddRow(colorUrgency(f.Urgency), f.PolicyName, f.Problem, f.Recommendation)
	}
	fmt.Println()
	tbl.Print()
	fmt.Printf("\n%d findings in %d policies\n\n", len(findings), audited)
}

func renderLinkOrder(entries []gpo.LinkOrderEntry) {
	tbl := table.New("Container", "Order", "Policy", "Enabled", "Enforced")
	tbl.WithHeaderFormatter(color.New(color.FgGreen, color.Underline).SprintfFunc()).
		WithFirstColumnFormatter(color.New(color.FgYellow).SprintfFunc())
	for _, e := range entries {
		tbl.AddRow(e.OU, e.Order, e.GPOName, e.Enabled, e.Enforced)
	}
	fmt.Println()
	tbl.Print()
	fmt.Println()
}

func writeCSV(path string, findings []gpo.Finding) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"urgency", "policy", "problem", "recommendation"}); err != nil {
		return err
	}
	for _, f := range findings {
		if err := w.Write([]string{f.Urgency.String(), f.PolicyName, f.Problem, f.Recommendation}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
