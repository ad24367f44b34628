package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/5amu/gpoaudit/internal/gpoaudit"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	p := flags.NewNamedParser("gpoaudit", flags.Default)
	_, _ = p.AddCommand("audit", "Audit every GPO in a domain",
		"Collect every Group Policy Object from a domain controller and report misconfigurations", &gpoaudit.AuditOptions{})
	_, _ = p.AddCommand("linkorder", "Show policy precedence per container",
		"Decode gPLink attributes and show, per container, which policy wins", &gpoaudit.LinkOrderOptions{})
	_, _ = p.AddCommand("winrm", "Probe WinRM connectivity",
		"Run a command over WinRM on the given targets", &gpoaudit.WinrmOptions{})

	if _, err := p.Parse(); err != nil {
		os.Exit(1)
	}
}
