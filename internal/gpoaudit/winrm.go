package gpoaudit

import (
	"context"
	"fmt"
	"strings"

	"github.com/masterzen/winrm"

	"github.com/5amu/gpoaudit/internal/pool"
	"github.com/5amu/gpoaudit/internal/printer"
	"github.com/5amu/gpoaudit/internal/utils"
)

type WinrmOptions struct {
	Targets struct {
		TARGETS []string `description:"Provide target IP/FQDN/FILE/CIDR"`
	} `positional-args:"yes" required:"yes"`

	Connection struct {
		Port     int    `long:"port" default:"5985" description:"Winrm port to contact"`
		SSL      bool   `long:"ssl" description:"Encrypt Winrm connection"`
		Username string `short:"u" description:"Provide username (or FILE)"`
		Password string `short:"p" description:"Provide password (or FILE)"`
		Domain   string `short:"d" long:"domain" description:"Provide domain"`
	} `group:"Connection Options" description:"Connection Options"`

	Mode struct {
		Exec    string `short:"x" default:"hostname" description:"Command to run on each target"`
		Workers int    `long:"workers" default:"8" description:"Concurrent targets"`
	} `group:"Execution Mode" description:"Execution Mode"`

	targets     []string
	credentials []utils.Credential
}

func (o *WinrmOptions) Execute(args []string) error {
	return o.Run()
}

// Run probes every target over WinRM with every credential set and
// prints the first working combination per host.
func (o *WinrmOptions) Run() error {
	o.targets = utils.ExtractTargets(o.Targets.TARGETS)
	o.credentials = utils.NewCredentialsDispacher(o.Connection.Username, o.Connection.Password, "")

	p := pool.New(o.Mode.Workers)
	for _, target := range o.targets {
		t := target
		p.Submit(func() {
			if err := o.exec(t); err != nil {
				printer.NewPrinter("WINRM", t, o.Connection.Domain, o.Connection.Port).PrintFailure(err.Error())
			}
		})
	}
	p.Wait()
	return nil
}

func (o *WinrmOptions) exec(target string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prt := printer.NewPrinter("WINRM", target, o.Connection.Domain, o.Connection.Port)
	for _, cred := range o.credentials {
		params := winrm.DefaultParameters
		params.TransportDecorator = func() winrm.Transporter { return &winrm.ClientNTLM{} }
		client, err := winrm.NewClientWithParameters(
			winrm.NewEndpoint(target, o.Connection.Port, o.Connection.SSL, true, nil, nil, nil, 0),
			cred.Username,
			cred.Password,
			params,
		)
		if err != nil {
			continue
		}

		var stdout, stderr strings.Builder
		if _, err := client.RunWithContext(ctx, o.Mode.Exec, &stdout, &stderr); err != nil {
			continue
		}
		prt.PrintSuccess(cred.String(), strings.TrimSpace(stdout.String()))
		return nil
	}
	return fmt.Errorf("no working credentials")
}
