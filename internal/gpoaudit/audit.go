// Package gpoaudit wires the CLI subcommands: collect from a domain
// controller, evaluate, report.
package gpoaudit

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/5amu/gpoaudit/internal/utils"
	"github.com/5amu/gpoaudit/pkg/gpo"
	"github.com/5amu/gpoaudit/pkg/ldap"
)

type ConnectionOptions struct {
	Username string `short:"u" description:"Provide username (or FILE)"`
	Password string `short:"p" description:"Provide password (or FILE)"`
	NTLM     string `short:"H" long:"hashes" description:"Authenticate with NTLM hash"`
	Domain   string `short:"d" long:"domain" description:"Provide domain"`
	Port     int    `long:"port" default:"389" description:"Ldap port to contact"`
	SSL      bool   `short:"s" long:"ssl" description:"Use ssl to interact with ldap"`
	UseTLS   bool   `long:"tls" description:"Upgrade the ldap connection"`
}

type AuditOptions struct {
	Targets struct {
		TARGET string `description:"Provide target IP/FQDN of a Domain Controller"`
	} `positional-args:"yes" required:"yes"`

	Connection ConnectionOptions `group:"Connection Options" description:"Connection Options"`

	Audit struct {
		Sysvol  string `long:"sysvol" description:"Path to a mounted SYSVOL Policies directory"`
		Reports string `long:"reports" description:"Directory with one GPMC XML report per policy, named {GUID}.xml"`
		CSV     string `short:"o" long:"csv" description:"Write findings to a CSV file"`
		Workers int    `long:"workers" default:"8" description:"Concurrent policy enrichment workers"`
	} `group:"Audit Options" description:"Audit Options"`

	credentials []utils.Credential
}

func (o *AuditOptions) Execute(args []string) error {
	return o.Run()
}

func (o *AuditOptions) Run() error {
	o.credentials = utils.NewCredentialsDispacher(o.Connection.Username, o.Connection.Password, o.Connection.NTLM)

	client := ldap.NewLdapClient(o.Targets.TARGET, o.Connection.Port, o.Connection.Domain, o.Connection.SSL, !o.Connection.UseTLS)
	defer client.Close()

	if _, err := authenticate(client, o.Connection.Domain, o.credentials); err != nil {
		return err
	}

	c := newCollector(client, o.Connection.Domain, o.Targets.TARGET)
	c.sysvol = o.Audit.Sysvol
	c.reports = o.Audit.Reports
	c.workers = o.Audit.Workers

	objects, _, err := c.Collect()
	if err != nil {
		return err
	}

	var findings []gpo.Finding
	for _, obj := range objects {
		// Orphan records are synthetic, only their store fact holds.
		facts := gpo.Facts{Orphaned: true}
		if !obj.OrphanedStore {
			facts = gpo.Evaluate(c.domain, obj)
		}
		findings = append(findings, gpo.Classify(obj, facts)...)
	}

	renderFindings(findings, len(objects))
	if o.Audit.CSV != "" {
		return writeCSV(o.Audit.CSV, findings)
	}
	return nil
}

func authenticate(client *ldap.LdapClient, domain string, creds []utils.Credential) (utils.Credential, error) {
	for _, c := range creds {
		var err error
		if c.Hash != "" {
			err = client.AuthenticateNTLM(c.Username, c.Hash)
		} else {
			err = client.Authenticate(c.Username, c.Password)
		}
		if err == nil {
			return c, nil
		}
		log.Warn().Str("credential", c.StringWithDomain(domain)).Err(err).Msg("authentication failed")
	}
	return utils.Credential{}, fmt.Errorf("no valid authentication")
}
