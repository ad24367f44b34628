package gpoaudit

import (
	"github.com/5amu/gpoaudit/internal/utils"
	"github.com/5amu/gpoaudit/pkg/ldap"
)

type LinkOrderOptions struct {
	Targets struct {
		TARGET string `description:"Provide target IP/FQDN of a Domain Controller"`
	} `positional-args:"yes" required:"yes"`

	Connection ConnectionOptions `group:"Connection Options" description:"Connection Options"`
}

func (o *LinkOrderOptions) Execute(args []string) error {
	return o.Run()
}

func (o *LinkOrderOptions) Run() error {
	creds := utils.NewCredentialsDispacher(o.Connection.Username, o.Connection.Password, o.Connection.NTLM)

	client := ldap.NewLdapClient(o.Targets.TARGET, o.Connection.Port, o.Connection.Domain, o.Connection.SSL, !o.Connection.UseTLS)
	defer client.Close()

	if _, err := authenticate(client, o.Connection.Domain, creds); err != nil {
		return err
	}

	c := newCollector(client, o.Connection.Domain, o.Targets.TARGET)
	names, err := c.gpoNames()
	if err != nil {
		return err
	}
	_, order, err := c.collectLinks()
	if err != nil {
		return err
	}
	resolveLinkNames(order, names)
	renderLinkOrder(order)
	return nil
}
