package gpoaudit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	goldap "github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"

	"github.com/5amu/gpoaudit/internal/pool"
	"github.com/5amu/gpoaudit/pkg/encoder"
	"github.com/5amu/gpoaudit/pkg/gpo"
	"github.com/5amu/gpoaudit/pkg/ldap"
	"github.com/5amu/gpoaudit/pkg/winsec"
)

// Bits of the flags attribute on a groupPolicyContainer.
const (
	flagsUserDisabled     = 0x1
	flagsComputerDisabled = 0x2
)

// collector reads everything the evaluation pipeline needs from the
// directory, and optionally from a mounted SYSVOL and a directory of
// GPMC XML reports. One broken policy never aborts a run: whatever
// cannot be read is logged and the record stays partial.
type collector struct {
	client  *ldap.LdapClient
	domain  gpo.DomainInfo
	sysvol  string
	reports string
	workers int
}

func newCollector(client *ldap.LdapClient, netbios, server string) *collector {
	return &collector{
		client: client,
		domain: gpo.DomainInfo{NetBIOS: netbios, Server: server},
	}
}

// Collect returns the snapshot of every GPO in the domain plus the
// decoded link order of every linked container.
func (c *collector) Collect() ([]gpo.Object, []gpo.LinkOrderEntry, error) {
	sid, err := c.client.GetDomainSID()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot determine domain SID: %w", err)
	}
	c.domain.SID = sid

	objects, err := c.collectGPOs()
	if err != nil {
		return nil, nil, err
	}
	links, order, err := c.collectLinks()
	if err != nil {
		return nil, nil, err
	}

	names := make(map[string]string, len(objects))
	known := make(map[string]bool, len(objects))
	for i := range objects {
		o := &objects[i]
		o.Links = links[strings.ToUpper(o.DN)]
		names[strings.ToUpper(o.DN)] = o.Name
		known[o.GUID] = true
	}
	resolveLinkNames(order, names)

	p := pool.New(c.workers)
	for i := range objects {
		o := &objects[i]
		p.Submit(func() {
			c.resolveTrustees(o)
			if c.sysvol != "" {
				c.enrichSysvol(o)
			}
			if c.reports != "" {
				c.enrichReport(o)
			}
		})
	}
	p.Wait()

	if c.sysvol != "" {
		orphans, err := gpo.ScanPolicyStore(c.sysvol, known)
		if err != nil {
			log.Warn().Err(err).Str("dir", c.sysvol).Msg("cannot scan policy store")
		}
		for _, name := range orphans {
			objects = append(objects, gpo.Object{
				GUID:          strings.ToUpper(strings.Trim(name, "{}")),
				Name:          name,
				OrphanedStore: true,
			})
		}
	}
	return objects, order, nil
}

func (c *collector) collectGPOs() ([]gpo.Object, error) {
	res, err := c.client.SearchWithControls(ldap.FilterIsGPO,
		[]goldap.Control{ldap.NewControlSDFlags()},
		ldap.CommonName, ldap.DisplayName, ldap.GPCFileSysPath,
		ldap.GPCMachineExtensionNames, ldap.GPCUserExtensionNames,
		ldap.VersionNumber, ldap.GPOFlags, ldap.NTSecurityDescriptor,
		ldap.ObjectGUID,
	)
	if err != nil {
		return nil, err
	}

	var objects []gpo.Object
	for _, e := range res.Entries {
		o := gpo.Object{
			GUID:        strings.ToUpper(strings.Trim(e.GetAttributeValue(ldap.CommonName), "{}")),
			Name:        e.GetAttributeValue(ldap.DisplayName),
			DN:          e.DN,
			FileSysPath: e.GetAttributeValue(ldap.GPCFileSysPath),
		}
		if raw := e.GetRawAttributeValue(ldap.ObjectGUID); len(raw) == 16 {
			o.GUID = strings.ToUpper(encoder.StringFromUUID(raw))
		}
		if o.Name == "" {
			o.Name = "{" + o.GUID + "}"
		}

		flags, _ := strconv.Atoi(e.GetAttributeValue(ldap.GPOFlags))
		o.User.Enabled = flags&flagsUserDisabled == 0
		o.Computer.Enabled = flags&flagsComputerDisabled == 0
		o.Computer.HasContent = strings.TrimSpace(e.GetAttributeValue(ldap.GPCMachineExtensionNames)) != ""
		o.User.HasContent = strings.TrimSpace(e.GetAttributeValue(ldap.GPCUserExtensionNames)) != ""

		// Low half counts machine edits, high half user edits.
		version, _ := strconv.ParseUint(e.GetAttributeValue(ldap.VersionNumber), 10, 32)
		o.Computer.ADVersion = uint16(version & 0xffff)
		o.User.ADVersion = uint16(version >> 16)

		if raw := e.GetRawAttributeValue(ldap.NTSecurityDescriptor); len(raw) > 0 {
			sd, err := winsec.ParseSecurityDescriptor(raw)
			if err != nil {
				log.Warn().Str("gpo", o.Name).Err(err).Msg("unreadable security descriptor")
			} else {
				o.OwnerSID = sd.Owner
				o.Permissions = gpo.PermissionsFromDescriptor(sd)
			}
		} else {
			log.Warn().Str("gpo", o.Name).Msg("server returned no security descriptor")
		}
		objects = append(objects, o)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

// collectLinks decodes the gPLink of every linked container. The links
// map is keyed by the uppercased DN of the linked GPO.
func (c *collector) collectLinks() (map[string][]gpo.Link, []gpo.LinkOrderEntry, error) {
	res, err := c.client.Search(ldap.FilterHasGPLink, ldap.GPLink, "name")
	if err != nil {
		return nil, nil, err
	}

	links := make(map[string][]gpo.Link)
	var order []gpo.LinkOrderEntry
	for _, e := range res.Entries {
		entries, malformed, err := gpo.ParseLinkList(e.GetAttributeValue(ldap.GPLink))
		if err != nil {
			log.Warn().Str("container", e.DN).Err(err).Msg("undecodable gPLink")
			continue
		}
		for _, m := range malformed {
			log.Warn().Str("container", e.DN).Str("segment", m).Msg("skipping malformed gPLink segment")
		}
		for _, l := range entries {
			links[strings.ToUpper(l.Target)] = append(links[strings.ToUpper(l.Target)], gpo.Link{
				Target:   e.DN,
				Enabled:  l.Enabled,
				Enforced: l.Enforced,
				Order:    l.Order,
			})
			order = append(order, gpo.LinkOrderEntry{
				OU:       e.GetAttributeValue("name"),
				OUDN:     e.DN,
				GPOName:  l.Target,
				Enabled:  l.Enabled,
				Enforced: l.Enforced,
				Order:    l.Order,
			})
		}
	}
	return links, order, nil
}

// gpoNames maps the uppercased DN of every GPO to its display name.
func (c *collector) gpoNames() (map[string]string, error) {
	res, err := c.client.Search(ldap.FilterIsGPO, ldap.CommonName, ldap.DisplayName)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(res.Entries))
	for _, e := range res.Entries {
		name := e.GetAttributeValue(ldap.DisplayName)
		if name == "" {
			name = e.GetAttributeValue(ldap.CommonName)
		}
		names[strings.ToUpper(e.DN)] = name
	}
	return names, nil
}

// resolveLinkNames swaps the raw GPO DNs in a link order listing for
// display names where the directory knows them.
func resolveLinkNames(order []gpo.LinkOrderEntry, names map[string]string) {
	for i := range order {
		if n, ok := names[strings.ToUpper(order[i].GPOName)]; ok && n != "" {
			order[i].GPOName = n
		}
	}
}

func (c *collector) resolveTrustees(o *gpo.Object) {
	o.Owner, o.OwnerClass = c.resolveSID(o.OwnerSID)
	for i := range o.Permissions {
		p := &o.Permissions[i]
		p.Trustee, p.Class = c.resolveSID(p.SID)
		if p.Class == "" {
			log.Warn().Str("gpo", o.Name).Str("sid", p.SID.String()).Msg("trustee does not resolve")
		}
	}
}

func (c *collector) resolveSID(sid winsec.SID) (name, class string) {
	if sid.IsNull() {
		return "", ""
	}
	if n := sid.WellKnownName(); n != "" {
		return n, gpo.ClassWellKnown
	}
	n, classes, err := c.client.FindBySID(sid)
	if err != nil || len(classes) == 0 {
		return "", ""
	}
	// objectClass runs from most generic to most specific.
	switch most := classes[len(classes)-1]; most {
	case "computer":
		return n, gpo.ClassComputer
	case "user":
		return n, gpo.ClassUser
	case "group":
		return n, gpo.ClassGroup
	case "foreignSecurityPrincipal":
		return n, gpo.ClassWellKnown
	default:
		return n, most
	}
}

func (c *collector) enrichSysvol(o *gpo.Object) {
	path := filepath.Join(gpo.PolicyFolder(c.sysvol, o.GUID), "GPT.INI")
	machine, user, err := gpo.ReadGptIni(path)
	if err != nil {
		log.Warn().Str("gpo", o.Name).Err(err).Msg("no readable GPT.INI")
		return
	}
	o.Computer.SysvolVersion = machine
	o.Computer.VersionKnown = true
	o.User.SysvolVersion = user
	o.User.VersionKnown = true
}

func (c *collector) enrichReport(o *gpo.Object) {
	path := filepath.Join(c.reports, "{"+o.GUID+"}.xml")
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("gpo", o.Name).Err(err).Msg("no report file")
		return
	}
	// GPMC saves reports as UTF-16LE with a BOM.
	if bytes.HasPrefix(data, []byte{0xff, 0xfe}) {
		data = []byte(encoder.UnicodeToString(data[2:]))
	}
	data = bytes.Replace(data, []byte(`encoding="utf-16"`), []byte(`encoding="utf-8"`), 1)

	rep, err := gpo.ParseReport(bytes.NewReader(data))
	if err != nil {
		log.Warn().Str("gpo", o.Name).Err(err).Msg("unparsable report")
		return
	}
	if rep.GUID != "" && rep.GUID != o.GUID {
		log.Warn().Str("gpo", o.Name).Str("report", rep.GUID).Msg("report belongs to another policy")
		return
	}
	o.ApplyReport(rep)
}
