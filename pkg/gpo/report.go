package gpo

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Report is the typed form of a GPMC XML report. All handling of the
// vendor document shape lives in ParseReport; nothing downstream ever
// touches the XML again.
type Report struct {
	GUID     string
	Name     string
	Computer ReportSection
	User     ReportSection
	Links    []ReportLink
}

type ReportSection struct {
	Enabled          bool
	VersionDirectory uint16
	VersionSysvol    uint16
	HasExtensionData bool
}

type ReportLink struct {
	SOMName  string
	SOMPath  string
	Enabled  bool
	Enforced bool
}

func ParseReport(r io.Reader) (*Report, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, err
	}
	root := xmlquery.FindOne(doc, "//GPO")
	if root == nil {
		return nil, fmt.Errorf("document has no GPO element")
	}

	rep := &Report{
		Name: childText(root, "Name"),
		GUID: strings.ToUpper(strings.Trim(childText(root, "Identifier/Identifier"), "{}")),
	}
	rep.Computer = parseSection(root, "Computer")
	rep.User = parseSection(root, "User")

	for _, n := range xmlquery.Find(root, "LinksTo") {
		rep.Links = append(rep.Links, ReportLink{
			SOMName:  childText(n, "SOMName"),
			SOMPath:  childText(n, "SOMPath"),
			Enabled:  childText(n, "Enabled") == "true",
			Enforced: childText(n, "NoOverride") == "true",
		})
	}
	return rep, nil
}

func parseSection(root *xmlquery.Node, name string) ReportSection {
	var s ReportSection
	n := xmlquery.FindOne(root, name)
	if n == nil {
		return s
	}
	s.Enabled = childText(n, "Enabled") == "true"
	s.VersionDirectory = childVersion(n, "VersionDirectory")
	s.VersionSysvol = childVersion(n, "VersionSysvol")
	if data := xmlquery.FindOne(n, "ExtensionData"); data != nil {
		s.HasExtensionData = strings.TrimSpace(data.InnerText()) != ""
	}
	return s
}

func childText(n *xmlquery.Node, path string) string {
	if c := xmlquery.FindOne(n, path); c != nil {
		return strings.TrimSpace(c.InnerText())
	}
	return ""
}

func childVersion(n *xmlquery.Node, path string) uint16 {
	v, err := strconv.ParseUint(childText(n, path), 10, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// ApplyReport merges report-sourced information into a snapshot: the
// per-section content and version pair, and the link list in report
// order (the first LinksTo element is the strongest link).
func (o *Object) ApplyReport(rep *Report) {
	applySection(&o.Computer, rep.Computer)
	applySection(&o.User, rep.User)

	o.Links = o.Links[:0]
	for i, l := range rep.Links {
		o.Links = append(o.Links, Link{
			Target:   l.SOMPath,
			Enabled:  l.Enabled,
			Enforced: l.Enforced,
			Order:    i + 1,
		})
	}
}

func applySection(s *SectionState, rs ReportSection) {
	s.Enabled = rs.Enabled
	s.HasContent = rs.HasExtensionData
	s.ADVersion = rs.VersionDirectory
	s.SysvolVersion = rs.VersionSysvol
	s.VersionKnown = true
}
