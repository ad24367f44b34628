package gpo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"

	"github.com/5amu/gpoaudit/pkg/encoder"
)

// PolicyFolder returns the on-disk folder of a GPO under a Policies
// directory.
func PolicyFolder(dir, guid string) string {
	return filepath.Join(dir, "{"+strings.ToUpper(strings.Trim(guid, "{}"))+"}")
}

// ReadGptIni reads the version pair a GPO stores in its GPT.INI: the
// low 16 bits count machine edits, the high 16 user edits. Some tooling
// writes the file as UTF-16LE with a BOM, which go-ini does not accept
// directly.
func ReadGptIni(path string) (machine uint16, user uint16, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	if bytes.HasPrefix(data, []byte{0xff, 0xfe}) {
		data = []byte(encoder.UnicodeToString(data[2:]))
	}
	f, err := ini.Load(data)
	if err != nil {
		return 0, 0, err
	}
	version, err := f.Section("General").Key("Version").Uint()
	if err != nil {
		return 0, 0, err
	}
	return uint16(version & 0xffff), uint16(version >> 16), nil
}

// ScanPolicyStore lists GPO-shaped folders (brace-wrapped GUID names)
// in the policy file store that have no matching directory object.
// known maps uppercase unbraced GUIDs of every GPO the directory
// returned.
func ScanPolicyStore(dir string, known map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var orphans []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "{") || !strings.HasSuffix(name, "}") {
			continue
		}
		if !known[strings.ToUpper(strings.Trim(name, "{}"))] {
			orphans = append(orphans, name)
		}
	}
	return orphans, nil
}
