package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractTargetsCIDR(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single host range", "192.168.1.10/32", []string{"192.168.1.10"}},
		{"point to point range", "192.168.1.10/31", []string{"192.168.1.10", "192.168.1.11"}},
		{"small range drops network and broadcast", "192.168.1.0/30", []string{"192.168.1.1", "192.168.1.2"}},
		{"plain host passes through", "dc01.example.com", []string{"dc01.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTargets([]string{tt.in})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTargets(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractTargetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.txt")
	if err := os.WriteFile(path, []byte("host1\nhost2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := ExtractTargets([]string{path})
	if !reflect.DeepEqual(got, []string{"host1", "host2"}) {
		t.Errorf("ExtractTargets = %v", got)
	}
}

func TestExtractTargetsUnreadableEntrySkipped(t *testing.T) {
	// A directory stats fine but cannot be read as a line list.
	got := ExtractTargets([]string{t.TempDir()})
	if len(got) != 0 {
		t.Errorf("ExtractTargets = %v, want none", got)
	}
}
