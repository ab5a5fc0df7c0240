package cli

import (
	"io"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.Logger == nil {
		t.Fatal("New() returned CLI without logger")
	}
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}

	want := []string{"layout", "render", "simulate", "report", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,dot,json", []string{"svg", "dot", "json"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		format string
		multi  bool
		want   string
	}{
		{"", "svg", false, "diagram.svg"},
		{"", "dot", true, "diagram.dot"},
		{"out.svg", "svg", false, "out.svg"},
		{"diagram.svg", "dot", true, "diagram.dot"},
		{"diagram", "json", true, "diagram.json"},
	}

	for _, tt := range tests {
		got := outputPath(tt.output, tt.format, tt.multi)
		if got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q",
				tt.output, tt.format, tt.multi, got, tt.want)
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %q, want a %q directory", dir, appName)
	}
}
