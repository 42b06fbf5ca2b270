package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/gitcfg/internal/conf"
)

type result struct {
	stdout string
	stderr string
	code   int
}

// run executes the command line against a fresh app and reports the exit
// code instead of exiting.
func run(t *testing.T, settings conf.Config, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp(settings)
	app.Writer = &stdout
	app.ErrWriter = &stderr

	code := 0
	app.ExitErrHandler = func(_ *cli.Context, err error) {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			code = exitErr.ExitCode()
			if msg := exitErr.Error(); msg != "" {
				stderr.WriteString(msg)
			}
		}
	}

	if err := app.Run(append([]string{"gitcfg"}, args...)); err != nil && code == 0 {
		code = exitError
	}
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "first")
	second := filepath.Join(tmpDir, "second")

	if err := os.WriteFile(first, []byte("[core]\n\tpager = less\n\tbare\n[pack]\n\twindowMemory = 4g\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := os.WriteFile(second, []byte("[core]\n\tpager = delta\n\texcludesFile = ~/ignore\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return first, second
}

func TestGet(t *testing.T) {
	first, second := writeFixtures(t)
	settings := conf.Config{LogLevel: slog.LevelError, HomeDir: "/srv/home"}

	tests := []struct {
		name     string
		args     []string
		expected result
	}{
		{
			name:     "last file wins",
			args:     []string{"-f", first, "-f", second, "get", "core.pager"},
			expected: result{stdout: "delta\n"},
		},
		{
			name:     "order matters",
			args:     []string{"-f", second, "-f", first, "get", "core.pager"},
			expected: result{stdout: "less\n"},
		},
		{
			name:     "flag as bool",
			args:     []string{"-f", first, "get", "--type", "bool", "core.bare"},
			expected: result{stdout: "true\n"},
		},
		{
			name:     "unit suffix",
			args:     []string{"-f", first, "get", "-t", "ulong", "pack.windowmemory"},
			expected: result{stdout: "4294967296\n"},
		},
		{
			name:     "path expansion uses home-dir",
			args:     []string{"-f", second, "get", "-t", "path", "core.excludesfile"},
			expected: result{stdout: "/srv/home/ignore\n"},
		},
		{
			name:     "absent key",
			args:     []string{"-f", first, "get", "user.name"},
			expected: result{code: exitAbsent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, settings, tt.args...)
			if diff := cmp.Diff(tt.expected, got, cmp.AllowUnexported(result{})); diff != "" {
				t.Errorf("run() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet_Errors(t *testing.T) {
	first, _ := writeFixtures(t)
	settings := conf.Config{LogLevel: slog.LevelError}

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{
			name:    "type error names file and key",
			args:    []string{"-f", first, "get", "-t", "int", "core.pager"},
			message: "'core.pager' in file " + first + " at line 2",
		},
		{
			name:    "overflow",
			args:    []string{"-f", first, "get", "-t", "int", "pack.windowmemory"},
			message: "value out of range",
		},
		{
			name:    "unknown type",
			args:    []string{"-f", first, "get", "-t", "color", "core.pager"},
			message: "unknown type",
		},
		{
			name:    "missing file",
			args:    []string{"-f", first + ".missing", "get", "core.pager"},
			message: "no such file",
		},
		{
			name:    "invalid key",
			args:    []string{"-f", first, "get", "pager"},
			message: "invalid config key",
		},
		{
			name:    "missing key argument",
			args:    []string{"get"},
			message: "expected exactly one key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, settings, tt.args...)
			if got.code != exitError {
				t.Errorf("expected exit code %d, got %d", exitError, got.code)
			}
			if !strings.Contains(got.stderr, tt.message) {
				t.Errorf("expected stderr to contain %q, got %q", tt.message, got.stderr)
			}
		})
	}
}

func TestGet_ParseError(t *testing.T) {
	tmpDir := t.TempDir()
	broken := filepath.Join(tmpDir, "broken")
	if err := os.WriteFile(broken, []byte("[core]\n\tpager = \"less\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	got := run(t, conf.Config{LogLevel: slog.LevelError}, "-f", broken, "get", "core.pager")
	if got.code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, got.code)
	}
	if want := "bad config line 2 in file " + broken; !strings.Contains(got.stderr, want) {
		t.Errorf("expected stderr to contain %q, got %q", want, got.stderr)
	}
}

func TestSettingsFiles(t *testing.T) {
	first, second := writeFixtures(t)
	settings := conf.Config{
		LogLevel: slog.LevelError,
		Files:    []string{first, filepath.Join(t.TempDir(), "does-not-exist")},
	}

	// settings files come first, so --file overrides them
	got := run(t, settings, "-f", second, "get", "core.pager")
	if diff := cmp.Diff(result{stdout: "delta\n"}, got, cmp.AllowUnexported(result{})); diff != "" {
		t.Errorf("run() mismatch (-want +got):\n%s", diff)
	}

	got = run(t, settings, "get", "core.pager")
	if diff := cmp.Diff(result{stdout: "less\n"}, got, cmp.AllowUnexported(result{})); diff != "" {
		t.Errorf("run() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAll(t *testing.T) {
	first, second := writeFixtures(t)
	settings := conf.Config{LogLevel: slog.LevelError}

	got := run(t, settings, "-f", first, "-f", second, "get-all", "core.pager")
	if diff := cmp.Diff(result{stdout: "less\ndelta\n"}, got, cmp.AllowUnexported(result{})); diff != "" {
		t.Errorf("run() mismatch (-want +got):\n%s", diff)
	}

	got = run(t, settings, "-f", first, "get-all", "user.name")
	if got.code != exitAbsent {
		t.Errorf("expected exit code %d, got %d", exitAbsent, got.code)
	}
}

func TestList(t *testing.T) {
	first, second := writeFixtures(t)
	settings := conf.Config{LogLevel: slog.LevelError}

	t.Run("text", func(t *testing.T) {
		got := run(t, settings, "-f", first, "-f", second, "list")
		expected := `core.pager=less
core.bare
pack.windowmemory=4g
core.pager=delta
core.excludesfile=~/ignore
`
		if diff := cmp.Diff(expected, got.stdout); diff != "" {
			t.Errorf("list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("text with origin", func(t *testing.T) {
		got := run(t, settings, "-f", first, "list", "--show-origin")
		expected := "file:" + first + ":2\tcore.pager=less\n" +
			"file:" + first + ":3\tcore.bare\n" +
			"file:" + first + ":5\tpack.windowmemory=4g\n"
		if diff := cmp.Diff(expected, got.stdout); diff != "" {
			t.Errorf("list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		got := run(t, settings, "-f", first, "-f", second, "list", "--format", "yaml")
		expected := `core.pager: delta
core.bare: true
pack.windowmemory: 4g
core.excludesfile: ~/ignore
`
		if diff := cmp.Diff(expected, got.stdout); diff != "" {
			t.Errorf("list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		got := run(t, settings, "-f", first, "list", "--format", "xml")
		if got.code != exitError {
			t.Errorf("expected exit code %d, got %d", exitError, got.code)
		}
	})
}

func TestLogLevel(t *testing.T) {
	first, _ := writeFixtures(t)

	got := run(t, conf.Config{}, "--log-level", "LOUD", "-f", first, "get", "core.pager")
	if got.code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, got.code)
	}

	got = run(t, conf.Config{}, "--log-level", "debug", "-f", first, "get", "core.pager")
	if got.stdout != "less\n" {
		t.Errorf("expected less, got %q", got.stdout)
	}
	if !strings.Contains(got.stderr, "loaded config file") {
		t.Errorf("expected debug log on stderr, got %q", got.stderr)
	}
}
