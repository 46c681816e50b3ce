package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the command tree in-process and captures its output.
func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// writeTestConfig lays down a config file with all paths under the test's
// temp directory and returns its path alongside the source directory.
func writeTestConfig(t *testing.T) (configPath, sourceDir string) {
	t.Helper()

	base := t.TempDir()
	sourceDir = filepath.Join(base, "data")
	content := fmt.Sprintf(`[paths]
source_dir = %q
target_dir = %q
log_dir = %q
`, sourceDir, filepath.Join(base, "target_data"), filepath.Join(base, "logs"))

	configPath = filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return configPath, sourceDir
}

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create source dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}
