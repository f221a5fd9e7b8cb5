package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
)

// createTempScript writes 'content' into a new script file.
func createTempScript(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "setup.txt")
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}
	return name
}

func runFmt(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	t.Setenv("GO_ENV", "test")
	cmd := &fmtCmd{}
	f := flag.NewFlagSet("fmt", flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd.Execute(context.Background(), f)
}

func TestFmt(t *testing.T) {
	script := createTempScript(t, `# collateral first
Supply unibi 200.0

{"command":"borrow","denom":"usdc","amount":"50"}
`)
	if status := runFmt(t, "-check", script); status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}

	got, err := os.ReadFile(script)
	if err != nil {
		t.Fatal(err)
	}
	if want := "supply unibi 200.0\nborrow usdc 50\n"; string(got) != want {
		t.Errorf("formatted script = %q, want %q", got, want)
	}
}

func TestFmt_CheckFailure(t *testing.T) {
	original := "borrow usdc 50\n"
	script := createTempScript(t, original)

	// formatting alone does not run the actions
	if status := runFmt(t, script); status != subcommands.ExitSuccess {
		t.Errorf("Expected ExitSuccess without -check, got %v", status)
	}

	// borrowing without collateral is rejected
	if status := runFmt(t, "-check", script); status != subcommands.ExitFailure {
		t.Errorf("Expected ExitFailure, got %v", status)
	}
	got, _ := os.ReadFile(script)
	if string(got) != original {
		t.Errorf("script changed to %q", got)
	}
}

func TestFmt_Usage(t *testing.T) {
	if status := runFmt(t); status != subcommands.ExitUsageError {
		t.Errorf("Expected ExitUsageError without scripts, got %v", status)
	}
	if status := runFmt(t, "-"); status != subcommands.ExitUsageError {
		t.Errorf("Expected ExitUsageError for stdin, got %v", status)
	}
	bad := createTempScript(t, "lend unibi 1\n")
	if status := runFmt(t, bad); status != subcommands.ExitFailure {
		t.Errorf("Expected ExitFailure for an unknown command, got %v", status)
	}
}
