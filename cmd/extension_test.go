package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	if testing.Short() {
		t.Skip("builds mmd and an extension")
	}
	tempDir := t.TempDir()

	// mmd-hello prints its arguments and the environment it receives.
	helloSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fmt.Printf("args=%%s\n", strings.Join(os.Args[1:], ","))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("GO_ENV=%%s\n", os.Getenv("GO_ENV"))
	os.Exit(3)
}
`, EnvConfigFile, EnvConfigFile, EnvRaw, EnvRaw)

	helloPath := filepath.Join(tempDir, "mmd-hello")
	srcFile := helloPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloSource), 0644); err != nil {
		t.Fatalf("Failed to write mmd-hello source: %v", err)
	}
	build := exec.Command("go", "build", "-o", helloPath, srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile mmd-hello: %v", err)
	}

	mmdPath := filepath.Join(tempDir, "mmd")
	build = exec.Command("go", "build", "-o", mmdPath, "../mmd")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile mmd: %v", err)
	}

	configPath := filepath.Join(tempDir, "mmd.yaml")
	mmd := exec.Command(mmdPath, "-raw", "-config", configPath, "hello", "a", "b")
	mmd.Dir = tempDir
	mmd.Env = []string{
		"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH"),
		"GO_ENV=test",
	}
	var stdout, stderr bytes.Buffer
	mmd.Stdout = &stdout
	mmd.Stderr = &stderr

	err := mmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok || exitErr.ExitCode() != 3 {
		t.Fatalf("mmd hello = %v, want the exit code of the extension\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{
		"args=a,b",
		EnvConfigFile + "=" + configPath,
		EnvRaw + "=true",
		"GO_ENV=test",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, output)
		}
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, code := RunExtension("nope", nil); found || code != 0 {
		t.Errorf("RunExtension() = %v, %d, want false, 0", found, code)
	}
}
