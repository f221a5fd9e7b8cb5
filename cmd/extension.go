package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Environment passed to extensions, on top of the current one.
const (
	EnvConfigFile = "MMD_CONFIG"
	EnvRaw        = "MMD_RAW"
)

// RunExtension attempts to find and execute an external mmd-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The global flags are passed as environment variables, GO_ENV and the
// configuration overrides are inherited.
func RunExtension(subcommand string, args []string) (bool, int) {
	lp, err := exec.LookPath("mmd-" + subcommand)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	err = cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true, 0
	case errors.As(err, &exitErr):
		return true, exitErr.ExitCode()
	default:
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", lp, err)
		return true, 1
	}
}

// extensionEnv returns the global flags as environment variables.
func extensionEnv() []string {
	config := *configFile
	if config != "" {
		if abs, err := filepath.Abs(config); err == nil {
			config = abs
		}
	}
	return []string{
		EnvConfigFile + "=" + config,
		EnvRaw + "=" + strconv.FormatBool(*rawMarkdown),
	}
}
