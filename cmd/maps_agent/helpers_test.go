package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCommand executes the root command in-process and returns its standard output.
// Flags are reset afterwards so tests do not leak values into each other.
func runCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetFlags)
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	if stdin != nil {
		rootCmd.SetIn(stdin)
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	rootCmd.SetIn(nil)
	rootCmd.SetArgs(nil)
}

// isolateEnv points the CLI at a fresh local store and clears settings a developer .env may carry.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_PATH", dir)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MODEL_API_KEY", "")
	t.Setenv("MODEL_PROVIDER", "")
	t.Setenv("JWT_SECRET", "")
	return dir
}
