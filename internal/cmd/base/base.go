// Package base carries the shared command plumbing: the flag set wrapper,
// the per-invocation execution harness, and the runtime handed to each
// command handler.
package base

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

// Command is embedded by every canvasctl command. It carries the I/O
// channels and the shared flags resolved by the harness.
type Command struct {
	UI  cli.Ui
	Log hclog.Logger

	// FS is the filesystem used for the config file, the operation
	// registry and output-file copies. Tests swap in a MemMapFs.
	FS afero.Fs

	// Stdout is the primary output channel: envelopes and stream lines
	// only. Diagnostics go through UI (stderr).
	Stdout io.Writer
	Stdin  io.Reader

	// Env reads environment variables; injected for tests.
	Env func(string) string

	// ConfigPath and RegistryPath override the default file locations when
	// non-empty.
	ConfigPath   string
	RegistryPath string

	flagProfile    string
	flagToken      string
	flagTokenStdin bool
	flagBaseURL    string
	flagAPIVersion string
	flagTimeout    time.Duration
	flagRetries    int
	flagPretty     bool
	flagQuiet      bool
	flagOutput     string
}

// NewCommand creates the shared command core bound to the real process
// environment.
func NewCommand(ui cli.Ui, log hclog.Logger) *Command {
	return &Command{
		UI:     ui,
		Log:    log,
		FS:     afero.NewOsFs(),
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		Env:    os.Getenv,
	}
}

// FlagSet wraps flag.FlagSet with help rendering for command Help() output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps a standard flag set. Parse errors are reported by the
// harness, not by the flag package itself.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the flag table appended to every command's Help() text.
func (f *FlagSet) Help() string {
	type entry struct{ name, usage, def string }
	var entries []entry
	f.VisitAll(func(fl *flag.Flag) {
		entries = append(entries, entry{fl.Name, fl.Usage, fl.DefValue})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	var b strings.Builder
	b.WriteString("\n\nFlags:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  -%s\n", e.name)
		usage := e.usage
		if e.def != "" && e.def != "false" && e.def != "0" && e.def != "-1" && e.def != "0s" {
			usage = fmt.Sprintf("%s Default: %s.", usage, e.def)
		}
		fmt.Fprintf(&b, "      %s\n", usage)
	}
	return b.String()
}

// NewFlagSet creates a flag set pre-populated with the shared flags every
// command accepts.
func (c *Command) NewFlagSet(name string) *FlagSet {
	f := NewFlagSet(flag.NewFlagSet(name, flag.ContinueOnError))

	f.StringVar(&c.flagProfile, "profile", "", "Configuration profile to use.")
	f.StringVar(&c.flagToken, "token", "", "API token. Overrides every other token source.")
	f.BoolVar(&c.flagTokenStdin, "token-stdin", false,
		"Read the API token from standard input.")
	f.StringVar(&c.flagBaseURL, "base-url", "", "API base URL.")
	f.StringVar(&c.flagAPIVersion, "api-version", "", "Value for the Canvas-Version header.")
	f.DurationVar(&c.flagTimeout, "timeout", 0, "Per-attempt request timeout, e.g. 30s.")
	f.IntVar(&c.flagRetries, "retries", -1, "Additional attempts after the first request.")
	f.BoolVar(&c.flagPretty, "pretty", false, "Pretty-print the JSON envelope.")
	f.BoolVar(&c.flagQuiet, "quiet", false,
		"Suppress the human-readable error line on stderr.")
	f.StringVar(&c.flagOutput, "output", "",
		"Also write a byte-identical copy of the envelope to this file.")

	return f
}
