package base

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/canvas-tools/canvasctl/internal/version"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/config"
	"github.com/canvas-tools/canvasctl/pkg/envelope"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
	"github.com/canvas-tools/canvasctl/pkg/ops"
)

// Runtime is the per-invocation context handed to a command handler.
type Runtime struct {
	Ctx      context.Context
	Config   config.Resolved
	Client   *apiclient.Client
	Registry *ops.Registry
	Log      hclog.Logger
	FS       afero.Fs
	Stdin    io.Reader

	newStream func() *envelope.StreamWriter
}

// Stream returns an NDJSON writer over the primary output channel. The
// handler that uses it must report Streamed in its result.
func (rt *Runtime) Stream() *envelope.StreamWriter {
	return rt.newStream()
}

// Result is what a handler returns on success.
type Result struct {
	// Data is the payload wrapped in a success envelope.
	Data any

	// Warnings surface in the success envelope without failing the call.
	Warnings []string

	// Partial, when set, replaces Data with a partial envelope and maps to
	// the partial-failure exit code unless ExitCode overrides it.
	Partial *envelope.PartialData

	// Streamed means output was already fully emitted as NDJSON and no
	// envelope must be written.
	Streamed bool

	// ExitCode overrides the success exit code; dry-run handlers set 40.
	ExitCode int
}

// Handler is the command-specific logic invoked by Execute.
type Handler func(rt *Runtime) (*Result, error)

// Execute runs one invocation through the harness state machine:
// RESOLVING -> EXECUTING -> EMITTING. Exactly one envelope (or, for
// streamed output, the already-written summary line) reaches stdout on
// every path, and the returned exit code follows the taxonomy table.
//
// usesStdin must be true when any command flag requested stdin consumption
// (a literal "-" marker); combining that with -token-stdin is rejected
// before execution.
func (c *Command) Execute(name string, f *FlagSet, usesStdin bool, handler Handler) int {
	start := time.Now()

	meta := func() envelope.Metadata {
		return envelope.Metadata{
			Command:       name,
			DurationMS:    time.Since(start).Milliseconds(),
			Version:       version.Version,
			SchemaVersion: envelope.SchemaVersion,
		}
	}

	writer := &envelope.Writer{Out: c.Stdout, FS: c.FS}

	fail := func(err error) int {
		taxErr := errcode.From(err)
		if writeErr := writer.Write(envelope.FromError(taxErr, meta())); writeErr != nil {
			c.UI.Error(fmt.Sprintf("failed to write error envelope: %v", writeErr))
		}
		if !c.flagQuiet {
			c.UI.Error(fmt.Sprintf("%s: %s", taxErr.Code, taxErr.Message))
		}
		return taxErr.Code.ExitCode()
	}

	// RESOLVING.
	if c.flagTokenStdin && usesStdin {
		return fail(errcode.New(errcode.InvalidArgument,
			"-token-stdin cannot be combined with another argument that reads stdin"))
	}

	stdinToken := ""
	if c.flagTokenStdin {
		token, err := readSecret(c.Stdin)
		if err != nil {
			return fail(errcode.New(errcode.InvalidArgument, "failed to read token from stdin").WithCause(err))
		}
		stdinToken = token
	}

	configPath := c.ConfigPath
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fail(errcode.New(errcode.ConfigError, "cannot locate config file").WithCause(err))
		}
		configPath = p
	}
	file, err := config.Load(c.FS, configPath)
	if err != nil {
		return fail(err)
	}

	resolved, err := config.Resolve(c.overrides(f, stdinToken), c.Env, file)
	if err != nil {
		return fail(err)
	}
	writer.Pretty = resolved.Pretty
	writer.CopyPath = resolved.OutputPath
	if resolved.Quiet {
		c.flagQuiet = true
	}

	registryPath := c.RegistryPath
	if registryPath == "" {
		p, err := ops.DefaultPath()
		if err != nil {
			return fail(errcode.New(errcode.ConfigError, "cannot locate operation registry").WithCause(err))
		}
		registryPath = p
	}

	rt := &Runtime{
		Ctx:      context.Background(),
		Config:   resolved,
		Client:   apiclient.New(resolved.ClientConfig(), c.Log),
		Registry: ops.NewRegistry(c.FS, registryPath, c.Log),
		Log:      c.Log.Named(strings.ReplaceAll(name, " ", ".")),
		FS:       c.FS,
		Stdin:    c.Stdin,
		newStream: func() *envelope.StreamWriter {
			return envelope.NewStreamWriter(c.Stdout)
		},
	}

	// EXECUTING. The harness is the single catch point: panics and
	// unrecognized failures are coerced into INTERNAL_ERROR.
	var res *Result
	err = func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = errcode.Newf(errcode.InternalError, "panic: %v", p)
			}
		}()
		res, err = handler(rt)
		return err
	}()
	if err != nil {
		return fail(err)
	}
	if res == nil {
		res = &Result{}
	}

	// EMITTING.
	if res.Streamed {
		if res.ExitCode != 0 {
			return res.ExitCode
		}
		return errcode.ExitSuccess
	}

	var env envelope.Envelope
	if res.Partial != nil {
		env = envelope.Partial(*res.Partial, meta())
	} else {
		env = envelope.Success(res.Data, res.Warnings, meta())
	}
	if err := writer.Write(env); err != nil {
		// A failed -output copy is only a warning: stdout already holds the
		// envelope.
		var copyErr *envelope.CopyError
		if !errors.As(err, &copyErr) {
			c.UI.Error(fmt.Sprintf("failed to write envelope: %v", err))
			return errcode.ExitInternal
		}
		c.UI.Error(fmt.Sprintf("warning: %v", copyErr))
	}

	switch {
	case res.ExitCode != 0:
		return res.ExitCode
	case res.Partial != nil:
		return errcode.ExitPartialFailure
	default:
		return errcode.ExitSuccess
	}
}

// overrides converts explicitly-set flags into config overrides. Visit only
// reports flags present on the command line, which keeps "flag not given"
// distinct from "flag given with the default value".
func (c *Command) overrides(f *FlagSet, stdinToken string) config.Overrides {
	o := config.Overrides{
		Profile:    c.flagProfile,
		Token:      c.flagToken,
		StdinToken: stdinToken,
		BaseURL:    c.flagBaseURL,
		APIVersion: c.flagAPIVersion,
		Quiet:      c.flagQuiet,
		OutputPath: c.flagOutput,
	}
	if c.flagTimeout > 0 {
		o.Timeout = c.flagTimeout
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "retries":
			retries := c.flagRetries
			o.Retries = &retries
		case "pretty":
			pretty := c.flagPretty
			o.Pretty = &pretty
		}
	})
	return o
}

// Fail emits an error envelope for a failure that happens before the
// harness can run, such as a flag parsing error. Envelope totality holds on
// this path too: the envelope reaches stdout and the exit code follows the
// taxonomy.
func (c *Command) Fail(name string, err error) int {
	taxErr := errcode.From(err)
	writer := &envelope.Writer{Out: c.Stdout, FS: c.FS}
	meta := envelope.Metadata{
		Command:       name,
		Version:       version.Version,
		SchemaVersion: envelope.SchemaVersion,
	}
	if writeErr := writer.Write(envelope.FromError(taxErr, meta)); writeErr != nil {
		c.UI.Error(fmt.Sprintf("failed to write error envelope: %v", writeErr))
	}
	if !c.flagQuiet {
		c.UI.Error(fmt.Sprintf("%s: %s", taxErr.Code, taxErr.Message))
	}
	return taxErr.Code.ExitCode()
}

// readSecret reads a single trimmed line, the piped token.
func readSecret(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("stdin was empty")
	}
	token := strings.TrimSpace(scanner.Text())
	if token == "" {
		return "", fmt.Errorf("stdin was empty")
	}
	return token, nil
}
