package metrics_collectors

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/benmeehan/procstat-agent/internal/stats"
	"github.com/rs/zerolog"
)

// CommandRunner runs an external program and returns its standard output.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Output runs name with args and returns what it wrote to stdout, even when
// the program exits with a non-zero status.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CommandColumn returns the ps column holding the full command line for goos.
func CommandColumn(goos string) string {
	if goos == "darwin" {
		return constants.DarwinCommandColumn
	}
	return constants.DefaultCommandColumn
}

// PSCollector takes process snapshots by running ps and parsing its output.
type PSCollector struct {
	Logger   zerolog.Logger
	Runner   CommandRunner
	Counters *stats.Counters

	binary  string
	args    []string
	timeout time.Duration
}

// NewPSCollector builds a collector for the given platform. The command column
// is picked here once, not on every call. A zero timeout leaves ps unbounded.
func NewPSCollector(binary, goos string, timeout time.Duration, runner CommandRunner,
	counters *stats.Counters, logger zerolog.Logger) *PSCollector {
	if binary == "" {
		binary = constants.DefaultPSBinary
	}
	if runner == nil {
		runner = ExecRunner{}
	}

	return &PSCollector{
		Logger:   logger,
		Runner:   runner,
		Counters: counters,
		binary:   binary,
		args:     []string{"-eo", constants.PSColumnsPrefix + "," + CommandColumn(goos)},
		timeout:  timeout,
	}
}

func (p *PSCollector) Name() string {
	return constants.SourcePS
}

// CommandLine returns the full ps invocation, mostly for logging.
func (p *PSCollector) CommandLine() string {
	return p.binary + " " + strings.Join(p.args, " ")
}

// Collect runs ps once and parses every line it printed. Lines that cannot be
// parsed are dropped. Failing to run ps, or a non-zero exit that left nothing
// parseable, is an error.
func (p *PSCollector) Collect(ctx context.Context) ([]models.ProcessSample, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	out, err := p.Runner.Output(ctx, p.binary, p.args...)
	var exitErr error
	if err != nil {
		if ctx.Err() != nil {
			return nil, &ExecutionError{Command: p.CommandLine(), Err: ctx.Err()}
		}

		// ps may exit non-zero and still print a usable listing
		var coded interface{ ExitCode() int }
		if !errors.As(err, &coded) || len(strings.TrimSpace(string(out))) == 0 {
			return nil, &ExecutionError{Command: p.CommandLine(), Err: err}
		}
		p.Logger.Warn().Err(err).Int("exit_code", coded.ExitCode()).Msg("ps exited with non-zero status, using its output")
		exitErr = err
	}

	if len(strings.TrimSpace(string(out))) == 0 {
		return nil, &ExecutionError{Command: p.CommandLine(), Err: ErrNoOutput}
	}

	samples, skipped := ParseProcessListing(string(out))
	if skipped > 0 && p.Counters != nil {
		p.Counters.Add(constants.CounterSkippedLines, uint64(skipped))
	}
	// a failed ps that printed nothing parseable is a failure, not an idle host
	if exitErr != nil && len(samples) == 0 {
		return nil, &ExecutionError{Command: p.CommandLine(), Err: exitErr}
	}

	p.Logger.Debug().Int("samples", len(samples)).Int("skipped", skipped).Msg("Process listing parsed")
	return samples, nil
}

func (p *PSCollector) Description() string {
	return "Per-process CPU and memory percentages read from the ps utility."
}

// ParseProcessListing parses the full text of a ps listing, keeping samples in
// their original order. skipped counts non-empty lines other than headers that
// did not parse.
func ParseProcessListing(out string) (samples []models.ProcessSample, skipped int) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sample, ok := ParseProcessLine(line)
		if !ok {
			if !IsHeaderLine(line) {
				skipped++
			}
			continue
		}
		samples = append(samples, sample)
	}
	return samples, skipped
}
