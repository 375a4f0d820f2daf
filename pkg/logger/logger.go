package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely the agent logs.
type Options struct {
	Level      string `yaml:"level"`        // debug, info, warn or error
	Console    bool   `yaml:"console"`      // human readable output instead of JSON on stdout
	File       string `yaml:"file"`         // optional rotating log file
	MaxSizeMB  int    `yaml:"max_size_mb"`  // size that triggers rotation
	MaxBackups int    `yaml:"max_backups"`  // rotated files kept
	MaxAgeDays int    `yaml:"max_age_days"` // age after which rotated files are removed
	Compress   bool   `yaml:"compress"`     // gzip rotated files
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.Level == "" {
		o.Level = zerolog.InfoLevel.String()
	}
	if o.MaxSizeMB == 0 {
		o.MaxSizeMB = 100
	}
	if o.MaxBackups == 0 {
		o.MaxBackups = 3
	}
	if o.MaxAgeDays == 0 {
		o.MaxAgeDays = 28
	}
}

// New builds the process logger. Output always goes to stdout, and also to a
// rotating file when opts.File is set. The returned closer releases the file.
func New(opts Options, stdout io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var out io.Writer = stdout
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		out = zerolog.MultiLevelWriter(out, rotating)
		closer = rotating
	}

	log := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return log, closer, nil
}

// Default is the logger used before the configuration is loaded.
func Default() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
