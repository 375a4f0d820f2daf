package constants

import "time"

const (
	// DefaultInterval is the pause between two sampling ticks.
	DefaultInterval = 1 * time.Second
	// DefaultProcCount is the top-N cap for both the cpu and mem rankings.
	DefaultProcCount = 10
	// ProcessTagMaxLen caps the process tag taken from a command line.
	ProcessTagMaxLen = 50
)

// Process sources
const (
	SourcePS       = "ps"
	SourceGopsutil = "gopsutil"
)

const (
	// DefaultPSBinary is the process-listing utility invoked by the ps source.
	DefaultPSBinary = "ps"
	// PSColumnsPrefix lists the columns requested before the command column.
	PSColumnsPrefix = "pid,ppid,%mem,%cpu"
	// DarwinCommandColumn is the full-command column name on darwin.
	DarwinCommandColumn = "command"
	// DefaultCommandColumn is the full-command column name everywhere else.
	DefaultCommandColumn = "cmd"
)
