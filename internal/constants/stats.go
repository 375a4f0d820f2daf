package constants

// Counter names reported by the stats service.
const (
	CounterTicks         = "ticks"
	CounterSampleErrors  = "sample_errors"
	CounterSkippedLines  = "skipped_lines"
	CounterWriteErrors   = "write_errors"
	CounterPointsWritten = "points_written"
)
