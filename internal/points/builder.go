// Package points turns ranked process samples into backend-neutral metric points.
package points

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/models"
)

// ConfigurationError reports a programming or startup mistake that must stop
// the agent rather than be skipped.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Build converts sample into a point for metric. now is supplied by the caller
// so every point of a tick shares one timestamp.
func Build(sample models.ProcessSample, metric models.Metric, hostname string, now time.Time) (models.MetricPoint, error) {
	value, err := sample.Value(metric)
	if err != nil {
		return models.MetricPoint{}, &ConfigurationError{Reason: fmt.Sprintf("cannot build point: %v", err)}
	}

	return models.MetricPoint{
		Measurement: string(metric),
		Tags: models.PointTags{
			Hostname: hostname,
			PID:      sample.PID,
			PPID:     sample.PPID,
			Process:  TruncateProcess(sample.Command),
		},
		Timestamp: now.UTC().Truncate(time.Second),
		Fields:    models.PointFields{Value: value},
	}, nil
}

// TruncateProcess returns the first ProcessTagMaxLen characters of command.
// The result is always a byte prefix of command, invalid UTF-8 included.
func TruncateProcess(command string) string {
	offset := 0
	for i := 0; i < constants.ProcessTagMaxLen; i++ {
		if offset >= len(command) {
			return command
		}
		_, size := utf8.DecodeRuneInString(command[offset:])
		offset += size
	}
	return command[:offset]
}
