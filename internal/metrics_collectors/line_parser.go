package metrics_collectors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/benmeehan/procstat-agent/internal/models"
)

// psLineRegex matches "PID PPID %MEM %CPU COMMAND..." where the command is
// the rest of the line.
var psLineRegex = regexp.MustCompile(`^([0-9]+)\s+([0-9]+)\s+([.0-9]+)\s+([.0-9]+)\s+(.*)$`)

// IsHeaderLine reports whether line is the column header of ps output.
func IsHeaderLine(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.EqualFold(fields[0], "pid")
}

// ParseProcessLine parses one trimmed line of ps output. It returns false for
// header lines and for anything that does not have the expected shape.
func ParseProcessLine(line string) (models.ProcessSample, bool) {
	if IsHeaderLine(line) {
		return models.ProcessSample{}, false
	}

	m := psLineRegex.FindStringSubmatch(line)
	if m == nil {
		return models.ProcessSample{}, false
	}

	pid, err := strconv.Atoi(m[1])
	if err != nil {
		return models.ProcessSample{}, false
	}
	ppid, err := strconv.Atoi(m[2])
	if err != nil {
		return models.ProcessSample{}, false
	}
	mem, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return models.ProcessSample{}, false
	}
	cpu, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return models.ProcessSample{}, false
	}

	return models.ProcessSample{
		PID:        pid,
		PPID:       ppid,
		MemPercent: mem,
		CPUPercent: cpu,
		Command:    m[5],
	}, true
}
