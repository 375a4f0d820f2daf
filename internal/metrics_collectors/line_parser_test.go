package metrics_collectors

import (
	"testing"

	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseProcessLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   models.ProcessSample
		wantOK bool
	}{
		{
			name:   "simple command",
			line:   "101 1 2.5 10.0 /bin/app",
			want:   models.ProcessSample{PID: 101, PPID: 1, MemPercent: 2.5, CPUPercent: 10.0, Command: "/bin/app"},
			wantOK: true,
		},
		{
			name:   "command with arguments keeps inner whitespace",
			line:   "4242 17 0.0 123.4 /usr/bin/python3  -m   http.server 8080",
			want:   models.ProcessSample{PID: 4242, PPID: 17, MemPercent: 0, CPUPercent: 123.4, Command: "/usr/bin/python3  -m   http.server 8080"},
			wantOK: true,
		},
		{
			name:   "tab separated columns",
			line:   "7\t0\t.5\t3\t[kthreadd]",
			want:   models.ProcessSample{PID: 7, PPID: 0, MemPercent: 0.5, CPUPercent: 3, Command: "[kthreadd]"},
			wantOK: true,
		},
		{name: "header", line: "PID PPID %MEM %CPU CMD"},
		{name: "lowercase header", line: "pid ppid %mem %cpu command"},
		{name: "missing command", line: "101 1 2.5 10.0"},
		{name: "non numeric pid", line: "abc 1 2.5 10.0 /bin/app"},
		{name: "garbled float", line: "101 1 2.5.1 10.0 /bin/app"},
		{name: "negative value", line: "101 1 -2.5 10.0 /bin/app"},
		{name: "too few columns", line: "101 /bin/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseProcessLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProcessLine_Deterministic(t *testing.T) {
	line := "300 299 12.25 0.5 /opt/db/bin/postgres -D /var/lib/postgres"

	first, ok1 := ParseProcessLine(line)
	second, ok2 := ParseProcessLine(line)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestIsHeaderLine(t *testing.T) {
	assert.True(t, IsHeaderLine("PID PPID %MEM %CPU CMD"))
	assert.True(t, IsHeaderLine("  Pid  PPID %MEM %CPU COMMAND"))
	assert.False(t, IsHeaderLine("PIDFILE 1 2.0 3.0 x"))
	assert.False(t, IsHeaderLine("101 1 2.5 10.0 /bin/app"))
	assert.False(t, IsHeaderLine(""))
}
