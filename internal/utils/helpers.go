package utils

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/host"
)

// ResolveHostname returns override when set, otherwise the hostname reported
// by the OS. It is called once at startup.
func ResolveHostname(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read host info: %w", err)
	}
	if info.Hostname == "" {
		return "", fmt.Errorf("host reported an empty hostname")
	}
	return info.Hostname, nil
}
