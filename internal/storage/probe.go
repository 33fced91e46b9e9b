package storage

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// probeDuration asks ffprobe for the container duration in whole seconds.
// Probing is best effort; any failure yields zero and a log line.
func probeDuration(ctx context.Context, path string) int {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		slog.Warn("storage: ffprobe failed", "path", path, "error", err)
		return 0
	}

	durationStr := strings.TrimSpace(string(output))
	durationFloat, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		slog.Warn("storage: failed to parse ffprobe duration", "value", durationStr, "error", err)
		return 0
	}

	duration := int(durationFloat)
	if duration < 0 {
		return 0
	}
	return duration
}
