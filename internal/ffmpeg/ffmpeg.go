package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Executor runs ffmpeg and ffprobe subprocesses
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	threads     int
}

// New creates an executor, resolving both binaries up front
func New(logger zerolog.Logger, binaryPath string, threads int) (*Executor, error) {
	if binaryPath == "" {
		binaryPath = "ffmpeg"
	}

	ffmpegPath, err := exec.LookPath(binaryPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		threads:     threads,
	}, nil
}

// Output executes ffmpeg with the given arguments and returns raw stdout.
// Stderr is drained to the debug log line by line.
func (e *Executor) Output(ctx context.Context, args []string) ([]byte, error) {
	baseArgs := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}

	if e.threads > 0 {
		baseArgs = append(baseArgs, "-threads", strconv.Itoa(e.threads))
	}

	full := append(baseArgs, args...)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", full).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	e.logStderr(&stderr)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg execution failed: %w: %s",
			err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}

func (e *Executor) logStderr(buf *bytes.Buffer) {
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			e.logger.Debug().Str("stderr", line).Msg("ffmpeg output")
		}
	}
}
