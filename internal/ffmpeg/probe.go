package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/kikiluvv/scenecut/pkg/util"
)

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath   string
	Duration   float64 // seconds; <= 0 when the container reports none
	Width      int
	Height     int
	FPS        float64
	VideoCodec string
}

// Probe extracts metadata from a video file
func (e *Executor) Probe(ctx context.Context, filePath string) (*VideoInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &VideoInfo{
		FilePath: filePath,
	}

	// Plain seconds from -show_format, or clock-style from container tags
	if dur, err := util.ParseTimestamp(probe.Format.Duration); err == nil {
		info.Duration = dur
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		info.Width = stream.Width
		info.Height = stream.Height
		info.VideoCodec = stream.CodecName

		// r_frame_rate comes back as a fraction (e.g., "30/1")
		if stream.RFrameRate != "" {
			info.FPS = util.ParseFrameRate(stream.RFrameRate)
		}
		break
	}

	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("no video stream found in %s", filePath)
	}

	return info, nil
}

// probeResult matches ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}
