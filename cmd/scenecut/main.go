package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/scenecut/internal/annotate"
	"github.com/kikiluvv/scenecut/internal/config"
	"github.com/kikiluvv/scenecut/internal/ffmpeg"
	"github.com/kikiluvv/scenecut/internal/logging"
	"github.com/kikiluvv/scenecut/internal/scenes"
	"github.com/kikiluvv/scenecut/internal/segmenter"
	"github.com/kikiluvv/scenecut/pkg/util"
)

var (
	cfgFile string
	verbose bool

	segInterval  float64
	segThreshold float64
	segFixed     float64
	segOut       string
	segAnnotate  bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scenecut",
	Short: "scenecut - video scene segmentation",
	Long:  "Detects scene boundaries in video files by sampling frames and scoring luminance changes, with an optional fixed-interval mode.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	segmentCmd.Flags().Float64Var(&segInterval, "interval", 0, "sampling interval in seconds (overrides config)")
	segmentCmd.Flags().Float64Var(&segThreshold, "threshold", -1, "cut detection threshold (overrides config)")
	segmentCmd.Flags().Float64Var(&segFixed, "fixed", -1, "fixed segment length in seconds, 0 for adaptive cuts (overrides config)")
	segmentCmd.Flags().StringVar(&segOut, "out", "", "directory for scene thumbnails (default: work dir)")
	segmentCmd.Flags().BoolVar(&segAnnotate, "annotate", false, "describe each scene with the configured vision model")

	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
}

var segmentCmd = &cobra.Command{
	Use:   "segment [input video]",
	Short: "Segment a video into scenes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		segCfg := segmenter.Config{
			SampleInterval:   cfg.Segment.SampleInterval,
			DiffThreshold:    cfg.Segment.DiffThreshold,
			FixedSegment:     cfg.Segment.FixedSegment,
			MaxDimension:     cfg.Segment.MaxDimension,
			ThumbnailQuality: cfg.Segment.ThumbnailQuality,
		}
		if segInterval > 0 {
			segCfg.SampleInterval = segInterval
		}
		if segThreshold >= 0 {
			segCfg.DiffThreshold = segThreshold
		}
		if segFixed >= 0 {
			segCfg.FixedSegment = segFixed
		}
		segCfg.Progress = func(percent int) {
			log.Debug().Int("percent", percent).Msg("segmenting")
		}

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		src, err := ffmpeg.OpenVideo(cmd.Context(), log.Logger, exec, args[0])
		if err != nil {
			return err
		}

		seg, err := segmenter.New(log.Logger, segCfg)
		if err != nil {
			return err
		}

		res, err := seg.Run(cmd.Context(), src)
		if err != nil {
			return err
		}

		manager := scenes.NewManager(res.Scenes)

		outDir := segOut
		if outDir == "" {
			outDir = cfg.WorkDir
		}
		if err := writeThumbnails(outDir, manager); err != nil {
			return err
		}

		if segAnnotate {
			if err := annotateScenes(cmd.Context(), cfg, manager); err != nil {
				return err
			}
		}

		for _, sc := range manager.Scenes() {
			line := fmt.Sprintf("scene %03d  %s - %s", sc.ID,
				util.FormatSeconds(sc.Start), util.FormatSeconds(sc.End))
			if text, ok := manager.Annotation(sc.ID); ok {
				line += "  " + text
			}
			fmt.Println(line)
		}

		log.Info().
			Int("scenes", len(res.Scenes)).
			Str("thumbnails", outDir).
			Msg("segmentation complete")

		return nil
	},
}

func writeThumbnails(dir string, m *scenes.Manager) error {
	if err := util.EnsureDir(dir); err != nil {
		return err
	}
	for _, sc := range m.Scenes() {
		path := filepath.Join(dir, fmt.Sprintf("scene_%03d.jpg", sc.ID))
		if err := os.WriteFile(path, sc.Thumbnail, 0644); err != nil {
			return fmt.Errorf("failed to write thumbnail for scene %d: %w", sc.ID, err)
		}
	}
	return nil
}

func annotateScenes(ctx context.Context, cfg *config.Config, m *scenes.Manager) error {
	ann, err := annotate.NewOpenAIAnnotator(log.Logger, annotate.Config{
		Model:   cfg.Annotate.Model,
		BaseURL: cfg.Annotate.BaseURL,
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Prompt:  cfg.Annotate.Prompt,
	})
	if err != nil {
		return err
	}
	defer ann.Close()

	return annotate.AnnotateAll(ctx, log.Logger, ann, m)
}

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Print video stream information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		info, err := exec.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("file:     %s\n", info.FilePath)
		fmt.Printf("duration: %s\n", util.FormatSeconds(info.Duration))
		fmt.Printf("size:     %dx%d\n", info.Width, info.Height)
		fmt.Printf("fps:      %.3f\n", info.FPS)
		fmt.Printf("codec:    %s\n", info.VideoCodec)

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		path := cfgFile
		if path == "" {
			path = "config.yaml"
		}
		if util.FileExists(path) {
			return fmt.Errorf("%s already exists", path)
		}
		if err := cfg.Save(path); err != nil {
			return err
		}

		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
