package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vertcut/vertcut/internal/config"
	"github.com/vertcut/vertcut/internal/pipeline"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <video-id>",
		Short: "Download a video, propose viral segments and render vertical shorts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0])
		},
	}
	cmd.Flags().String("work", "", "Work directory for downloads and scratch state (overrides config)")
	cmd.Flags().Int("max-height", -1, "Cap download resolution in pixels, 0 for best (overrides config)")
	return cmd
}

func runRun(cmd *cobra.Command, videoID string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if work, _ := cmd.Flags().GetString("work"); work != "" {
		fileCfg.WorkDir = work
	}
	if maxHeight, _ := cmd.Flags().GetInt("max-height"); maxHeight >= 0 {
		fileCfg.MaxHeight = maxHeight
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := newProgress(cmd.ErrOrStderr())
	cfg := pipeline.Config{
		VideoID:       videoID,
		WorkDir:       fileCfg.WorkDir,
		OutDir:        fileCfg.OutDir,
		Smoothing:     fileCfg.Smoothing,
		FFmpegPath:    fileCfg.FFmpegPath,
		FFprobePath:   fileCfg.FFprobePath,
		YtdlpPath:     fileCfg.YtdlpPath,
		CascadePath:   fileCfg.CascadePath,
		MaxHeight:     fileCfg.MaxHeight,
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		Logf:          logfTo(cmd.ErrOrStderr()),
		Progress:      bar.update,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	manifest, err := pipeline.Run(ctx, cfg)
	bar.finish()
	if err != nil {
		return err
	}
	renderManifestTable(cmd.OutOrStdout(), manifest)
	return nil
}

// loadConfig resolves the file config plus the persistent overrides
// shared by all subcommands.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.OutDir = out
	}
	if smoothing, _ := cmd.Flags().GetFloat64("smoothing"); smoothing >= 0 {
		cfg.Smoothing = smoothing
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
