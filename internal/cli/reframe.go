package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vertcut/vertcut/internal/pipeline"
)

func newReframeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reframe <clip.mp4> [more clips...]",
		Short: "Face-track and crop local clips to 9:16",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReframe(cmd, args)
		},
	}
	cmd.Flags().String("subtitles", "", "SRT file to burn into every output")
	return cmd
}

func runReframe(cmd *cobra.Command, inputs []string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	subtitlePath, _ := cmd.Flags().GetString("subtitles")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := newProgress(cmd.ErrOrStderr())
	cfg := pipeline.ReframeConfig{
		Inputs:       inputs,
		SubtitlePath: subtitlePath,
		OutDir:       fileCfg.OutDir,
		Smoothing:    fileCfg.Smoothing,
		FFmpegPath:   fileCfg.FFmpegPath,
		FFprobePath:  fileCfg.FFprobePath,
		CascadePath:  fileCfg.CascadePath,
		Logf:         logfTo(cmd.ErrOrStderr()),
		Progress:     bar.update,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	err = pipeline.ReframeFiles(ctx, cfg)
	bar.finish()
	return err
}
