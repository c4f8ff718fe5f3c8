package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vertcut/vertcut/internal/domain/transcript"
	"github.com/vertcut/vertcut/internal/ports/adapters/ytdlp"
)

func newTranscriptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript <video-id>",
		Short: "Fetch a video's transcript and cache it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscript(cmd, args[0])
		},
	}
	cmd.Flags().String("work", "", "Work directory for the transcript cache (overrides config)")
	return cmd
}

func runTranscript(cmd *cobra.Command, videoID string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if work, _ := cmd.Flags().GetString("work"); work != "" {
		fileCfg.WorkDir = work
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logf := logfTo(cmd.ErrOrStderr())
	media := ytdlp.New(fileCfg.YtdlpPath, fileCfg.MaxHeight)
	tr, err := media.FetchTranscript(ctx, videoID)
	if err != nil {
		return err
	}

	store := transcript.NewStore(filepath.Join(fileCfg.WorkDir, "transcripts"))
	path, err := store.Save(tr)
	if err != nil {
		return err
	}
	logf("transcript saved to %s (%d entries)", path, len(tr.Entries))
	return nil
}
