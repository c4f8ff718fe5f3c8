package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "vertcut",
		Short:        "Turn long-form videos into face-tracked vertical shorts",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "", "Path to a vertcut.toml config file")
	root.PersistentFlags().String("out", "", "Output directory (overrides config)")
	root.PersistentFlags().Float64("smoothing", -1, "Face tracker smoothing factor in [0,1] (overrides config)")

	root.AddCommand(newRunCommand())
	root.AddCommand(newReframeCommand())
	root.AddCommand(newTranscriptCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
