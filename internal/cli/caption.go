package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/narrator/internal/app"
)

func newCaptionCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caption [image.jpg]",
		Short: "Caption one photo without the interactive screen",
		Long: `Captures a photo (or reads the given JPEG), submits it for captioning,
prints the caption and reads it aloud.

On failure the same short message the screen shows is printed; details
go to the log file.`,
		Example: `  # Snap from the back camera
  narrator caption

  # Caption an existing file without speech
  narrator caption --no-speech ./apple.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()
			if len(args) == 1 {
				opts.ImagePath = args[0]
			}
			return app.Once(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	return cmd
}
