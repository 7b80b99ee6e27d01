// Package cli defines narrator's cobra command tree.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/five82/narrator/internal/app"
)

// rootFlags are shared by every command that builds the app.
type rootFlags struct {
	configPath string
	prefsPath  string
	baseURL    string
	facing     string
	noSpeech   bool
}

func (f *rootFlags) options() app.Options {
	return app.Options{
		ConfigPath: f.configPath,
		PrefsPath:  f.prefsPath,
		BaseURL:    f.baseURL,
		Facing:     f.facing,
		NoSpeech:   f.noSpeech,
	}
}

// NewRootCmd builds the narrator command. With no subcommand it opens the
// interactive camera screen.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "narrator",
		Short: "Take a photo, get a caption, hear it read aloud",
		Long: `Narrator captures a photo from your camera, sends it to an image
captioning service and speaks the returned caption.

Run without arguments for the interactive screen.`,
		Example: `  # Open the camera screen
  narrator

  # Use the front camera and a remote service
  narrator --facing front --base-url https://captions.example.com`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/narrator/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/narrator/prefs.toml)")
	pf.StringVar(&flags.baseURL, "base-url", "", "captioning service base URL")
	pf.StringVar(&flags.facing, "facing", "", "camera to start with: front or back")
	pf.BoolVar(&flags.noSpeech, "no-speech", false, "do not read captions aloud")

	cmd.AddCommand(newCaptionCmd(flags))
	cmd.AddCommand(newMockServerCmd())

	return cmd
}
