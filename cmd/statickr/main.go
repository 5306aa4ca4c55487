package main

import (
	"os"

	"github.com/spf13/cobra"

	"statickr-go/internal/app"
	"statickr-go/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "statickr SOURCE_FOLDER DESTINATION_FOLDER",
	Short: "Generate a static HTML site from a photo-service data export",
	Long: `statickr converts a personal photo-service data export (ZIP archives
of JSON metadata and media files) into a self-contained static HTML
site: a home page, a paginated photo index with one detail page per
photo, an album index with per-album pages, and a contacts page with
fetched profile avatars.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			cmd.PrintErrln(err)
			return err
		}
		applyFlags(cmd, cfg)

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		if err := a.Run(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}

		cmd.Printf("Export processed and static HTML files created in %s\n", args[1])
		return nil
	},
}

// applyFlags overlays CLI flags onto the loaded config. Boolean toggles
// only ever enable their behavior; value flags apply when set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if v, _ := flags.GetBool("verbose"); v {
		cfg.Verbose = true
	}
	if v, _ := flags.GetBool("oldest-first"); v {
		cfg.OldestFirst = true
	}
	if v, _ := flags.GetBool("no-paging"); v {
		cfg.DisablePaging = true
	}
	if flags.Changed("photos-per-page") {
		cfg.PhotosPerPage, _ = flags.GetInt("photos-per-page")
	}
	if flags.Changed("templates") {
		cfg.TemplatesDir, _ = flags.GetString("templates")
	}
	if v, _ := flags.GetBool("no-avatars"); v {
		cfg.Avatars.Fetch = false
	}
	if v, _ := flags.GetBool("skip-existing-avatars"); v {
		cfg.Avatars.SkipExisting = true
	}
}

func init() {
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().Bool("oldest-first", false, "Sort photos and albums oldest first")
	rootCmd.Flags().Bool("no-paging", false, "Disable paging for photo listings")
	rootCmd.Flags().Int("photos-per-page", 20, "Number of photos per listing page")
	rootCmd.Flags().Bool("no-avatars", false, "Disable avatar fetching for contacts")
	rootCmd.Flags().Bool("skip-existing-avatars", false, "Reuse already downloaded avatars without any network access")
	rootCmd.Flags().String("templates", "", "Directory containing the site templates")
	rootCmd.Flags().String("config", "", "Path to the config file")
}
