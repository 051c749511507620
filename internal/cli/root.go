package cli

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "minutes-flow",
	Short:         "Turn meeting transcripts into structured minutes",
	Long:          `Minutes-flow runs a raw meeting transcript through a staged Gemini pipeline and writes formatted meeting minutes in Markdown, plain text, JSON and DOCX.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
