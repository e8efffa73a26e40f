// Package cmd implements the job-crawler command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/jonesrussell/north-cloud/job-crawler/cmd/common"
	"github.com/jonesrussell/north-cloud/job-crawler/cmd/crawl"
	"github.com/jonesrussell/north-cloud/job-crawler/cmd/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/cmd/serve"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "job-crawler",
	Short: "Crawl Duunitori job listings",
	Long: `job-crawler searches duunitori.fi with a profile of keywords and
locations, walks every result page and extracts the labeled fields of each
listing's detail page.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	// Missing .env files are fine; config.Load also reads .env.local.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String(common.KeyConfig, "", "config file (default is ./config.yaml when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cobra.CheckErr(viper.BindPFlag(common.KeyConfig, rootCmd.PersistentFlags().Lookup(common.KeyConfig)))
	cobra.CheckErr(viper.BindPFlag(common.KeyDebug, rootCmd.PersistentFlags().Lookup("debug")))
	cobra.CheckErr(viper.BindEnv(common.KeyConfig, "CONFIG_PATH"))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "job-crawler version %s\n", version)
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(profile.Command())
	rootCmd.AddCommand(serve.Command())
}
