package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "chimney",
	Short: "Derive Go transformation functions between similar types",
	Long: `chimney derives mapping functions between structurally similar Go types:
products, sums, wrappers, and scalars pair up by exact member name, and
everything else is settled by explicit overrides in a YAML rules file.
The output is plain generated Go with no reflection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print progress lines to stderr")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(describeCmd)
}

// verbosef prints a progress line when --verbose is set. The engine
// itself never logs; everything it knows ends up in the report.
func verbosef(format string, args ...any) {
	if viper.GetBool("verbose") {
		log.Printf(format, args...)
	}
}

// initConfig reads the optional .chimney.yaml and the CHIMNEY_* environment
// into viper. Command flags bind on top of this in each RunE.
func initConfig() {
	viper.SetConfigName(".chimney")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("chimney")
	viper.AutomaticEnv()

	// The config file is optional; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// Execute runs the root command, printing the failure once and exiting
// non-zero when a subcommand errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
