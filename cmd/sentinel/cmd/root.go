package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sentinel-mon/sentinel/pkg/diag"
)

var (
	colorFlag string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Process-local fault interception and forensic logging",
	Long: `sentinel installs a process-wide exception observer ahead of normal
fault handling, classifies memory faults, sanitizes faulting addresses to
page granularity, and reports them through a synchronized diagnostic sink
without altering the fault's disposition.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initConfig()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		"colored output (auto, always, never)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"include fault event enrichment in output")

	// Bind flags to viper (errors are nil when flag exists)
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() error {
	viper.SetEnvPrefix("SENTINEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return nil
}

// newLogger builds the diagnostic logger from the resolved configuration.
func newLogger() (*diag.Logger, error) {
	mode, err := colorMode(viper.GetString("color"))
	if err != nil {
		return nil, err
	}
	return diag.New(diag.WithColor(mode)), nil
}

func colorMode(s string) (diag.ColorMode, error) {
	switch s {
	case "auto", "":
		return diag.ColorAuto, nil
	case "always":
		return diag.ColorAlways, nil
	case "never":
		return diag.ColorNever, nil
	default:
		return diag.ColorAuto, fmt.Errorf("invalid color mode %q (auto, always, never)", s)
	}
}
