package cmd

import (
	"github.com/fatih/color"
	"github.com/seventv/cmdparse/logger"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := readManifest()
		if err != nil {
			return err
		}

		if err := m.Validate(); err != nil {
			for _, e := range multierr.Errors(err) {
				logger.Errorf("%s %s", color.RedString("✗"), e)
			}
			return err
		}

		zap.S().Infof("%s %s is valid", color.GreenString("✓"), Args.Manifest)

		return nil
	},
}
