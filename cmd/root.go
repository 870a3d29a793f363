package cmd

import (
	"github.com/seventv/cmdparse/cmd/args"
	"github.com/seventv/cmdparse/constants"
	"github.com/seventv/cmdparse/logger"
	"github.com/seventv/cmdparse/manifest"
	"github.com/spf13/cobra"
)

var Args = args.Args

func init() {
	rootCmd.PersistentFlags().BoolVar(&Args.Debug, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringVarP(&Args.Manifest, "manifest", "m", constants.DefaultManifest, "Manifest declaring the parser")
	rootCmd.PersistentFlags().StringVarP(&Args.Output, "output", "o", "yaml", "Result format, yaml or json")

	cobra.OnInitialize(func() {
		logger.Setup(Args.Debug)
	})
}

func Execute() {
	// flag errors are returned before OnInitialize runs
	logger.Setup(false)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   constants.AppName,
	Short: "cmdparse parses command lines declared in a manifest",
	Long:  `A declarative argument and subcommand parser. Arguments and commands are declared in a YAML manifest, command lines are parsed against it.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func readManifest() (manifest.Manifest, error) {
	m, err := manifest.Read(Args.Manifest)
	if err != nil {
		return m, err
	}

	logger.Debugf("read manifest %s", Args.Manifest)

	return m, nil
}
