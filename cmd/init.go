package cmd

import (
	"errors"
	"path"
	"strings"

	"github.com/fatih/color"
	cmdErrors "github.com/seventv/cmdparse/cmd/errors"
	"github.com/seventv/cmdparse/logger"
	"github.com/seventv/cmdparse/manifest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Write a starter manifest",
	Long:  `Write a starter manifest, refusing to overwrite an existing one`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		zap.S().Infof("* %s *", color.BlueString("cmdparse init"))

		name := strings.TrimSuffix(path.Base(Args.Manifest), path.Ext(Args.Manifest))
		if len(argv) == 1 {
			name = argv[0]
		}

		return initManifest(Args.Manifest, name)
	},
}

func initManifest(file string, name string) error {
	m, err := manifest.Read(file)
	if err != nil && !errors.Is(err, manifest.ErrNotFound) {
		return err
	}
	if m.Exists {
		return cmdErrors.ErrManifestExists
	}

	if err := manifest.Write(file, manifest.Example(name)); err != nil {
		return err
	}

	logger.Infof("manifest written to %s", file)

	return nil
}
