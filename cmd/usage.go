package cmd

import (
	"fmt"
	"strings"

	cmdErrors "github.com/seventv/cmdparse/cmd/errors"
	"github.com/seventv/cmdparse/manifest"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(usageCmd)
}

var usageCmd = &cobra.Command{
	Use:   "usage [command...]",
	Short: "Print the help text of the parser or one of its commands",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, path []string) error {
		m, err := readManifest()
		if err != nil {
			return err
		}

		help, err := usage(m, path...)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), help)
		return err
	},
}

func usage(m manifest.Manifest, path ...string) (string, error) {
	sub, ok := m.CommandByPath(path...)
	if !ok {
		return "", cmdErrors.ErrCommandNotFound(strings.Join(path, " "))
	}

	if len(path) > 0 {
		sub.Name = m.Name + " " + strings.Join(path, " ")
	}

	parser, err := sub.Build(manifest.Hooks{})
	if err != nil {
		return "", err
	}

	return parser.Help(), nil
}
