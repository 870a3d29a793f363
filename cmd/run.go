package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/seventv/cmdparse/argparse"
	cmdErrors "github.com/seventv/cmdparse/cmd/errors"
	"github.com/seventv/cmdparse/logger"
	"github.com/seventv/cmdparse/manifest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [-- tokens...]",
	Short: "Parse a command line against the manifest",
	Long:  "Parse a command line against the manifest and print the result.\nPass the tokens after -- so they are not read as flags of this command.",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, tokens []string) error {
		m, err := readManifest()
		if err != nil {
			return err
		}

		return runTokens(cmd.Context(), m, tokens, cmd.OutOrStdout(), Args.Output)
	},
}

func writeResult(w io.Writer, format string, r argparse.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResult(r))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(r)); err != nil {
			return err
		}
		return enc.Close()
	}

	return cmdErrors.ErrUnknownOutput
}

// jsonNumber spells out infinities, which JSON has no literal for.
func jsonNumber(f float64) any {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	return f
}

func jsonResult(r argparse.Result) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		switch v := v.(type) {
		case float64:
			out[k] = jsonNumber(v)
		case []float64:
			nums := make([]any, len(v))
			for i, f := range v {
				nums[i] = jsonNumber(f)
			}
			out[k] = nums
		default:
			out[k] = v
		}
	}

	return out
}

// runTokens parses tokens with the parser tree built from m. A failure in any
// nested parser fails the run.
func runTokens(ctx context.Context, m manifest.Manifest, tokens []string, out io.Writer, format string) error {
	if format != "yaml" && format != "json" {
		return cmdErrors.ErrUnknownOutput
	}

	failed := false
	parser, err := m.Build(manifest.Hooks{
		Stdout: out,
		Logger: zap.L(),
		OnSuccess: func(path []string) argparse.SuccessFunc {
			return func(_ context.Context, r argparse.Result) error {
				if len(path) > 0 {
					logger.Infof("%s %s", color.CyanString("command"), strings.Join(path, " "))
				}
				return writeResult(out, format, r)
			}
		},
		OnError: func(err error, tokens []string) {
			failed = true
			logger.Errorf("%s (%s)", err, argparse.KindOf(err))
			logger.Debugf("tokens: %q", tokens)
		},
	})
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ok, err := parser.Parse(ctx, tokens, nil, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", parser.Name(), err)
	}

	if !ok || failed {
		return cmdErrors.ErrParseFailed
	}

	return nil
}
