package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seventv/cmdparse/argparse"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("manifest not found")

// Manifest declares a parser. Nested commands are manifests themselves and
// become subcommands of their parent.
type Manifest struct {
	Name        string     `yaml:"name"`                  // Name of the parser, used in examples and as the command name when nested
	Aliases     []string   `yaml:"aliases,omitempty"`     // Command aliases, only used when nested
	Description string     `yaml:"description,omitempty"` // Shown at the top of the help text
	Version     string     `yaml:"version,omitempty"`
	Examples    []string   `yaml:"examples,omitempty"` // Example invocations without the parser name
	Help        bool       `yaml:"help,omitempty"`     // Register the built-in help command
	Args        []Argument `yaml:"args,omitempty"`     // Arguments in positional order
	Commands    []Manifest `yaml:"commands,omitempty"` // Subcommands

	Exists bool `yaml:"-"` // Whether the manifest was read from disk
}

type Argument struct {
	Name        string   `yaml:"name"`
	Aliases     []string `yaml:"aliases,omitempty"`
	Type        string   `yaml:"type,omitempty"` // string (default), number or boolean
	Required    bool     `yaml:"required,omitempty"`
	Array       bool     `yaml:"array,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

func Read(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, ErrNotFound
		}
		return m, err
	}

	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	m.Exists = true

	return m, nil
}

func Write(path string, m Manifest) error {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)

	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Validate reports every problem found in the manifest tree.
func (m Manifest) Validate() error {
	return m.validate(m.Name)
}

func (m Manifest) validate(path string) error {
	var errs error

	if m.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s: name is required", path))
	}

	ids := map[string]bool{}
	for idx, arg := range m.Args {
		if arg.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s: argument %d has no name", path, idx))
			continue
		}

		for _, id := range append([]string{arg.Name}, arg.Aliases...) {
			if ids[id] {
				errs = multierr.Append(errs, fmt.Errorf("%s: argument %s already exists", path, id))
			}
			ids[id] = true
		}

		if _, err := argparse.ParseArgType(arg.Type); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: argument %s: %w", path, arg.Name, err))
		}
	}

	cmds := map[string]bool{}
	if m.Help {
		cmds["help"] = true
		cmds["-h"] = true
	}
	for _, cmd := range m.Commands {
		for _, id := range append([]string{cmd.Name}, cmd.Aliases...) {
			if id != "" && cmds[id] {
				errs = multierr.Append(errs, fmt.Errorf("%s: command %s already exists", path, id))
			}
			cmds[id] = true
		}

		errs = multierr.Append(errs, cmd.validate(path+" "+cmd.Name))
	}

	return errs
}

// CommandByPath walks nested commands by name or alias.
func (m Manifest) CommandByPath(path ...string) (Manifest, bool) {
	cur := m
	for _, name := range path {
		found := false
		for _, cmd := range cur.Commands {
			if cmd.Name == name || contains(cmd.Aliases, name) {
				cur = cmd
				found = true
				break
			}
		}

		if !found {
			return Manifest{}, false
		}
	}

	return cur, true
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}

	return false
}

// Hooks supplies the collaborators of every parser built from a manifest.
type Hooks struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger

	// OnSuccess is called with the command path of the parser that produced
	// the result, the root parser's path being empty.
	OnSuccess func(path []string) argparse.SuccessFunc
	OnError   argparse.ErrorFunc
}

// Build validates the manifest and turns it into a parser tree.
func (m Manifest) Build(hooks Hooks) (*argparse.Parser, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m.build(nil, hooks), nil
}

func (m Manifest) build(path []string, hooks Hooks) *argparse.Parser {
	var commands []*argparse.Command
	if m.Help {
		commands = append(commands, argparse.HelpCommand())
	}

	for _, cmd := range m.Commands {
		sub := cmd.build(append(append([]string{}, path...), cmd.Name), hooks)
		commands = append(commands, argparse.ParserCommand(sub, nil, nil))
	}

	args := make([]*argparse.Argument, 0, len(m.Args))
	for _, a := range m.Args {
		// validated above
		t, _ := argparse.ParseArgType(a.Type)
		args = append(args, argparse.Arg(&argparse.ArgOptions{
			Type:        t,
			Required:    a.Required,
			IsArray:     a.Array,
			Description: strings.TrimSpace(a.Description),
		}, append([]string{a.Name}, a.Aliases...)...))
	}

	opts := argparse.Options{
		Name:        m.Name,
		Aliases:     m.Aliases,
		Description: m.Description,
		Examples:    m.Examples,
		Version:     m.Version,
		Commands:    commands,
		Stdout:      hooks.Stdout,
		Stderr:      hooks.Stderr,
		Logger:      hooks.Logger,
		OnError:     hooks.OnError,
	}
	if hooks.OnSuccess != nil {
		opts.OnSuccess = hooks.OnSuccess(path)
	}

	return argparse.New(opts, args...)
}

// Example is the starter manifest written by init.
func Example(name string) Manifest {
	return Manifest{
		Name:        name,
		Description: "An example command line",
		Version:     "0.1.0",
		Examples:    []string{"input.txt --verbose", "build --target linux --target darwin"},
		Help:        true,
		Args: []Argument{
			{Name: "input", Aliases: []string{"i"}, Description: "File to read"},
			{Name: "count", Aliases: []string{"n"}, Type: "number", Description: "How many times to run"},
			{Name: "verbose", Aliases: []string{"v"}, Type: "boolean", Description: "Print more output"},
		},
		Commands: []Manifest{
			{
				Name:        "build",
				Aliases:     []string{"b"},
				Description: "Build for one or more targets",
				Args: []Argument{
					{Name: "target", Aliases: []string{"t"}, Array: true, Required: true, Description: "Target platform"},
					{Name: "release", Type: "boolean", Description: "Build with optimisations"},
				},
			},
		},
	}
}
