package argparse

import (
	"context"
	"io"
)

// Action runs a dispatched command. Its error is returned from Parse
// unchanged.
type Action func(ctx context.Context, e Event) error

type Command struct {
	Name        string
	Aliases     []string
	Description string
	Action      Action
}

func NewCommand(name string, action Action, aliases ...string) *Command {
	if name == "" {
		panic("command must have a name")
	}
	if action == nil {
		panic("command " + name + " must have an action")
	}

	return &Command{
		Name:    name,
		Aliases: append([]string{}, aliases...),
		Action:  action,
	}
}

// WithDescription returns a copy of c carrying the description.
func (c *Command) WithDescription(description string) *Command {
	n := *c
	n.Description = description
	return &n
}

func (c *Command) matches(tok string) bool {
	if c.Name == tok {
		return true
	}

	for _, alias := range c.Aliases {
		if alias == tok {
			return true
		}
	}

	return false
}

// ParserCommand turns a whole parser into a subcommand of another one. The
// tokens following the command name are parsed by p with the given
// callbacks, nil callbacks fall back to p's defaults.
func ParserCommand(p *Parser, onSuccess SuccessFunc, onError ErrorFunc) *Command {
	return &Command{
		Name:        p.meta.Name,
		Aliases:     append([]string{}, p.meta.Aliases...),
		Description: p.meta.Description,
		Action: func(ctx context.Context, e Event) error {
			_, err := p.Parse(ctx, e.Argv, onSuccess, onError)
			return err
		},
	}
}

// Meta is the descriptive part of a parser, only read by help rendering.
type Meta struct {
	Name        string
	Aliases     []string
	Description string
	Examples    []string
	Version     string
}

// Event is handed to a command's action. Meta and Args are private copies,
// Argv holds the tokens after the command name.
type Event struct {
	Meta     Meta
	Args     []Argument
	Argv     []string
	Commands []*Command
	Stdout   io.Writer
}
