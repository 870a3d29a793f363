package argparse

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jinzhu/copier"
	"github.com/seventv/cmdparse/future"
	"github.com/seventv/cmdparse/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type SuccessFunc func(ctx context.Context, r Result) error

type ErrorFunc func(err error, tokens []string)

// Options configures a parser. Zero values are replaced with defaults in New.
type Options struct {
	Name        string
	Aliases     []string
	Description string
	Examples    []string
	Version     string

	Commands []*Command

	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger

	// OnSuccess defaults to printing the result as YAML on Stdout.
	OnSuccess SuccessFunc
	// OnError defaults to logging the error message.
	OnError ErrorFunc
}

type Parser struct {
	meta     Meta
	args     []*Argument
	commands []*Command
	options  optionTable

	stdout io.Writer
	log    *zap.SugaredLogger

	onSuccess SuccessFunc
	onError   ErrorFunc
}

// New builds a parser from its options and the ordered argument list. The
// argument order is the positional order. Colliding names or aliases panic.
func New(opts Options, args ...*Argument) *Parser {
	p := &Parser{
		meta: Meta{
			Name:        opts.Name,
			Aliases:     append([]string{}, opts.Aliases...),
			Description: opts.Description,
			Examples:    append([]string{}, opts.Examples...),
			Version:     opts.Version,
		},
		args:     append([]*Argument{}, args...),
		commands: append([]*Command{}, opts.Commands...),
		options:  newOptionTable(args),
		stdout:   opts.Stdout,
	}

	p.validate()

	if p.stdout == nil {
		p.stdout = os.Stdout
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	l := opts.Logger
	if l == nil {
		l = logger.New(logger.Options{Out: stderr})
	}
	p.log = l.Sugar()

	p.onSuccess = opts.OnSuccess
	if p.onSuccess == nil {
		p.onSuccess = p.printResult
	}

	p.onError = opts.OnError
	if p.onError == nil {
		p.onError = p.logError
	}

	return p
}

func (p *Parser) validate() {
	seen := map[string]bool{}
	claim := func(id string) {
		if seen[id] {
			panic(fmt.Sprintf("argument %s already exists", id))
		}
		seen[id] = true
	}

	for _, arg := range p.args {
		if arg == nil || arg.Name == "" {
			panic("argument must have a name")
		}
		claim(arg.Name)
		for _, alias := range arg.Aliases {
			claim(alias)
		}
	}

	cmds := map[string]bool{}
	for _, cmd := range p.commands {
		if cmd == nil || cmd.Name == "" {
			panic("command must have a name")
		}
		if cmd.Action == nil {
			panic(fmt.Sprintf("command %s must have an action", cmd.Name))
		}

		for _, id := range append([]string{cmd.Name}, cmd.Aliases...) {
			if cmds[id] {
				panic(fmt.Sprintf("command %s already exists", id))
			}
			cmds[id] = true
		}
	}
}

func (p *Parser) Name() string {
	return p.meta.Name
}

func deepCopy(to, from any) {
	if err := copier.CopyWithOption(to, from, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("failed to copy parser definition: %v", err))
	}
}

func (p *Parser) Meta() Meta {
	var m Meta
	deepCopy(&m, &p.meta)
	return m
}

func (p *Parser) Args() []Argument {
	src := make([]Argument, len(p.args))
	for i, arg := range p.args {
		src[i] = *arg
	}

	var args []Argument
	deepCopy(&args, &src)
	return args
}

func (p *Parser) Commands() []*Command {
	return append([]*Command{}, p.commands...)
}

// Help renders the parser's usage text.
func (p *Parser) Help() string {
	return Help(p.meta, p.Args(), p.commands)
}

// Parse resolves tokens into a command dispatch or a Result.
//
// The returned bool reports overall success. Parse failures are handed to
// onError together with the original tokens and never returned. The error is
// only set when a dispatched command's action or onSuccess itself fails.
// Nil callbacks fall back to the parser's configured ones.
func (p *Parser) Parse(ctx context.Context, tokens []string, onSuccess SuccessFunc, onError ErrorFunc) (bool, error) {
	if onSuccess == nil {
		onSuccess = p.onSuccess
	}
	if onError == nil {
		onError = p.onError
	}

	argv := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			argv = append(argv, tok)
		}
	}

	if cmd := p.command(argv); cmd != nil {
		p.log.Debugw("dispatching command", "command", cmd.Name, "argv", argv[1:])
		if err := cmd.Action(ctx, p.event(argv[1:])); err != nil {
			return false, err
		}
		return true, nil
	}

	result, err := p.bind(argv)
	if err != nil {
		p.log.Debugw("parse failed", "kind", KindOf(err).String(), "error", err)
		onError(err, tokens)
		return false, nil
	}

	if err := onSuccess(ctx, result); err != nil {
		return false, err
	}

	return true, nil
}

// ParseAsync runs Parse on its own goroutine.
func (p *Parser) ParseAsync(ctx context.Context, tokens []string, onSuccess SuccessFunc, onError ErrorFunc) future.Future[bool] {
	return future.Go(func() (bool, error) {
		return p.Parse(ctx, tokens, onSuccess, onError)
	})
}

// command only ever looks at the first token.
func (p *Parser) command(argv []string) *Command {
	if len(argv) == 0 {
		return nil
	}

	for _, cmd := range p.commands {
		if cmd.matches(argv[0]) {
			return cmd
		}
	}

	return nil
}

func (p *Parser) event(argv []string) Event {
	return Event{
		Meta:     p.Meta(),
		Args:     p.Args(),
		Argv:     append([]string{}, argv...),
		Commands: p.Commands(),
		Stdout:   p.stdout,
	}
}

func (p *Parser) bind(argv []string) (Result, error) {
	result := Result{}
	usingNamedArgs := false
	positionalIdx := 0

	for i := 0; i < len(argv); i++ {
		tok := classify(argv[i])

		switch {
		case tok.isOption:
			usingNamedArgs = true

			arg, err := p.options.lookup(tok)
			if err != nil {
				return nil, err
			}

			var v any
			if arg.Type == Boolean {
				switch {
				case tok.hasValue:
					v = coerceBool(tok.value)
				case i+1 < len(argv) && !isOption(argv[i+1]):
					i++
					v = coerceBool(argv[i])
				default:
					v = true
				}
			} else {
				raw := tok.value
				if !tok.hasValue {
					if i+1 >= len(argv) {
						return nil, &ParseError{Kind: MissingValue, Key: tok.key, Name: arg.Name}
					}
					i++
					raw = argv[i]
				}

				if v, err = Coerce(raw, arg.Type, arg.Name); err != nil {
					return nil, err
				}
			}

			p.log.Debugw("bound option", "name", arg.Name, "value", v)
			result.merge(arg, v)
		case usingNamedArgs:
			return nil, &ParseError{Kind: UnexpectedPositional, Value: tok.raw}
		case positionalIdx < len(p.args):
			arg := p.args[positionalIdx]
			positionalIdx++

			v, err := Coerce(tok.raw, arg.Type, arg.Name)
			if err != nil {
				return nil, err
			}

			p.log.Debugw("bound positional", "name", arg.Name, "value", v)
			result.merge(arg, v)
		default:
			p.log.Debugw("ignoring excess positional", "token", tok.raw)
		}
	}

	for _, arg := range p.args {
		if _, ok := result[arg.Name]; ok {
			continue
		}

		if arg.Required {
			return nil, &ParseError{Kind: MissingRequired, Name: arg.Name}
		}

		result[arg.Name] = arg.defaultValue()
	}

	return result, nil
}

func (p *Parser) printResult(_ context.Context, r Result) error {
	enc := yaml.NewEncoder(p.stdout)
	enc.SetIndent(2)

	if err := enc.Encode(map[string]any(r)); err != nil {
		return err
	}

	return enc.Close()
}

func (p *Parser) logError(err error, _ []string) {
	p.log.Error(err.Error())
}
