package argparse

import (
	"context"
	"io"
	"strings"

	"github.com/fatih/color"
)

var headingColor = color.New(color.Bold)

// HelpCommand is the built-in help command, reachable as "help" or "-h".
func HelpCommand() *Command {
	return &Command{
		Name:        "help",
		Aliases:     []string{"-h"},
		Description: "Show this help message",
		Action: func(_ context.Context, e Event) error {
			_, err := io.WriteString(e.Stdout, Help(e.Meta, e.Args, e.Commands))
			return err
		},
	}
}

func makePadding(n int) string {
	if n <= 0 {
		return ""
	}

	return strings.Repeat(" ", n)
}

func argNames(arg Argument) string {
	names := make([]string, 0, len(arg.Aliases)+1)
	names = append(names, "--"+arg.Name)
	for _, alias := range arg.Aliases {
		names = append(names, "-"+alias)
	}

	return strings.Join(names, ", ")
}

func argTypeInfo(arg Argument) string {
	if arg.Type == Boolean {
		return ""
	}

	t := arg.Type.String()
	if arg.IsArray {
		t += "[]"
	}

	return " <" + t + ">"
}

// Help renders usage text for a parser: its options, examples and
// subcommands, each column padded to its widest entry.
func Help(meta Meta, args []Argument, commands []*Command) string {
	var b strings.Builder

	line := func(indent int, text string) {
		b.WriteString(strings.TrimRight(strings.Repeat("  ", indent)+text, " "))
		b.WriteString("\n")
	}

	line(0, "")
	if meta.Description != "" {
		line(0, meta.Description)
	}

	if len(args) > 0 {
		line(0, "")
		line(0, headingColor.Sprint("Options:"))

		width := 0
		for _, arg := range args {
			if n := len(argNames(arg)); n > width {
				width = n
			}
		}

		for _, arg := range args {
			names := argNames(arg)
			text := names + makePadding(width-len(names)) + argTypeInfo(arg) + "  " + arg.Description
			if arg.Required {
				text += " (required)"
			}
			line(1, text)
		}
	}

	if len(meta.Examples) > 0 {
		line(0, "")
		line(0, headingColor.Sprint("Examples:"))
		for _, example := range meta.Examples {
			line(1, meta.Name+" "+example)
		}
	}

	if len(commands) > 0 {
		line(0, "")
		line(0, headingColor.Sprint("Commands:"))

		width := 0
		for _, cmd := range commands {
			if n := len(strings.Join(append([]string{cmd.Name}, cmd.Aliases...), ", ")); n > width {
				width = n
			}
		}

		for _, cmd := range commands {
			names := strings.Join(append([]string{cmd.Name}, cmd.Aliases...), ", ")
			line(1, names+makePadding(width-len(names))+"  "+cmd.Description)
		}
	}

	if meta.Version != "" {
		line(0, "")
		line(0, "Version: "+meta.Version)
	}

	line(0, "")

	return b.String()
}
