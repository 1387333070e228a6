package defaults

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// sortedArguments returns the node's arguments, attached groups included,
// ordered by flag name for deterministic output.
func (p *Parser) sortedArguments() []*Argument {
	args := p.ownArguments()
	sort.Slice(args, func(i, j int) bool { return args[i].Flag < args[j].Flag })
	return args
}

func flagUsage(arg *Argument) string {
	usage := "--" + arg.Flag
	if arg.hasValue() {
		usage += "=VALUE"
	}
	if !arg.Required {
		usage = "[" + usage + "]"
	}
	return usage
}

// PrintUsageLine writes a single wrapped usage line for this node.
func (p *Parser) PrintUsageLine(w io.Writer, width int) error {
	ww, err := NewWrappingWriter(width)
	if err != nil {
		return err
	}

	prefix4 := strings.Repeat(" ", 4)

	_, _ = fmt.Fprint(ww, "Usage: ")
	_ = ww.SetLinePrefix(prefix4)
	_, _ = fmt.Fprint(ww, p.fullName())
	for _, arg := range p.sortedArguments() {
		_, _ = fmt.Fprint(ww, " "+flagUsage(arg))
	}
	if p.commands != nil {
		_, _ = fmt.Fprint(ww, " COMMAND ...")
	}
	_ = ww.SetLinePrefix("")
	_, _ = fmt.Fprintln(ww)

	if _, err = w.Write([]byte(ww.String())); err != nil {
		return err
	}
	return nil
}

// PrintHelp writes the full help screen for this node: description, usage
// line, flags and available commands.
func (p *Parser) PrintHelp(w io.Writer, width int) error {
	ww, err := NewWrappingWriter(width)
	if err != nil {
		return err
	}

	prefix4 := strings.Repeat(" ", 4)
	fullName := p.fullName()

	if p.description != "" {
		_, _ = fmt.Fprint(ww, fullName)
		_, _ = fmt.Fprint(ww, ": ")
		_ = ww.SetLinePrefix(prefix4)
		_, _ = fmt.Fprintln(ww, p.description)
		_ = ww.SetLinePrefix("")
	} else {
		_, _ = fmt.Fprintln(ww, fullName)
	}
	_, _ = fmt.Fprintln(ww)

	_, _ = fmt.Fprintln(ww, "Usage:")
	_ = ww.SetLinePrefix(prefix4)
	_, _ = fmt.Fprint(ww, fullName)
	for _, arg := range p.sortedArguments() {
		_, _ = fmt.Fprint(ww, " "+flagUsage(arg))
	}
	if p.commands != nil {
		_, _ = fmt.Fprint(ww, " COMMAND ...")
	}
	_ = ww.SetLinePrefix("")
	_, _ = fmt.Fprintln(ww)
	_, _ = fmt.Fprintln(ww)

	if args := p.sortedArguments(); len(args) > 0 {
		_, _ = fmt.Fprintln(ww, "Flags:")
		if err := printFlagsMultiLine(ww, prefix4, args); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(ww)
	}

	if p.commands != nil && len(p.commands.commands) > 0 {
		_, _ = fmt.Fprintln(ww, "Available commands:")

		lenOfLongestCommand := 0
		for _, cmd := range p.commands.commands {
			if len(cmd.name) > lenOfLongestCommand {
				lenOfLongestCommand = len(cmd.name)
			}
		}
		nameDescSpacing := 10 - lenOfLongestCommand%10
		descriptionCol := lenOfLongestCommand + nameDescSpacing

		for _, cmd := range p.commands.commands {
			_ = ww.SetLinePrefix(prefix4)
			_, _ = fmt.Fprint(ww, cmd.name)
			_, _ = fmt.Fprint(ww, strings.Repeat(" ", descriptionCol-len(cmd.name)))
			_ = ww.SetLinePrefix(strings.Repeat(" ", len(prefix4)+descriptionCol))
			_, _ = fmt.Fprintln(ww, cmd.description)
		}
		_, _ = fmt.Fprintln(ww)
	}

	if _, err = w.Write([]byte(ww.String())); err != nil {
		return err
	}
	return nil
}

func printFlagsMultiLine(ww *WrappingWriter, basePrefix string, args []*Argument) error {
	flagsColWidth := 0
	usages := make(map[string]string)
	for _, arg := range args {
		usage := flagUsage(arg)
		usages[arg.Flag] = usage
		if len(usage) > flagsColWidth {
			flagsColWidth = len(usage)
		}
	}

	descriptionStartColumn := flagsColWidth + (10 - flagsColWidth%10)
	for _, arg := range args {
		usage := usages[arg.Flag]
		_ = ww.SetLinePrefix(basePrefix)
		_, _ = fmt.Fprint(ww, usage)
		_, _ = fmt.Fprint(ww, strings.Repeat(" ", descriptionStartColumn-len(usage)))
		_ = ww.SetLinePrefix(basePrefix + strings.Repeat(" ", descriptionStartColumn))

		hasDescription := arg.Description != ""
		if hasDescription {
			_, _ = fmt.Fprint(ww, arg.Description)
		}
		if arg.Default != nil {
			if hasDescription {
				_, _ = fmt.Fprint(ww, " (")
			}
			_, _ = fmt.Fprintf(ww, "default value: %v", arg.Default)
			if hasDescription {
				_, _ = fmt.Fprint(ww, ")")
			}
		}

		_ = ww.SetLinePrefix(basePrefix)
		_, _ = fmt.Fprintln(ww)
	}
	_ = ww.SetLinePrefix("")
	return nil
}
