package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb. public commands work without a session.
type command struct {
	name   string
	usage  string
	minArg int
	public bool
	run    func(ctx context.Context, args []string) error
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
}

// runREPL reads a line from the reader, parses the first token as the
// command and dispatches it. The loop exits on EOF or when the user types
// "exit" or "quit". Command errors are printed and the loop goes on.
// Commands prompt through the same reader, so no input is buffered twice.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	byName := make(map[string]command)
	for _, c := range a.commands() {
		byName[c.name] = c
	}

	for {
		printlnFn(fmt.Sprintf("sn %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			printlnFn(helpText(a.commands(), a.isLoggedIn()))
			continue
		}

		c, ok := byName[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if !c.public && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}
		if len(args) < c.minArg {
			printlnFn("Usage:", c.usage)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}

func helpText(cmds []command, loggedIn bool) string {
	var b strings.Builder
	b.WriteString("Available commands:")
	for _, c := range cmds {
		if !c.public && !loggedIn {
			continue
		}
		b.WriteString("\n  ")
		b.WriteString(c.usage)
	}
	b.WriteString("\n  exit")
	return b.String()
}
