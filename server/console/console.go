// Package console implements the interactive operator REPL: a small,
// fixed set of commands (status, clients, stop) read from stdin and run
// against a running Server, with tab completion and history the way the
// teacher's console package provides it for its much larger command set.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"

	"github.com/hydro-mc/hydro/server"
)

const (
	defaultPromptPrefix = "> "
	maxHistoryEntries   = 128
)

// Console reads operator commands from an io.Reader (defaulting to
// os.Stdin) and runs them against the bound Server.
type Console struct {
	srv     *server.Server
	log     *slog.Logger
	reader  io.Reader
	history []string
}

// New returns a Console bound to srv. The console reads from os.Stdin and
// writes command output through log.
func New(srv *server.Server, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{srv: srv, log: log, reader: os.Stdin}
}

// WithReader sets a custom reader for the console input, so it can be
// driven without a real stdin in tests.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Run starts consuming commands from the console. It blocks until ctx is
// cancelled or the underlying reader reaches EOF.
func (c *Console) Run(ctx context.Context) {
	if c.reader != os.Stdin {
		c.runScanner(ctx)
		return
	}
	c.runInteractive(ctx)
}

func (c *Console) runScanner(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "error", err)
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if c.execute(line) {
			return
		}
	}
}

func (c *Console) runInteractive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := prompt.Input(defaultPromptPrefix, c.complete,
			prompt.OptionTitle("hydro console"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(defaultPromptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(12),
		)

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if c.execute(line) {
			return
		}
	}
}

// commands is the console's whole surface: name and the one-line usage
// shown in completion and help; execute dispatches on the name. stop is
// terminal: execute reports true and the caller's run loop returns.
var commands = []struct {
	name  string
	usage string
}{
	{"status", "show tick, uptime and client count"},
	{"clients", "list connected client ids"},
	{"stop", "shut the server down"},
}

func (c *Console) execute(line string) (stop bool) {
	c.history = append(c.history, line)
	if len(c.history) > maxHistoryEntries {
		c.history = c.history[len(c.history)-maxHistoryEntries:]
	}

	name, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch name {
	case "status":
		u := c.srv.Universe()
		c.log.Info("status", "tick", u.CurrentTick(), "uptime", time.Since(c.srv.StartTime()).Round(time.Second), "clients", c.srv.PlayerCount())
	case "clients":
		clients := c.srv.Clients()
		if len(clients) == 0 {
			c.log.Info("no clients connected")
			break
		}
		ids := make([]string, 0, len(clients))
		for id := range clients {
			ids = append(ids, id.String())
		}
		sort.Strings(ids)
		for _, id := range ids {
			c.log.Info("client", "id", id)
		}
	case "stop":
		c.log.Info("stopping server")
		if err := c.srv.Close(); err != nil {
			c.log.Error("stop", "error", err)
		}
		return true
	case "help", "":
		c.printHelp()
	default:
		c.log.Error(fmt.Sprintf("unknown command %q, try 'help'", name))
	}
	return false
}

func (c *Console) printHelp() {
	for _, cmd := range commands {
		c.log.Info(cmd.name, "usage", cmd.usage)
	}
}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	word := doc.GetWordBeforeCursor()
	suggestions := make([]prompt.Suggest, 0, len(commands))
	for _, cmd := range commands {
		suggestions = append(suggestions, prompt.Suggest{Text: cmd.name, Description: cmd.usage})
	}
	return prompt.FilterHasPrefix(suggestions, word, true)
}
