// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repl implements the interactive anvil shell.
//
// The shell owns no command logic: slash commands are handled locally and
// every other line is tokenized shell-style and re-dispatched through the
// CLI, so `sketch create "a timer"` behaves exactly like the one-shot
// invocation.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/pdiddy/anvil/internal/ui"
)

// Dispatcher executes one CLI invocation with the given arguments.
type Dispatcher func(args []string) error

// Shell is the interactive command loop.
type Shell struct {
	console  *ui.Console
	in       *bufio.Reader
	dispatch Dispatcher
	version  string
}

// New returns a Shell reading lines from in and forwarding commands to
// dispatch.
func New(console *ui.Console, in io.Reader, dispatch Dispatcher, version string) *Shell {
	return &Shell{
		console:  console,
		in:       bufio.NewReader(in),
		dispatch: dispatch,
		version:  version,
	}
}

// Run executes the shell loop until /exit, /quit, or end of input.
func (s *Shell) Run() error {
	s.welcome()

	for {
		s.console.Printf("> ")

		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if s.handleSlash(input) {
			if input == "/exit" || input == "/quit" {
				break
			}
			s.console.Println()
			continue
		}

		args, err := SplitArgs(input)
		if err != nil {
			s.console.Errorf("Error parsing command: %v", err)
			s.console.Println()
			continue
		}
		if err := s.dispatch(args); err != nil {
			s.console.Errorf("Error executing command: %v", err)
		}
		s.console.Println()
	}

	s.console.Dimf("Bye - thanks for forging with Anvil!")
	return nil
}

// handleSlash processes a slash command, reporting whether input was one.
func (s *Shell) handleSlash(input string) bool {
	switch input {
	case "/help", "?":
		s.showHelp()
	case "/status":
		s.showStatus()
	case "/exit", "/quit":
		// Handled by the caller.
	default:
		return false
	}
	return true
}

func (s *Shell) welcome() {
	cwd, _ := os.Getwd()
	body := "Welcome to anvil!\n\n" +
		"What can I do?:\n" +
		"  - Sketch a new idea using v0's API (sketch create \"your prompt\")\n" +
		"  - Analyze your codebase for improvements (sketch doctor)\n" +
		"  - Build projects with the Claude Code CLI (build create \"your prompt\")\n" +
		"  - Get color palettes from images (palette image.png)\n\n" +
		fmt.Sprintf("cwd: %s", cwd)
	s.console.Panel("anvil "+s.version, body)
	s.console.Dimf("* Tip: Start with small features or bug fixes, ask Anvil to propose a plan, and verify its suggested edits *")
	s.console.Println()
}

func (s *Shell) showHelp() {
	s.console.Boldf("Available slash commands:")
	s.console.Println("  /help, ?     - Show this help message")
	s.console.Println("  /status      - Show current working directory and runtime version")
	s.console.Println("  /exit, /quit - Exit the shell")
	s.console.Println()
	s.console.Dimf("Anything else will be forwarded to the normal anvil CLI")
}

func (s *Shell) showStatus() {
	cwd, _ := os.Getwd()
	s.console.Accentf("Current Status:")
	s.console.Printf("  Working Directory: %s\n", cwd)
	s.console.Printf("  Runtime: %s\n", runtime.Version())
	s.console.Printf("  Anvil: %s\n", s.version)
}

// SplitArgs tokenizes a command line shell-style: arguments separated by
// whitespace, with single and double quotes grouping and backslash escaping
// the next character outside single quotes.
func SplitArgs(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	inArg := false
	var quote rune

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\\' && quote != '\'':
			if i+1 >= len(runes) {
				return nil, errors.New("trailing backslash")
			}
			i++
			current.WriteRune(runes[i])
			inArg = true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, errors.New("unclosed quote")
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
