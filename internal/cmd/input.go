package cmd

import (
	"bufio"
	"io"

	"github.com/reeflective/readline"
)

// lineSource yields one prompt per call and io.EOF when input ends.
type lineSource interface {
	ReadLine() (string, error)
}

var slashCommands = []string{
	"/new", "start a new conversation",
	"/exit", "quit",
	"/quit", "quit (alias)",
}

// shellSource reads from a terminal with line editing and history.
type shellSource struct {
	shell *readline.Shell
}

func newShellSource() *shellSource {
	shell := readline.NewShell()
	shell.Prompt.Primary(func() string { return "> " })
	shell.History.Add("default", readline.NewInMemoryHistory())
	shell.Completer = func(line []rune, cursor int) readline.Completions {
		if len(line) == 0 || line[0] != '/' {
			return readline.Completions{}
		}
		return readline.CompleteValuesDescribed(slashCommands...)
	}
	return &shellSource{shell: shell}
}

func (s *shellSource) ReadLine() (string, error) {
	return s.shell.Readline()
}

// scannerSource reads piped input.
type scannerSource struct {
	scanner *bufio.Scanner
}

func newScannerSource(r io.Reader) *scannerSource {
	return &scannerSource{scanner: bufio.NewScanner(r)}
}

func (s *scannerSource) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
