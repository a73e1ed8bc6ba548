// Package handlers implements the interactive game session: the
// line-oriented Prompter the match consumes, the session loop, and the
// text rendering for menus, tables, and verification material.
package handlers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/fairdice/internal/game/match"
)

// Transport is the line-oriented surface the Prompter talks through.
// Satisfied by telnet.Conn; ConsoleTransport adapts stdin/stdout.
type Transport interface {
	ReadLine() (string, error)
	WriteString(text string) error
	WriteLine(text string) error
}

// ConsoleTransport adapts an io.Reader/io.Writer pair (normally
// stdin/stdout) to the Transport interface for local play.
type ConsoleTransport struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConsoleTransport creates a ConsoleTransport.
//
// Precondition: r and w must be non-nil.
func NewConsoleTransport(r io.Reader, w io.Writer) *ConsoleTransport {
	return &ConsoleTransport{reader: bufio.NewReader(r), writer: w}
}

// ReadLine reads one line of input without the trailing newline.
func (c *ConsoleTransport) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return strings.TrimRight(line, "\r\n"), err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteString writes text without appending a newline.
func (c *ConsoleTransport) WriteString(text string) error {
	_, err := io.WriteString(c.writer, text)
	return err
}

// WriteLine writes text followed by a newline.
func (c *ConsoleTransport) WriteLine(text string) error {
	_, err := fmt.Fprintln(c.writer, text)
	return err
}

// LinePrompter implements match.Prompter over a Transport. Every menu
// accepts H for help and E for exit; invalid input re-prompts with a
// message and is never silently swallowed.
type LinePrompter struct {
	transport Transport
	// Help returns the help text shown on H; nil disables the option.
	Help func() string
}

// NewLinePrompter creates a LinePrompter.
//
// Precondition: transport must be non-nil.
func NewLinePrompter(transport Transport) *LinePrompter {
	return &LinePrompter{transport: transport}
}

// Say displays a formatted message.
func (p *LinePrompter) Say(format string, args ...interface{}) error {
	return p.transport.WriteLine(fmt.Sprintf(format, args...))
}

// RequestNumber asks for an integer in [0, max] inclusive, re-prompting on
// invalid input. E aborts with match.ErrAborted; H shows help when wired.
//
// Postcondition: the returned number is in [0, max].
func (p *LinePrompter) RequestNumber(prompt string, max int) (int, error) {
	for {
		if err := p.transport.WriteString(prompt + " "); err != nil {
			return 0, err
		}
		input, err := p.readCommand()
		if err != nil {
			return 0, err
		}
		if input == "" {
			continue
		}

		n, convErr := strconv.Atoi(input)
		if convErr != nil {
			if err := p.transport.WriteLine(fmt.Sprintf("Invalid input %q: enter a number between 0 and %d.", input, max)); err != nil {
				return 0, err
			}
			continue
		}
		if n < 0 || n > max {
			if err := p.transport.WriteLine(fmt.Sprintf("%d is out of range: enter a number between 0 and %d.", n, max)); err != nil {
				return 0, err
			}
			continue
		}
		return n, nil
	}
}

// RequestChoice presents a numbered menu and returns the selected index,
// re-prompting on invalid input.
//
// Postcondition: the returned index is in [0, len(options)).
func (p *LinePrompter) RequestChoice(prompt string, options []string) (int, error) {
	for {
		if err := p.transport.WriteLine(prompt); err != nil {
			return 0, err
		}
		for i, opt := range options {
			if err := p.transport.WriteLine(fmt.Sprintf("%d - %s", i+1, opt)); err != nil {
				return 0, err
			}
		}
		if err := p.transport.WriteLine("H - help"); err != nil {
			return 0, err
		}
		if err := p.transport.WriteLine("E - exit"); err != nil {
			return 0, err
		}
		if err := p.transport.WriteString("Your selection: "); err != nil {
			return 0, err
		}

		input, err := p.readCommand()
		if err != nil {
			return 0, err
		}
		if input == "" {
			continue
		}

		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 1 || n > len(options) {
			if err := p.transport.WriteLine(fmt.Sprintf("Invalid selection %q: enter a number between 1 and %d.", input, len(options))); err != nil {
				return 0, err
			}
			continue
		}
		return n - 1, nil
	}
}

// readCommand reads a line and intercepts the global H/E commands.
// Returns match.ErrAborted for E; help loops back to an empty command so
// callers re-prompt.
func (p *LinePrompter) readCommand() (string, error) {
	line, err := p.transport.ReadLine()
	if err != nil {
		return "", err
	}
	input := strings.TrimSpace(line)

	switch strings.ToLower(input) {
	case "e", "exit":
		return "", match.ErrAborted
	case "h", "help":
		if p.Help != nil {
			if err := p.transport.WriteLine(p.Help()); err != nil {
				return "", err
			}
		}
		return "", nil
	}
	return input, nil
}
