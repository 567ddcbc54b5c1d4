// Package term provides the blocking terminal boundary the game loop
// talks through. The interface keeps the loop scriptable in tests.
package term

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console is the synchronous request/response surface between the game
// and the player. Reads block until a line is available.
type Console interface {
	// Say prints a guard line.
	Say(line string)
	// Info prints a plain line (banners, outcome screens).
	Info(line string)
	// Reasoning shows the judge's reasoning for a transition.
	Reasoning(text string)
	// ReadLine prompts for and reads one player line, trimmed.
	ReadLine() (string, error)
	// ReadRestart reads the post-game choice: true to restart, false to
	// quit. Re-prompts on anything else.
	ReadRestart() (bool, error)
}

// StdConsole is the real terminal implementation.
type StdConsole struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Console = (*StdConsole)(nil)

// New creates a console reading from in and writing to out.
func New(in io.Reader, out io.Writer) *StdConsole {
	return &StdConsole{in: bufio.NewReader(in), out: out}
}

// Say prints a guard line.
func (c *StdConsole) Say(line string) {
	fmt.Fprintf(c.out, "\n[Guard]: %s\n", line)
}

// Info prints a plain line.
func (c *StdConsole) Info(line string) {
	fmt.Fprintln(c.out, line)
}

// Reasoning shows the judge's reasoning.
func (c *StdConsole) Reasoning(text string) {
	fmt.Fprintf(c.out, "(Judge reasoning: %s)\n", text)
}

// ReadLine reads one player line.
func (c *StdConsole) ReadLine() (string, error) {
	fmt.Fprint(c.out, "\n[You]: ")
	line, err := c.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadRestart reads the restart choice.
func (c *StdConsole) ReadRestart() (bool, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "r":
			return true, nil
		case "q":
			return false, nil
		default:
			fmt.Fprintln(c.out, "  Press [r] to restart or [q] to quit.")
		}
	}
}
