package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CommandKind is a parsed line of player input.
type CommandKind int

const (
	CmdReveal CommandKind = iota + 1
	CmdPause
	CmdResume
	CmdQuit
	CmdAnswer
)

// Command is one player instruction. Index is zero-based.
type Command struct {
	Kind      CommandKind
	Index     int
	Confirmed bool
}

var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand reads one input line. Card numbers are 1-based on screen.
func ParseCommand(line string) (Command, error) {
	s := strings.ToLower(strings.TrimSpace(line))
	switch s {
	case "p", "pause":
		return Command{Kind: CmdPause}, nil
	case "c", "continue":
		return Command{Kind: CmdResume}, nil
	case "q", "quit", "exit":
		return Command{Kind: CmdQuit}, nil
	case "y", "yes":
		return Command{Kind: CmdAnswer, Confirmed: true}, nil
	case "n", "no":
		return Command{Kind: CmdAnswer, Confirmed: false}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	return Command{Kind: CmdReveal, Index: n - 1}, nil
}

// ReadLines scans r on its own goroutine. The channel closes at EOF or when
// ctx is done.
func ReadLines(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
