package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/fortuna/courtside/internal/service"
)

const (
	Banner = "🏀 Enhanced NBA Stats Query Tool"
	Prompt = "Ask a question or 'quit': "
)

// Examples are printed under the banner
var Examples = []string{
	"How many away games in last 20 has Giannis Antetokounmpo scored 30+ points",
	"How many home games this season has Stephen Curry made <5 three pointers",
	"How many games has Luka made >=9 assists",
}

var delimiter = strings.Repeat("-", 40)

// LineReader reads one line of input per prompt. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// QueryAsker answers questions
type QueryAsker interface {
	Ask(ctx context.Context, question string) service.QueryResponse
}

// NewTerminal returns a line editor on the process terminal with history.
// Ctrl-C aborts the prompt.
func NewTerminal() *liner.State {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line
}

// REPL is the interactive question loop
type REPL struct {
	reader LineReader
	out    io.Writer
	asker  QueryAsker
}

func New(reader LineReader, out io.Writer, asker QueryAsker) *REPL {
	return &REPL{reader: reader, out: out, asker: asker}
}

// Run prints the banner and answers questions until quit, exit, Ctrl-C or
// end of input. Only unexpected read errors are returned.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, Banner)
	fmt.Fprintln(r.out, "Try these formats:")
	for _, ex := range Examples {
		fmt.Fprintf(r.out, "- %s\n", ex)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprintln(r.out)
		line, err := r.reader.Prompt(Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		question := strings.TrimSpace(line)
		if isQuit(question) {
			return nil
		}
		if question != "" {
			r.reader.AppendHistory(question)
		}

		resp := r.asker.Ask(ctx, question)
		fmt.Fprintf(r.out, "\n%s\n%s\n%s\n", delimiter, resp.Answer, delimiter)
	}
}

func isQuit(s string) bool {
	return strings.EqualFold(s, "quit") || strings.EqualFold(s, "exit")
}
