package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/query"
	"github.com/fortuna/courtside/internal/service"
)

// scriptedReader returns its lines in order, then end.
type scriptedReader struct {
	lines   []string
	end     error
	prompts []string
	history []string
}

func (s *scriptedReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", s.end
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedReader) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func (s *scriptedReader) Close() error {
	return nil
}

type fakeAsker struct {
	questions []string
}

func (f *fakeAsker) Ask(_ context.Context, question string) service.QueryResponse {
	f.questions = append(f.questions, question)
	if question == "blah blah" || question == "" {
		return service.QueryResponse{Answer: query.UsageHint, Kind: query.KindUsage}
	}
	return service.QueryResponse{Answer: "Kevin Durant has 3 games meeting 40+ points this season", Kind: query.KindAnswered}
}

func run(t *testing.T, reader *scriptedReader, asker *fakeAsker) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, New(reader, &out, asker).Run(context.Background()))
	return out.String()
}

func TestRunPrintsBannerAndDelimitedAnswers(t *testing.T) {
	reader := &scriptedReader{lines: []string{"blah blah", "quit"}}
	asker := &fakeAsker{}

	out := run(t, reader, asker)

	assert.True(t, strings.HasPrefix(out, Banner+"\nTry these formats:\n- How many away games"))
	dashes := strings.Repeat("-", 40)
	assert.Contains(t, out, "\n"+dashes+"\n"+query.UsageHint+"\n"+dashes+"\n")
	assert.Equal(t, []string{"blah blah"}, asker.questions)
	assert.Equal(t, []string{Prompt, Prompt}, reader.prompts)
	assert.NotContains(t, out, "Goodbye!")
}

func TestRunQuitIsCaseInsensitive(t *testing.T) {
	for _, word := range []string{"quit", "EXIT", "  Quit  ", "Exit"} {
		reader := &scriptedReader{lines: []string{word, "How many games has kd scored 40+ points"}}
		asker := &fakeAsker{}

		run(t, reader, asker)
		assert.Empty(t, asker.questions, word)
	}
}

func TestRunEndOfInputSaysGoodbye(t *testing.T) {
	for _, end := range []error{io.EOF, liner.ErrPromptAborted} {
		reader := &scriptedReader{lines: []string{"How many games has kd scored 40+ points"}, end: end}
		asker := &fakeAsker{}

		out := run(t, reader, asker)
		assert.True(t, strings.HasSuffix(out, "\nGoodbye!\n"))
		assert.Len(t, asker.questions, 1)
		assert.Equal(t, []string{"How many games has kd scored 40+ points"}, reader.history)
	}
}

func TestRunBlankLineGetsUsageHint(t *testing.T) {
	reader := &scriptedReader{lines: []string{"   ", "exit"}}
	asker := &fakeAsker{}

	out := run(t, reader, asker)
	assert.Contains(t, out, query.UsageHint)
	assert.Empty(t, reader.history)
}

func TestRunReadError(t *testing.T) {
	reader := &scriptedReader{end: errors.New("tty gone")}
	err := New(reader, io.Discard, &fakeAsker{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &scriptedReader{lines: []string{"blah blah"}}
	asker := &fakeAsker{}
	require.NoError(t, New(reader, io.Discard, asker).Run(ctx))
	assert.Empty(t, reader.prompts)
}
