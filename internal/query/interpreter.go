package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/store"
)

// GameLogProvider supplies a player's regular-season games, newest first.
type GameLogProvider interface {
	GameLog(ctx context.Context, player store.Player, season string) ([]store.GameRow, error)
}

// PlayerDirectory is the read-only list of known players.
type PlayerDirectory interface {
	Players() []store.Player
}

// Result is a successfully answered question.
type Result struct {
	Player    store.Player `json:"player"`
	Facets    Facets       `json:"facets"`
	Condition Condition    `json:"condition"`
	Season    string       `json:"season"`
	Count     int          `json:"count"`
	Text      string       `json:"answer"`
}

// Interpreter answers stat questions about a single player.
type Interpreter struct {
	directory PlayerDirectory
	provider  GameLogProvider
	season    string
	logger    logging.Logger
}

// NewInterpreter creates an interpreter reading game logs of the given season.
func NewInterpreter(directory PlayerDirectory, provider GameLogProvider, season string, logger logging.Logger) *Interpreter {
	return &Interpreter{
		directory: directory,
		provider:  provider,
		season:    season,
		logger:    logger.With("component", "interpreter"),
	}
}

// Answer returns the rendered answer to a question. Failures are rendered as
// messages, never returned.
func (in *Interpreter) Answer(ctx context.Context, question string) string {
	res, err := in.Evaluate(ctx, question)
	if err != nil {
		_, msg := Describe(err)
		return msg
	}
	return res.Text
}

// Evaluate runs the full pipeline. Errors are ErrGrammarMismatch,
// *ConditionError, *PlayerNotFoundError or a provider/data failure.
func (in *Interpreter) Evaluate(ctx context.Context, question string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			in.logger.Error("recovered from panic", "question", question, "panic", r)
			res, err = nil, fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	facets, err := ParseQuestion(question)
	if err != nil {
		in.logger.Debug("question did not match grammar", "question", question)
		return nil, err
	}

	cond, ok := ParseCondition(facets.ConditionText)
	if !ok {
		return nil, &ConditionError{Clause: facets.ConditionText}
	}

	player, ok := ResolvePlayer(facets.PlayerName, in.directory.Players())
	if !ok {
		return nil, &PlayerNotFoundError{Name: facets.PlayerName}
	}

	in.logger.Debug("resolved question",
		"player", player.FullName,
		"player_id", player.ID,
		"condition", cond.String(),
		"location", facets.Location,
		"window", facets.Window)

	games, err := in.provider.GameLog(ctx, player, in.season)
	if err != nil {
		return nil, fmt.Errorf("fetching game log for %s: %w", player.FullName, err)
	}

	matched, err := FilterGames(games, facets.Location, facets.Window, cond)
	if err != nil {
		return nil, err
	}

	return &Result{
		Player:    player,
		Facets:    facets,
		Condition: cond,
		Season:    in.season,
		Count:     len(matched),
		Text:      render(player, len(matched), facets),
	}, nil
}

// FilterGames applies the location filter, then keeps the first window games
// of what is left (window <= 0 keeps all), then applies the condition.
// games must be ordered newest first.
func FilterGames(games []store.GameRow, location store.Location, window int, cond Condition) ([]store.GameRow, error) {
	if location != "" {
		located := make([]store.GameRow, 0, len(games))
		for _, g := range games {
			if g.Location() == location {
				located = append(located, g)
			}
		}
		games = located
	}

	if window > 0 && window < len(games) {
		games = games[:window]
	}

	var matched []store.GameRow
	for _, g := range games {
		ok, err := cond.Matches(g)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", g.GameID, err)
		}
		if ok {
			matched = append(matched, g)
		}
	}
	return matched, nil
}

func render(player store.Player, count int, facets Facets) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s has %d ", player.FullName, count)
	if facets.Location != "" {
		b.WriteString(string(facets.Location))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "games meeting %s", facets.ConditionText)
	if facets.Window > 0 {
		fmt.Fprintf(&b, " in last %d games", facets.Window)
	} else {
		b.WriteString(" this season")
	}
	return b.String()
}
