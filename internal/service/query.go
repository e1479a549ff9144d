package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/publisher"
	"github.com/fortuna/courtside/internal/query"
	"github.com/fortuna/courtside/internal/store"
)

// Evaluator runs the question pipeline
type Evaluator interface {
	Evaluate(ctx context.Context, question string) (*query.Result, error)
}

// Publisher receives one event per answered question
type Publisher interface {
	PublishQueryAnswered(ctx context.Context, event publisher.QueryAnswered) error
}

// QueryResponse is what every surface (REPL, REST, WebSocket) shows for a question
type QueryResponse struct {
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Kind     query.Kind    `json:"kind"`
	Count    *int          `json:"count,omitempty"`
	Player   *store.Player `json:"player,omitempty"`
	Season   string        `json:"season,omitempty"`
}

// QueryService answers questions one at a time
type QueryService struct {
	mu        sync.Mutex
	evaluator Evaluator
	publisher Publisher
	logger    logging.Logger
	now       func() time.Time
}

// NewQueryService creates a query service. publisher may be nil.
func NewQueryService(evaluator Evaluator, pub Publisher, logger logging.Logger) *QueryService {
	return &QueryService{
		evaluator: evaluator,
		publisher: pub,
		logger:    logger.With("component", "query-service"),
		now:       time.Now,
	}
}

// Ask answers a question. Failures are part of the response, never an error.
func (s *QueryService) Ask(ctx context.Context, question string) QueryResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	question = strings.TrimSpace(question)
	start := s.now()

	res, err := s.evaluator.Evaluate(ctx, question)
	resp := QueryResponse{Question: question}
	if err != nil {
		resp.Kind, resp.Answer = query.Describe(err)
		if resp.Kind == query.KindError {
			s.logger.Warn("question failed", "question", question, "error", err)
		}
	} else {
		count := res.Count
		player := res.Player
		resp.Kind = query.KindAnswered
		resp.Answer = res.Text
		resp.Count = &count
		resp.Player = &player
		resp.Season = res.Season
	}

	s.logger.Info("answered question",
		"kind", resp.Kind,
		"elapsed", s.now().Sub(start))

	s.publish(ctx, resp)
	return resp
}

func (s *QueryService) publish(ctx context.Context, resp QueryResponse) {
	if s.publisher == nil {
		return
	}

	event := publisher.QueryAnswered{
		Question:   resp.Question,
		Kind:       string(resp.Kind),
		Answer:     resp.Answer,
		Count:      resp.Count,
		Season:     resp.Season,
		AnsweredAt: s.now().UTC(),
	}
	if resp.Player != nil {
		event.PlayerID = resp.Player.ID
		event.PlayerName = resp.Player.FullName
	}

	if err := s.publisher.PublishQueryAnswered(ctx, event); err != nil {
		s.logger.Warn("publishing query event failed", "error", err)
	}
}
