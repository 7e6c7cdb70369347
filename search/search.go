// Package search implements the debounced recipient search used to start
// new conversations: a free-text query over the organization's addressable
// participants, excluding the caller.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"chat-client/contract"
	"chat-client/domain"
)

const DefaultDebounce = 300 * time.Millisecond

// Search is a sole-writer structure: every mutation runs on the event loop,
// so it carries no lock. The debounce timer and the fetch run off the loop
// and post their results back.
type Search struct {
	log        *slog.Logger
	api        contract.IConversationAPI
	dispatcher contract.IDispatcher
	callerID   string
	delay      time.Duration

	timer   *time.Timer
	gen     int
	results []domain.Participant
	err     error
}

func NewSearch(log *slog.Logger, api contract.IConversationAPI,
	dispatcher contract.IDispatcher, callerID string, delay time.Duration) *Search {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Search{
		log:        log,
		api:        api,
		dispatcher: dispatcher,
		callerID:   callerID,
		delay:      delay,
	}
}

// Query schedules a debounced participant search. Each call supersedes the
// previous one; only the last query within the debounce window reaches the
// network. An empty query clears the results without any network call.
func (s *Search) Query(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.results = nil
	s.err = nil

	if query == "" {
		return
	}

	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		results, err := s.api.SearchParticipants(ctx, query)
		s.dispatcher.Post(func() {
			if gen != s.gen {
				return // superseded by a later query
			}
			if err != nil {
				s.log.Warn("recipient search failed", "error", err)
				s.err = err
				return
			}
			s.err = nil
			s.results = lo.Reject(results, func(p domain.Participant, _ int) bool {
				return p.ID == s.callerID
			})
		})
	})
}

func (s *Search) Results() []domain.Participant {
	return s.results
}

func (s *Search) Err() error {
	return s.err
}
