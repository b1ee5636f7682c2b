package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nexus-manager/backend/internal/ai"
	"github.com/nexus-manager/backend/internal/models"
	"github.com/nexus-manager/backend/internal/store"
	"github.com/nexus-manager/backend/internal/trello"
)

var (
	ErrTrelloNotConfigured = errors.New("audit: trello is not configured")
	ErrNoSession           = errors.New("audit: no active reconciliation session")
	ErrUnknownMember       = errors.New("audit: unknown team member")
)

// Auditor drives reconciliation sessions: fetch board data, resolve cards
// to people, classify alignment per person, fold results back into the
// store. At most one session is active; starting a new one discards the
// previous session's unsynced results.
type Auditor struct {
	Store  *store.Store
	Trello *trello.Client
	AI     ai.Factory
	Logger zerolog.Logger

	mu      sync.Mutex
	session *session
}

// session holds the transient per-run state. The resolution is read-only
// after Start; analyses and card scores are written per member under mu.
type session struct {
	resolution trello.Resolution

	mu       sync.Mutex
	analyses map[string]string
	scores   map[string]CardScore
}

// SessionView is what the caller renders: the partition plus any analyses
// and scores recorded so far.
type SessionView struct {
	MemberCards     map[string][]models.TrelloCard `json:"memberCards"`
	UnassignedCards []models.TrelloCard            `json:"unassignedCards"`
	Analyses        map[string]string              `json:"analyses"`
	CardScores      map[string]CardScore           `json:"cardScores"`
}

// Start fetches lists, cards and members concurrently, resolves the
// partition and opens a new session. Any fetch failure aborts the whole
// run with a single error and no state is committed.
func (a *Auditor) Start(ctx context.Context) (SessionView, error) {
	state := a.Store.State()
	if state.TrelloConfig == nil {
		return SessionView{}, ErrTrelloNotConfigured
	}

	snap, err := a.Trello.FetchBoard(ctx, *state.TrelloConfig)
	if err != nil {
		return SessionView{}, err
	}

	res := trello.OrganizeCardsByMember(snap.Cards, snap.Lists, snap.Members, state.Team)
	a.Logger.Info().
		Int("cards", len(snap.Cards)).
		Int("lists", len(snap.Lists)).
		Int("board_members", len(snap.Members)).
		Int("unassigned", len(res.Unassigned)).
		Msg("reconciliation session started")

	sess := &session{
		resolution: res,
		analyses:   map[string]string{},
		scores:     map[string]CardScore{},
	}
	a.mu.Lock()
	a.session = sess
	a.mu.Unlock()

	return sess.view(), nil
}

// Analyze runs the alignment classifier for one member of the active
// session. Classification failures degrade to a fallback result for that
// member only; concurrent calls for different members are safe.
func (a *Auditor) Analyze(ctx context.Context, memberID string) (AlignmentResult, error) {
	sess, err := a.current()
	if err != nil {
		return AlignmentResult{}, err
	}
	cards, ok := sess.resolution.MemberCards[memberID]
	if !ok {
		return AlignmentResult{}, ErrUnknownMember
	}

	state := a.Store.State()
	var member models.TeamMember
	found := false
	for _, m := range state.Team {
		if m.ID == memberID {
			member = m
			found = true
			break
		}
	}
	if !found {
		return AlignmentResult{}, ErrUnknownMember
	}

	var result AlignmentResult
	gen, err := a.AI(state.AIConfig)
	if err != nil {
		a.Logger.Warn().Err(err).Str("member", memberID).Msg("ai provider unavailable")
		result = AlignmentResult{SummaryHTML: "AI provider is not configured: " + err.Error(), CardScores: []CardScore{}}
	} else {
		result = AnalyzeAlignment(ctx, gen, member, cards, state.Projects)
	}

	sess.record(memberID, result)
	return result, nil
}

// Sync folds the session's demands and scores into the store and closes
// the session. Members absent from the run are untouched.
func (a *Auditor) Sync() (SessionView, error) {
	sess, err := a.current()
	if err != nil {
		return SessionView{}, err
	}

	sess.mu.Lock()
	scores := make(map[string]CardScore, len(sess.scores))
	for id, sc := range sess.scores {
		scores[id] = sc
	}
	sess.mu.Unlock()

	demands, stats := BuildSyncUpdate(sess.resolution.MemberCards, scores)
	if err := a.Store.SyncDemands(demands, stats); err != nil {
		return SessionView{}, err
	}

	a.mu.Lock()
	if a.session == sess {
		a.session = nil
	}
	a.mu.Unlock()

	a.Logger.Info().Int("members", len(demands)).Msg("reconciliation synced")
	return sess.view(), nil
}

// Discard drops the active session without persisting anything.
func (a *Auditor) Discard() {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
}

func (a *Auditor) current() (*session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, ErrNoSession
	}
	return a.session, nil
}

func (s *session) record(memberID string, result AlignmentResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[memberID] = result.SummaryHTML
	for _, sc := range result.CardScores {
		s.scores[sc.ID] = sc
	}
}

func (s *session) view() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := SessionView{
		MemberCards:     s.resolution.MemberCards,
		UnassignedCards: s.resolution.Unassigned,
		Analyses:        make(map[string]string, len(s.analyses)),
		CardScores:      make(map[string]CardScore, len(s.scores)),
	}
	for k, val := range s.analyses {
		v.Analyses[k] = val
	}
	for k, val := range s.scores {
		v.CardScores[k] = val
	}
	return v
}
