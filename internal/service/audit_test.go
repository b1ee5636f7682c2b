package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nexus-manager/backend/internal/ai"
	"github.com/nexus-manager/backend/internal/models"
	"github.com/nexus-manager/backend/internal/store"
	"github.com/nexus-manager/backend/internal/trello"
)

func newAuditStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(filepath.Join(t.TempDir(), "state.json"), zerolog.Nop())
}

// boardServer serves a minimal board with one list, two assigned cards and
// one unassigned card.
func boardServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/boards/b1/lists", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"l1","name":"Doing"}]`))
	})
	mux.HandleFunc("/boards/b1/cards", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"c1","name":"Ship API","idList":"l1","idMembers":["tm1"]},
			{"id":"c2","name":"Buy snacks","idList":"l1","idMembers":["tm1"]},
			{"id":"c3","name":"Orphan card","idList":"l1","idMembers":[]}
		]`))
	})
	mux.HandleFunc("/boards/b1/members", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"tm1","fullName":"Maria Souza"}]`))
	})
	return httptest.NewServer(mux)
}

func stubFactory(response string) ai.Factory {
	return func(models.AIConfig) (ai.Generator, error) {
		return &stubGenerator{response: response}, nil
	}
}

func newAuditor(t *testing.T, st *store.Store, baseURL string, factory ai.Factory) *Auditor {
	t.Helper()
	member := models.TeamMember{Name: "Maria", Role: "Engineer", TrelloMemberID: "tm1"}
	if _, err := st.AddTeamMember(member); err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
	if err := st.SetTrelloConfig(models.TrelloConfig{APIKey: "k", Token: "t", BoardID: "b1"}); err != nil {
		t.Fatalf("SetTrelloConfig: %v", err)
	}
	return &Auditor{
		Store:  st,
		Trello: &trello.Client{BaseURL: baseURL},
		AI:     factory,
		Logger: zerolog.Nop(),
	}
}

func memberByTrelloID(t *testing.T, st *store.Store, trelloID string) models.TeamMember {
	t.Helper()
	for _, m := range st.State().Team {
		if m.TrelloMemberID == trelloID {
			return m
		}
	}
	t.Fatalf("no member with trello id %q", trelloID)
	return models.TeamMember{}
}

func TestAuditEndToEnd(t *testing.T) {
	srv := boardServer(t)
	defer srv.Close()

	st := newAuditStore(t)
	aud := newAuditor(t, st, srv.URL, stubFactory(
		`{"summaryHtml":"<b>mixed</b>","cardScores":[{"id":"c1","score":90,"reason":"core"},{"id":"c2","score":15,"reason":"drift"}]}`))

	view, err := aud.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	maria := memberByTrelloID(t, st, "tm1")
	if got := len(view.MemberCards[maria.ID]); got != 2 {
		t.Fatalf("maria has %d cards, want 2", got)
	}
	if len(view.UnassignedCards) != 1 || view.UnassignedCards[0].ID != "c3" {
		t.Fatalf("unassigned = %+v", view.UnassignedCards)
	}

	result, err := aud.Analyze(context.Background(), maria.ID)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.SummaryHTML != "<b>mixed</b>" || len(result.CardScores) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if _, err := aud.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	maria = memberByTrelloID(t, st, "tm1")
	if maria.AlignedTaskCount != 1 || maria.MisalignedTaskCount != 1 {
		t.Fatalf("counters = %d/%d, want 1/1", maria.AlignedTaskCount, maria.MisalignedTaskCount)
	}
	if len(maria.Demands) != 2 {
		t.Fatalf("demands = %v", maria.Demands)
	}

	// Session is closed after sync.
	if _, err := aud.Sync(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("second Sync error = %v, want ErrNoSession", err)
	}
}

func TestStartWithoutTrelloConfig(t *testing.T) {
	st := newAuditStore(t)
	aud := &Auditor{Store: st, Trello: &trello.Client{}, AI: stubFactory("{}"), Logger: zerolog.Nop()}

	if _, err := aud.Start(context.Background()); !errors.Is(err, ErrTrelloNotConfigured) {
		t.Fatalf("err = %v, want ErrTrelloNotConfigured", err)
	}
}

func TestStartFailsWholeRunOnPartialFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/boards/b1/lists", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/boards/b1/cards", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/boards/b1/members", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := newAuditStore(t)
	aud := newAuditor(t, st, srv.URL, stubFactory("{}"))
	before := st.State()

	if _, err := aud.Start(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	// No session was opened and nothing was committed.
	if _, err := aud.Analyze(context.Background(), "any"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Analyze err = %v, want ErrNoSession", err)
	}
	after := st.State()
	if len(after.Team) != len(before.Team) {
		t.Fatalf("team changed on failed start")
	}
}

func TestAnalyzeUnknownMember(t *testing.T) {
	srv := boardServer(t)
	defer srv.Close()

	st := newAuditStore(t)
	aud := newAuditor(t, st, srv.URL, stubFactory("{}"))
	if _, err := aud.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := aud.Analyze(context.Background(), "nobody"); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("err = %v, want ErrUnknownMember", err)
	}
}

func TestAnalyzeDegradesWhenFactoryFails(t *testing.T) {
	srv := boardServer(t)
	defer srv.Close()

	st := newAuditStore(t)
	factory := func(models.AIConfig) (ai.Generator, error) {
		return nil, errors.New("no api key")
	}
	aud := newAuditor(t, st, srv.URL, factory)
	if _, err := aud.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	maria := memberByTrelloID(t, st, "tm1")
	result, err := aud.Analyze(context.Background(), maria.ID)
	if err != nil {
		t.Fatalf("Analyze should degrade, got error %v", err)
	}
	if len(result.CardScores) != 0 {
		t.Fatalf("degraded result carries scores: %+v", result.CardScores)
	}
}

func TestDiscardDropsSession(t *testing.T) {
	srv := boardServer(t)
	defer srv.Close()

	st := newAuditStore(t)
	aud := newAuditor(t, st, srv.URL, stubFactory("{}"))
	if _, err := aud.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	aud.Discard()
	if _, err := aud.Sync(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}
