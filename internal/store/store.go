package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nexus-manager/backend/internal/models"
)

var ErrNotFound = errors.New("store: not found")

// Store owns the authoritative in-memory snapshot and mirrors every
// accepted mutation to a single JSON file. Last write wins; there is one
// writer per process.
type Store struct {
	path string
	log  zerolog.Logger

	mu    sync.RWMutex
	state models.GlobalState
}

// New loads the snapshot at path. A missing or unreadable file degrades to
// the built-in default snapshot; only the write path can fail later.
func New(path string, logger zerolog.Logger) *Store {
	s := &Store{path: path, log: logger}
	s.state = s.load()
	return s
}

func (s *Store) load() models.GlobalState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("snapshot unreadable, using defaults")
		}
		state := DefaultState()
		Migrate(&state)
		return state
	}

	var state models.GlobalState
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("snapshot corrupt, using defaults")
		state = DefaultState()
	}
	Migrate(&state)
	return state
}

// State returns a deep copy of the current snapshot. Copy-on-read keeps
// callers from aliasing internal slices.
func (s *Store) State() models.GlobalState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.state)
}

// update applies fn to a copy of the snapshot, persists the result and only
// then swaps it in, so a failed write never leaves memory and disk apart.
func (s *Store) update(fn func(*models.GlobalState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(s.state)
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// persist writes the whole snapshot through a temp file and rename so a
// crash mid-write cannot leave a torn file behind.
func (s *Store) persist(state models.GlobalState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("store: create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: replace snapshot: %w", err)
	}
	return nil
}

func clone(state models.GlobalState) models.GlobalState {
	data, _ := json.Marshal(state)
	var out models.GlobalState
	_ = json.Unmarshal(data, &out)
	return out
}

// --- Team ---

func (s *Store) AddTeamMember(m models.TeamMember) (models.TeamMember, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	migrateMember(&m)
	err := s.update(func(st *models.GlobalState) error {
		st.Team = append(st.Team, m)
		return nil
	})
	return m, err
}

func (s *Store) UpdateTeamMember(m models.TeamMember) error {
	migrateMember(&m)
	return s.update(func(st *models.GlobalState) error {
		for i := range st.Team {
			if st.Team[i].ID == m.ID {
				st.Team[i] = m
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) DeleteTeamMember(id string) error {
	return s.update(func(st *models.GlobalState) error {
		for i := range st.Team {
			if st.Team[i].ID == id {
				st.Team = append(st.Team[:i], st.Team[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) SetMemberPDI(id string, items []models.PDIItem) error {
	return s.update(func(st *models.GlobalState) error {
		for i := range st.Team {
			if st.Team[i].ID == id {
				st.Team[i].PDI = items
				return nil
			}
		}
		return ErrNotFound
	})
}

// --- Projects ---

func (s *Store) AddProject(p models.Project) (models.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	migrateProject(&p)
	err := s.update(func(st *models.GlobalState) error {
		st.Projects = append(st.Projects, p)
		return nil
	})
	return p, err
}

func (s *Store) UpdateProject(p models.Project) error {
	migrateProject(&p)
	return s.update(func(st *models.GlobalState) error {
		for i := range st.Projects {
			if st.Projects[i].ID == p.ID {
				st.Projects[i] = p
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) DeleteProject(id string) error {
	return s.update(func(st *models.GlobalState) error {
		for i := range st.Projects {
			if st.Projects[i].ID == id {
				st.Projects = append(st.Projects[:i], st.Projects[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) SetProjectRisk(id string, risk models.ProjectRisk) error {
	return s.update(func(st *models.GlobalState) error {
		for i := range st.Projects {
			if st.Projects[i].ID == id {
				st.Projects[i].RiskAssessment = &risk
				return nil
			}
		}
		return ErrNotFound
	})
}

// --- Knowledge base ---

func (s *Store) AddDoc(d models.KnowledgeDoc) (models.KnowledgeDoc, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.UpdatedAt = time.Now().UnixMilli()
	err := s.update(func(st *models.GlobalState) error {
		st.KnowledgeBase = append(st.KnowledgeBase, d)
		return nil
	})
	return d, err
}

func (s *Store) UpdateDoc(d models.KnowledgeDoc) error {
	d.UpdatedAt = time.Now().UnixMilli()
	return s.update(func(st *models.GlobalState) error {
		for i := range st.KnowledgeBase {
			if st.KnowledgeBase[i].ID == d.ID {
				st.KnowledgeBase[i] = d
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) DeleteDoc(id string) error {
	return s.update(func(st *models.GlobalState) error {
		for i := range st.KnowledgeBase {
			if st.KnowledgeBase[i].ID == id {
				st.KnowledgeBase = append(st.KnowledgeBase[:i], st.KnowledgeBase[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) SetDocAnalysis(id string, analysis string) error {
	return s.update(func(st *models.GlobalState) error {
		for i := range st.KnowledgeBase {
			if st.KnowledgeBase[i].ID == id {
				st.KnowledgeBase[i].Analysis = analysis
				st.KnowledgeBase[i].UpdatedAt = time.Now().UnixMilli()
				return nil
			}
		}
		return ErrNotFound
	})
}

// --- Settings ---

func (s *Store) SetTrelloConfig(cfg models.TrelloConfig) error {
	return s.update(func(st *models.GlobalState) error {
		st.TrelloConfig = &cfg
		return nil
	})
}

func (s *Store) SetAIConfig(cfg models.AIConfig) error {
	return s.update(func(st *models.GlobalState) error {
		st.AIConfig = cfg
		return nil
	})
}

// --- Reconciliation sync ---

// SyncDemands replaces the demand list and alignment counters for every
// member present in the maps, in one combined update per member. Members
// absent from both maps are left untouched.
func (s *Store) SyncDemands(demands map[string][]string, stats map[string]models.AlignmentStats) error {
	return s.update(func(st *models.GlobalState) error {
		for i := range st.Team {
			id := st.Team[i].ID
			if d, ok := demands[id]; ok {
				st.Team[i].Demands = d
			}
			if stat, ok := stats[id]; ok {
				st.Team[i].AlignedTaskCount = stat.Aligned
				st.Team[i].MisalignedTaskCount = stat.Misaligned
			}
		}
		return nil
	})
}
