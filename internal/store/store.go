// Package store owns the canonical in-process recipe collection.
// All reads and writes pass through an explicitly constructed Store;
// mutations always succeed locally and report the remote write outcome
// alongside, never instead of, the local result.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/recipedex/recipedex/internal/metrics"
	"github.com/recipedex/recipedex/internal/recipe"
	"github.com/recipedex/recipedex/internal/seed"
)

// ErrNotFound reports a lookup for an id the collection does not hold.
var ErrNotFound = errors.New("recipe not found")

// noteSyncTimeout bounds the detached remote write behind SaveNote.
const noteSyncTimeout = 30 * time.Second

// Remote is the versioned document store the collection syncs against.
type Remote interface {
	Configured() bool
	Read(ctx context.Context) (recipe.Collection, bool)
	Write(ctx context.Context, col recipe.Collection, message string) error
}

// Snapshot persists the collection locally between runs.
type Snapshot interface {
	SaveCollection(col recipe.Collection) error
	LoadCollection() (recipe.Collection, bool, error)
}

// IDGenerator produces recipe ids.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Outcome annotates a locally applied mutation with its remote-write
// result. Synced false with an empty Err means the remote is simply
// not configured.
type Outcome struct {
	Synced bool   `json:"synced"`
	Err    string `json:"syncError,omitempty"`
}

// Stats summarizes the collection.
type Stats struct {
	Total       int            `json:"total"`
	Categories  int            `json:"categories"`
	WithNotes   int            `json:"withNotes"`
	PerCategory map[string]int `json:"perCategory"`
}

// Store holds the collection and its persistence collaborators.
type Store struct {
	mu      sync.RWMutex
	version string
	recipes []recipe.Recipe

	snap   Snapshot
	remote Remote
	ids    IDGenerator
	clock  Clock
	logger *zap.Logger

	// noteSync tracks detached note writes so tests can wait for them.
	noteSync sync.WaitGroup
}

// New constructs a Store. The remote may be nil when sync is not
// configured.
func New(snap Snapshot, remote Remote, ids IDGenerator, clock Clock, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		snap:   snap,
		remote: remote,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// Initialize adopts the first available document: remote, then local
// snapshot, then the bundled seed. Stage failures fall through
// silently; Initialize itself never fails.
func (s *Store) Initialize(ctx context.Context) {
	if s.remote != nil && s.remote.Configured() {
		if col, ok := s.remote.Read(ctx); ok {
			s.adopt(col)
			if err := s.snap.SaveCollection(s.collection()); err != nil {
				s.logger.Warn("snapshot refresh failed", zap.Error(err))
			}
			s.logger.Info("collection loaded from remote", zap.Int("recipes", s.Count()))
			return
		}
		s.logger.Info("remote unavailable, trying local snapshot")
	}

	if col, ok, err := s.snap.LoadCollection(); err == nil && ok {
		s.adopt(col)
		s.logger.Info("collection loaded from snapshot", zap.Int("recipes", s.Count()))
		return
	}

	s.adopt(seed.Collection())
	if err := s.snap.SaveCollection(s.collection()); err != nil {
		s.logger.Warn("seed snapshot persist failed", zap.Error(err))
	}
	s.logger.Info("collection seeded empty")
}

func (s *Store) adopt(col recipe.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col.Version == "" {
		col.Version = "1"
	}
	for i := range col.Recipes {
		col.Recipes[i].Normalize()
	}
	s.version = col.Version
	s.recipes = col.Recipes
}

// collection snapshots current state for persistence.
func (s *Store) collection() recipe.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectionLocked()
}

func (s *Store) collectionLocked() recipe.Collection {
	out := recipe.Collection{Version: s.version, Recipes: make([]recipe.Recipe, 0, len(s.recipes))}
	for _, r := range s.recipes {
		out.Recipes = append(out.Recipes, r.Clone())
	}
	return out
}

// Count returns the collection size.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}

// GetAll returns a defensive copy of the collection in insertion order.
func (s *Store) GetAll() []recipe.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]recipe.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r.Clone())
	}
	return out
}

// GetByID returns the matching record. The collection is personal
// scale, so the linear scan is fine.
func (s *Store) GetByID(id string) (recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.recipes {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return recipe.Recipe{}, ErrNotFound
}

// Search matches query case-insensitively against name, notes, tags,
// ingredients and the resolved category label. An empty query returns
// the full collection.
func (s *Store) Search(query string) []recipe.Recipe {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.GetAll()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []recipe.Recipe{}
	for _, r := range s.recipes {
		haystack := strings.ToLower(strings.Join([]string{
			r.Name,
			r.Notes,
			strings.Join(r.Tags, " "),
			strings.Join(r.Ingredients, " "),
			recipe.CategoryFor(r.Category).Label,
		}, "\n"))
		if strings.Contains(haystack, query) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Add appends a recipe, assigning an id and creation stamp when
// absent, persists the snapshot, and attempts a remote write. The
// local mutation stands regardless of the remote outcome.
func (s *Store) Add(ctx context.Context, r recipe.Recipe) (recipe.Recipe, Outcome) {
	s.mu.Lock()
	r.Normalize()
	if r.ID == "" {
		r.ID = s.newID()
	}
	if r.DateAdded == "" {
		r.DateAdded = recipe.Stamp(s.clock.Now())
	}
	if r.Category == "" {
		r.Category = recipe.Classify("", "", r.Name, r.Ingredients)
	}
	s.recipes = append(s.recipes, r)
	col := s.collectionLocked()
	s.mu.Unlock()

	out := s.persist(ctx, col, "Add "+r.Name)
	return r.Clone(), out
}

// Update merges non-nil patch fields into the record (shallow field
// replacement) and stamps lastModified. Unknown ids return ErrNotFound
// without touching anything.
func (s *Store) Update(ctx context.Context, id string, p Patch) (recipe.Recipe, Outcome, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return recipe.Recipe{}, Outcome{}, ErrNotFound
	}
	p.apply(&s.recipes[idx])
	s.recipes[idx].LastModified = recipe.Stamp(s.clock.Now())
	s.recipes[idx].Normalize()
	updated := s.recipes[idx].Clone()
	col := s.collectionLocked()
	s.mu.Unlock()

	out := s.persist(ctx, col, "Update "+updated.Name)
	return updated, out, nil
}

// SaveNote replaces only the notes field. The remote write is
// fire-and-forget: it runs detached, its failure is logged, and the
// caller neither waits for nor receives the outcome. Note-only saves
// deliberately skip the lastModified stamp.
func (s *Store) SaveNote(id, text string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.recipes[idx].Notes = text
	name := s.recipes[idx].Name
	col := s.collectionLocked()
	s.mu.Unlock()

	if err := s.snap.SaveCollection(col); err != nil {
		s.logger.Warn("snapshot save failed", zap.Error(err))
	}

	s.noteSync.Add(1)
	go func() {
		defer s.noteSync.Done()
		ctx, cancel := context.WithTimeout(context.Background(), noteSyncTimeout)
		defer cancel()
		if out := s.syncRemote(ctx, col, "Update notes for "+name); out.Err != "" {
			s.logger.Warn("detached note sync failed", zap.String("id", id), zap.String("error", out.Err))
		}
	}()
	return nil
}

// Remove filters the record out, persists, and attempts a remote write.
func (s *Store) Remove(ctx context.Context, id string) (Outcome, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return Outcome{}, ErrNotFound
	}
	name := s.recipes[idx].Name
	s.recipes = append(s.recipes[:idx], s.recipes[idx+1:]...)
	col := s.collectionLocked()
	s.mu.Unlock()

	return s.persist(ctx, col, "Remove "+name), nil
}

// Sync pushes the current collection to the snapshot and the remote
// without mutating anything.
func (s *Store) Sync(ctx context.Context) Outcome {
	return s.persist(ctx, s.collection(), "Sync collection")
}

// Stats summarizes the collection for the UI.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Total: len(s.recipes), PerCategory: map[string]int{}}
	for _, r := range s.recipes {
		st.PerCategory[r.Category]++
		if strings.TrimSpace(r.Notes) != "" {
			st.WithNotes++
		}
	}
	st.Categories = len(st.PerCategory)
	return st
}

// WaitForNoteSync blocks until detached note writes have finished.
// Exposed for tests and graceful shutdown.
func (s *Store) WaitForNoteSync() {
	s.noteSync.Wait()
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) newID() string {
	id, err := s.ids.NewID()
	if err != nil {
		// Practically unreachable, but a recipe must never go without
		// an id.
		s.logger.Warn("id generation failed, using timestamp", zap.Error(err))
		return fmt.Sprintf("r-%d", s.clock.Now().UnixNano())
	}
	return id
}

// persist writes the snapshot and then attempts the remote write.
// Snapshot failures are logged, not surfaced: local state lives in
// memory either way and the next persist retries.
func (s *Store) persist(ctx context.Context, col recipe.Collection, action string) Outcome {
	if err := s.snap.SaveCollection(col); err != nil {
		s.logger.Warn("snapshot save failed", zap.Error(err))
	}
	return s.syncRemote(ctx, col, action)
}

func (s *Store) syncRemote(ctx context.Context, col recipe.Collection, action string) Outcome {
	if s.remote == nil || !s.remote.Configured() {
		return Outcome{Synced: false, Err: "remote sync not configured"}
	}
	message := fmt.Sprintf("%s (%s)", action, recipe.Stamp(s.clock.Now()))
	if err := s.remote.Write(ctx, col, message); err != nil {
		metrics.ObserveSyncWrite("error")
		s.logger.Warn("remote write failed", zap.String("action", action), zap.Error(err))
		return Outcome{Synced: false, Err: err.Error()}
	}
	metrics.ObserveSyncWrite("ok")
	return Outcome{Synced: true}
}
