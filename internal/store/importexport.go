package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/recipedex/recipedex/internal/recipe"
)

// ExportJSON serializes the full collection document.
func (s *Store) ExportJSON() ([]byte, error) {
	out, err := json.MarshalIndent(s.collection(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding collection: %w", err)
	}
	return out, nil
}

// ImportJSON merges recipes from data into the collection. The input
// may be a full collection document or a bare array of recipes.
// Incoming records overwrite existing records with the same id in
// place; new ids are appended; nothing is ever deleted by an import.
// Returns the number of records merged.
func (s *Store) ImportJSON(ctx context.Context, data []byte) (int, Outcome, error) {
	incoming, err := decodeImport(data)
	if err != nil {
		return 0, Outcome{}, err
	}
	if len(incoming) == 0 {
		return 0, Outcome{}, nil
	}

	s.mu.Lock()
	for _, r := range incoming {
		r.Normalize()
		if r.ID == "" {
			r.ID = s.newID()
		}
		if r.DateAdded == "" {
			r.DateAdded = recipe.Stamp(s.clock.Now())
		}
		if idx := s.indexOf(r.ID); idx >= 0 {
			s.recipes[idx] = r
		} else {
			s.recipes = append(s.recipes, r)
		}
	}
	col := s.collectionLocked()
	s.mu.Unlock()

	out := s.persist(ctx, col, fmt.Sprintf("Import %d recipes", len(incoming)))
	return len(incoming), out, nil
}

func decodeImport(data []byte) ([]recipe.Recipe, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []recipe.Recipe
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parsing recipe array: %w", err)
		}
		return list, nil
	}
	var col recipe.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return nil, fmt.Errorf("parsing collection document: %w", err)
	}
	return col.Recipes, nil
}
