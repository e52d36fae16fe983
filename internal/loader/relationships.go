// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/models"
)

// Relationship file names; each file wraps its map under the file's base
// name, e.g. {"team_student_map": {...}}.
const (
	TeamStudentFile = "team_student_map.json"
	SectionTeamFile = "section_team_map.json"
	TermSectionFile = "term_section_map.json"
	TeamMetaFile    = "team_metadata.json"
)

// LoadRelationships reads the four relationship maps from dir. Missing or
// unreadable files are logged and leave their map empty.
func LoadRelationships(dir string) *models.Relationships {
	rel := &models.Relationships{
		TeamStudents: map[string][]string{},
		SectionTeams: map[string][]int{},
		TermSections: map[string]models.TermSection{},
		TeamMetadata: map[string]models.TeamInfo{},
	}

	loaded := 0
	for _, f := range []struct {
		name string
		dst  interface{}
	}{
		{TeamStudentFile, &rel.TeamStudents},
		{SectionTeamFile, &rel.SectionTeams},
		{TermSectionFile, &rel.TermSections},
		{TeamMetaFile, &rel.TeamMetadata},
	} {
		err := loadWrapped(filepath.Join(dir, f.name), f.dst)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logging.Warn().Str("file", f.name).Str("dir", dir).Msg("Relationship file not found")
		case err != nil:
			logging.Error().Err(err).Str("file", f.name).Msg("Error loading relationship file")
		default:
			loaded++
		}
	}

	logging.Info().Int("files", loaded).Int("teams", len(rel.TeamStudents)).Msg("Loaded relationship maps")
	return rel
}

func loadWrapped(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	base := filepath.Base(path)
	key := base[:len(base)-len(filepath.Ext(base))]
	inner, ok := wrapper[key]
	if !ok {
		return fmt.Errorf("key %q not found in %s", key, base)
	}
	if err := json.Unmarshal(inner, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
