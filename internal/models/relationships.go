// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package models

import (
	"fmt"
	"sort"
	"strconv"
)

// Relationships links students, teams, course sections and terms.
// Keys follow the source files: teams by numeric id, sections by
// "Term_Year_Section", terms by "Term_Year".
type Relationships struct {
	TeamStudents map[string][]string    `json:"team_student_map"`
	SectionTeams map[string][]int       `json:"section_team_map"`
	TermSections map[string]TermSection `json:"term_section_map"`
	TeamMetadata map[string]TeamInfo    `json:"team_metadata"`
}

type TermSection struct {
	Term         string   `json:"term"`
	Year         int      `json:"year"`
	Sections     []string `json:"sections"`
	StudentCount int      `json:"student_count"`
	ToolVersion  *string  `json:"tool_version"`
}

type TeamInfo struct {
	Name              string `json:"name"`
	Term              string `json:"term"`
	Year              int    `json:"year"`
	ListedMemberCount int    `json:"listed_member_count"`
	ActualMemberCount int    `json:"actual_member_count"`
	Discrepancy       int    `json:"discrepancy"`
}

// Empty reports whether no team data was loaded.
func (r *Relationships) Empty() bool {
	return r == nil || len(r.TeamStudents) == 0
}

// TeamMembers returns the student emails of a team.
func (r *Relationships) TeamMembers(teamID int) []string {
	return r.TeamStudents[strconv.Itoa(teamID)]
}

// TeamsInSection returns the team ids of a course section.
func (r *Relationships) TeamsInSection(term string, year int, section string) []int {
	return r.SectionTeams[fmt.Sprintf("%s_%d_%s", term, year, section)]
}

// SectionInfo returns the section list and tool version of a term.
func (r *Relationships) SectionInfo(term string, year int) (TermSection, bool) {
	ts, ok := r.TermSections[fmt.Sprintf("%s_%d", term, year)]
	return ts, ok
}

// ToolVersion returns the tool version used in a term, or ToolVersionNone.
func (r *Relationships) ToolVersion(term string, year int) string {
	ts, ok := r.SectionInfo(term, year)
	if !ok || ts.ToolVersion == nil || *ts.ToolVersion == "" {
		return ToolVersionNone
	}
	return *ts.ToolVersion
}

// Team returns metadata for a team.
func (r *Relationships) Team(teamID int) (TeamInfo, bool) {
	info, ok := r.TeamMetadata[strconv.Itoa(teamID)]
	return info, ok
}

// StudentsByTerm returns the sorted, de-duplicated student emails across
// every section of a term.
func (r *Relationships) StudentsByTerm(term string, year int) []string {
	ts, ok := r.SectionInfo(term, year)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	for _, section := range ts.Sections {
		for _, teamID := range r.TeamsInSection(term, year, section) {
			for _, email := range r.TeamMembers(teamID) {
				seen[email] = struct{}{}
			}
		}
	}

	students := make([]string, 0, len(seen))
	for email := range seen {
		students = append(students, email)
	}
	sort.Strings(students)
	return students
}

// TeamIDs returns all team ids in ascending order.
func (r *Relationships) TeamIDs() []int {
	ids := make([]int, 0, len(r.TeamStudents))
	for key := range r.TeamStudents {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
