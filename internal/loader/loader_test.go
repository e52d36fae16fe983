// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/models"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const usersJSON = `[
  {
    "id": {"$oid": "u1"},
    "email": "  Alice@MIT.edu ",
    "created": {"$date": "2024-09-03T10:00:00.000Z"},
    "last_login": {"$date": {"$numberLong": "1735689600000"}},
    "first_name": "Alice",
    "last_name": "Smith",
    "type": "student",
    "gender": "female",
    "affiliations": [{"type": "student", "title": "MBA", "departments": [{"code": "15", "name": "Sloan"}]}],
    "enrollments": ["15.390_2024_Fall", null],
    "institution": {"name": "MIT", "affiliation": {"type": "student"}},
    "student_affiliation": {"type": "graduate", "classYear": "2025", "student_type": "mba"},
    "orbitProfile": {"experience": "none", "interest": ["ai"], "need": ["mentor"], "persona": ["builder"], "has_image": true},
    "views": ["1725360000", {"$numberLong": "1725360060000"}, 1725360120]
  },
  {"id": "u2"},
  {"email": "nobody@mit.edu"},
  {"id": "u3", "email": "bob@mit.edu"}
]`

func TestLoadUsers(t *testing.T) {
	dir := t.TempDir()
	users, err := LoadUsers(writeTestFile(t, dir, "users.json", usersJSON))
	if err != nil {
		t.Fatalf("LoadUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	u := users[0]
	if u.ID != "u1" || u.Email != "alice@mit.edu" {
		t.Errorf("unexpected id/email: %q %q", u.ID, u.Email)
	}
	if u.CreatedDate != "2024-09-03T10:00:00.000Z" {
		t.Errorf("CreatedDate = %q", u.CreatedDate)
	}
	if u.LastLogin != "1735689600000" {
		t.Errorf("LastLogin = %q", u.LastLogin)
	}
	if diff := cmp.Diff([]string{"15.390_2024_Fall"}, u.Enrollments); diff != "" {
		t.Errorf("Enrollments mismatch (-want +got):\n%s", diff)
	}
	if u.Institution == nil || u.Institution.AffiliationType != "student" {
		t.Errorf("Institution = %+v", u.Institution)
	}
	if u.StudentAffiliation == nil || u.StudentAffiliation.ClassYear != "2025" {
		t.Errorf("StudentAffiliation = %+v", u.StudentAffiliation)
	}
	if u.Profile == nil || !u.Profile.HasImage || u.Profile.Interests[0] != "ai" {
		t.Errorf("Profile = %+v", u.Profile)
	}
	if diff := cmp.Diff([]int64{1725360000, 1725360060, 1725360120}, u.Views); diff != "" {
		t.Errorf("Views mismatch (-want +got):\n%s", diff)
	}
	if !u.HasCompleteProfile() {
		t.Error("expected complete profile")
	}

	if users[1].Profile != nil || len(users[1].Enrollments) != 0 {
		t.Errorf("minimal user should have empty optional fields: %+v", users[1])
	}
}

func TestLoadNotList(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "users.json", `{"id": "u1"}`)

	if _, err := LoadUsers(path); !errors.Is(err, ErrNotList) {
		t.Errorf("LoadUsers() error = %v, want ErrNotList", err)
	}
	if _, err := LoadIdeas(path); !errors.Is(err, ErrNotList) {
		t.Errorf("LoadIdeas() error = %v, want ErrNotList", err)
	}
	if _, err := LoadSteps(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadSteps() expected error for missing file")
	}
}

func TestIdeaText(t *testing.T) {
	tests := []struct {
		name, title, desc string
		wantTitle         string
		wantDesc          string
		wantOK            bool
	}{
		{"both", "Pet app", "Walk dogs", "Pet app: Walk dogs", "Walk dogs", true},
		{"title only", " Pet app ", "", "Pet app", "", true},
		{"description only", "", "Walk dogs", "Walk dogs", "Walk dogs", true},
		{"neither", "  ", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, desc, ok := IdeaText(tt.title, tt.desc)
			if title != tt.wantTitle || desc != tt.wantDesc || ok != tt.wantOK {
				t.Errorf("IdeaText() = (%q, %q, %v)", title, desc, ok)
			}
		})
	}
}

const ideasJSON = `[
  {
    "_id": {"$oid": "i1"},
    "title": "Pet app",
    "description": "Walk dogs",
    "created": {"$date": "2024-10-01T12:00:00Z"},
    "owner": "alice@mit.edu",
    "ranking": 3,
    "total_progress": 40,
    "progress": {"disciplined-entrepreneurship": 25, "startup-tactics": 0},
    "market-segmentation": "Students",
    "beachhead-market": "  ",
    "selected-persona": "Alice",
    "define-persona": 12
  },
  {
    "_id": "i2",
    "description": "Solar kiosks",
    "DE_progress": 0,
    "ST_progress": "10",
    "from_tactics": true,
    "language": "es"
  },
  {"_id": "i3", "title": "", "description": ""}
]`

func TestLoadIdeas(t *testing.T) {
	dir := t.TempDir()
	ideas, err := LoadIdeas(writeTestFile(t, dir, "ideas.json", ideasJSON))
	if err != nil {
		t.Fatalf("LoadIdeas() error = %v", err)
	}
	if len(ideas) != 2 {
		t.Fatalf("expected 2 ideas, got %d", len(ideas))
	}

	first := ideas[0]
	want := models.Idea{
		ID:             "i1",
		Title:          "Pet app: Walk dogs",
		Description:    "Walk dogs",
		CreatedDate:    "2024-10-01T12:00:00Z",
		Owner:          "alice@mit.edu",
		Ranking:        3,
		TotalProgress:  40,
		DEProgress:     25,
		STProgress:     0,
		Language:       "en",
		Frameworks:     []string{models.FrameworkDE},
		StepsCompleted: 2,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("first idea mismatch (-want +got):\n%s", diff)
	}

	second := ideas[1]
	if second.Title != "Solar kiosks" || second.Language != "es" {
		t.Errorf("second idea title/language = %q/%q", second.Title, second.Language)
	}
	if second.STProgress != 10 || second.DEProgress != 0 {
		t.Errorf("second idea progress = DE %v ST %v", second.DEProgress, second.STProgress)
	}
	if diff := cmp.Diff([]string{models.FrameworkST}, second.Frameworks); diff != "" {
		t.Errorf("second idea frameworks mismatch (-want +got):\n%s", diff)
	}
}

const stepsJSON = `[
  {
    "_id": {"$oid": "s1"},
    "idea_id": {"$oid": "i1"},
    "owner": "alice@mit.edu",
    "framework": "disciplined-entrepreneurship",
    "step": "market-segmentation",
    "content": "# Segments\nStudents and staff\n## Size\nlarge",
    "created_at": {"$date": "2024-10-02T09:00:00Z"},
    "active": true
  },
  {"_id": "s2", "idea_id": "i1", "step": "persona", "content": "   "},
  {"_id": "s3", "idea_id": "i1", "content": "text"},
  {"_id": "s4", "step": "persona", "content": "text"}
]`

func TestLoadSteps(t *testing.T) {
	dir := t.TempDir()
	steps, err := LoadSteps(writeTestFile(t, dir, "steps.json", stepsJSON))
	if err != nil {
		t.Fatalf("LoadSteps() error = %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	s := steps[0]
	if s.ID != "s1" || s.IdeaID != "i1" || s.StepName != "market-segmentation" || !s.Active {
		t.Errorf("unexpected step %+v", s)
	}
	if s.WordCount != 8 {
		t.Errorf("WordCount = %d, want 8", s.WordCount)
	}
	if s.Sections != 2 {
		t.Errorf("Sections = %d, want 2", s.Sections)
	}
}

const evalsJSON = `[
  {
    "course_id": "15.390",
    "semester": {"term": "Fall", "year": 2024},
    "tool_version": "v2",
    "evaluation_metrics": [
      {"section": "Overall", "questions": [
        {"question": "Overall rating of the subject", "avg": 6.0},
        {"question": "Overall rating of the instructor", "avg": 5.0}
      ]},
      {"section": "Hours", "questions": [
        {"question": "Hours spent in classroom", "avg": 3.0},
        {"question": "Unanswered", "avg": null}
      ]}
    ]
  },
  {
    "course_id": "15.390",
    "semester": {"term": "spring", "year": 2024, "order": 1},
    "evaluation_metrics": [{"section": "Overall", "questions": [{"question": "Overall rating", "avg": 5.5}]}]
  },
  {"course_id": "15.390", "semester": {"term": "autumn", "year": 2024}, "evaluation_metrics": [{"section": "x", "questions": []}]},
  {"semester": {"term": "fall", "year": 2023}, "evaluation_metrics": []}
]`

func TestLoadEvaluations(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "15390.json", evalsJSON)
	writeTestFile(t, dir, "notes.txt", "ignored")
	writeTestFile(t, dir, "broken.json", `{"not": "a list"}`)

	evals, err := LoadEvaluations(dir)
	if err != nil {
		t.Fatalf("LoadEvaluations() error = %v", err)
	}
	if len(evals) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(evals))
	}

	fall := evals[0]
	wantSemester := models.Semester{Term: "fall", Year: 2024, Code: "2024_fall", DisplayName: "Fall 2024", Order: 2}
	if diff := cmp.Diff(wantSemester, fall.Semester); diff != "" {
		t.Errorf("semester mismatch (-want +got):\n%s", diff)
	}
	if fall.ToolVersion != "v2" {
		t.Errorf("ToolVersion = %q", fall.ToolVersion)
	}
	if fall.Overall.TotalQuestions != 4 || fall.Overall.ValidScores != 3 {
		t.Errorf("Overall counts = %d/%d", fall.Overall.TotalQuestions, fall.Overall.ValidScores)
	}
	if got := *fall.Overall.OverallAvg; got != 14.0/3.0 {
		t.Errorf("OverallAvg = %v", got)
	}
	if diff := cmp.Diff(map[string]float64{"Overall": 5.5, "Hours": 3}, fall.Overall.SectionAverages); diff != "" {
		t.Errorf("SectionAverages mismatch (-want +got):\n%s", diff)
	}

	spring := evals[1]
	if spring.ToolVersion != models.ToolVersionNone || spring.Semester.Order != 1 {
		t.Errorf("spring evaluation = %+v", spring.Semester)
	}
}

func TestLoadEvaluationsMissingDir(t *testing.T) {
	evals, err := LoadEvaluations(filepath.Join(t.TempDir(), "nope"))
	if err != nil || evals != nil {
		t.Errorf("LoadEvaluations() = %v, %v; want nil, nil", evals, err)
	}
}

func TestLoadRelationships(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, TeamStudentFile, `{"team_student_map": {"1": ["a@mit.edu", "b@mit.edu"], "2": ["c@mit.edu"]}}`)
	writeTestFile(t, dir, SectionTeamFile, `{"section_team_map": {"Fall_2024_A": [1, 2]}}`)
	writeTestFile(t, dir, TermSectionFile, `{"term_section_map": {"Fall_2024": {"term": "Fall", "year": 2024, "sections": ["A"], "student_count": 3, "tool_version": "v2"}, "Fall_2023": {"term": "Fall", "year": 2023, "sections": [], "tool_version": null}}}`)
	writeTestFile(t, dir, TeamMetaFile, `{"wrong_key": {}}`)

	rel := LoadRelationships(dir)
	if rel.Empty() {
		t.Fatal("relationships should not be empty")
	}
	if diff := cmp.Diff([]string{"a@mit.edu", "b@mit.edu", "c@mit.edu"}, rel.StudentsByTerm("Fall", 2024)); diff != "" {
		t.Errorf("StudentsByTerm mismatch (-want +got):\n%s", diff)
	}
	if got := rel.ToolVersion("Fall", 2024); got != "v2" {
		t.Errorf("ToolVersion(Fall 2024) = %q", got)
	}
	if got := rel.ToolVersion("Fall", 2023); got != models.ToolVersionNone {
		t.Errorf("ToolVersion(Fall 2023) = %q", got)
	}
	if len(rel.TeamMetadata) != 0 {
		t.Errorf("TeamMetadata should be empty when key is missing, got %v", rel.TeamMetadata)
	}
	if diff := cmp.Diff([]int{1, 2}, rel.TeamIDs()); diff != "" {
		t.Errorf("TeamIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	ds, err := LoadAll(context.Background(), Paths{
		Users: writeTestFile(t, dir, "users.json", usersJSON),
		Ideas: writeTestFile(t, dir, "ideas.json", ideasJSON),
		Steps: writeTestFile(t, dir, "steps.json", stepsJSON),
	})
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(ds.Users) != 2 || len(ds.Ideas) != 2 || len(ds.Steps) != 1 {
		t.Errorf("LoadAll() counts = %d/%d/%d", len(ds.Users), len(ds.Ideas), len(ds.Steps))
	}

	_, err = LoadAll(context.Background(), Paths{
		Users: filepath.Join(dir, "users.json"),
		Ideas: filepath.Join(dir, "missing.json"),
		Steps: filepath.Join(dir, "steps.json"),
	})
	if err == nil {
		t.Error("LoadAll() expected error when a file is missing")
	}
}

func TestLoadCategorized(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "categorized.json",
		`[{"_id": {"$oid": "i1"}, "category": "Pet Care"}, {"_id": "i2", "category": "Energy"}, {"category": "orphan"}]`)

	got, err := LoadCategorized(path)
	if err != nil {
		t.Fatalf("LoadCategorized() error = %v", err)
	}
	want := []models.CategorizedIdea{{ID: "i1", Category: "Pet Care"}, {ID: "i2", Category: "Energy"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadCategorized() mismatch (-want +got):\n%s", diff)
	}
}

func TestTimestampEpochNumbers(t *testing.T) {
	want := time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
	}{
		{"integer millis", `1706400000000`},
		{"exponent millis", `1.7064e12`},
		{"fractional seconds", `1706400000.75`},
		{"wrapped exponent", `{"$date": 1.7064E+12}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			got, ok := dates.Parse(string(ts))
			if !ok {
				t.Fatalf("Parse(%q) failed", ts)
			}
			if !got.Equal(want) {
				t.Errorf("%s parsed as %v, want %v", tt.in, got, want)
			}
		})
	}
}
