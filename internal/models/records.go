// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package models

// Framework identifiers as they appear in idea progress maps and step records.
const (
	FrameworkDE = "disciplined-entrepreneurship"
	FrameworkST = "startup-tactics"
)

// User is a normalized platform account.
type User struct {
	ID                 string              `json:"id"`
	Email              string              `json:"email"` // lowercased and trimmed
	CreatedDate        string              `json:"created_date,omitempty"`
	LastLogin          string              `json:"last_login,omitempty"`
	Updated            string              `json:"updated,omitempty"`
	FirstName          string              `json:"first_name,omitempty"`
	LastName           string              `json:"last_name,omitempty"`
	Type               string              `json:"type,omitempty"`
	Gender             string              `json:"gender,omitempty"`
	Affiliations       []Affiliation       `json:"affiliations"`
	Enrollments        []string            `json:"enrollments"`
	Institution        *Institution        `json:"institution,omitempty"`
	StudentAffiliation *StudentAffiliation `json:"student_affiliation,omitempty"`
	Profile            *Profile            `json:"orbit_profile,omitempty"`
	Views              []int64             `json:"views,omitempty"` // view times, epoch seconds
}

type Affiliation struct {
	Type        string       `json:"type,omitempty"`
	Title       string       `json:"title,omitempty"`
	Departments []Department `json:"departments"`
}

type Department struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

type Institution struct {
	Name            string `json:"name,omitempty"`
	AffiliationType string `json:"affiliation_type,omitempty"`
}

type StudentAffiliation struct {
	Type        string `json:"type,omitempty"`
	ClassYear   string `json:"class_year,omitempty"`
	StudentType string `json:"student_type,omitempty"`
}

// Profile is the optional onboarding questionnaire attached to a user.
type Profile struct {
	Experience string   `json:"experience,omitempty"`
	Interests  []string `json:"interests"`
	Needs      []string `json:"needs"`
	Personas   []string `json:"persona"`
	HasImage   bool     `json:"has_image"`
}

// HasCompleteProfile reports whether first name, last name and email are all set.
func (u *User) HasCompleteProfile() bool {
	return u.FirstName != "" && u.LastName != "" && u.Email != ""
}

// Idea is a normalized business idea.
type Idea struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CreatedDate    string   `json:"created_date,omitempty"`
	Owner          string   `json:"owner,omitempty"`
	Ranking        int      `json:"ranking"`
	TotalProgress  float64  `json:"total_progress"`
	DEProgress     float64  `json:"de_progress"`
	STProgress     float64  `json:"st_progress"`
	Language       string   `json:"language"`
	Frameworks     []string `json:"frameworks"`
	StepsCompleted int      `json:"steps_completed"`
	Iteration      int      `json:"iteration"`
	Category       string   `json:"category,omitempty"`
}

// UsesFramework reports whether the idea lists the given framework.
func (i *Idea) UsesFramework(framework string) bool {
	for _, f := range i.Frameworks {
		if f == framework {
			return true
		}
	}
	return false
}

// MaxProgress returns the highest of the DE, ST and total progress values.
func (i *Idea) MaxProgress() float64 {
	m := i.DEProgress
	if i.STProgress > m {
		m = i.STProgress
	}
	if i.TotalProgress > m {
		m = i.TotalProgress
	}
	return m
}

// Step is a normalized framework step submission.
type Step struct {
	ID        string `json:"id"`
	IdeaID    string `json:"idea_id"`
	Owner     string `json:"owner,omitempty"`
	Framework string `json:"framework,omitempty"`
	StepName  string `json:"step_name"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
	Active    bool   `json:"active"`
	Name      string `json:"name,omitempty"`
	Message   string `json:"message,omitempty"`
	WordCount int    `json:"content_word_count"`
	Sections  int    `json:"content_sections"`
}

// CategorizedIdea is one line of categorizer output.
type CategorizedIdea struct {
	ID       string `json:"_id"`
	Category string `json:"category"`
}
