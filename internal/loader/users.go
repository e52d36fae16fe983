// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
)

type rawUser struct {
	ID                 *ObjectID              `json:"id"`
	Email              *Text                  `json:"email"`
	Created            Timestamp              `json:"created"`
	LastLogin          Timestamp              `json:"last_login"`
	Updated            Timestamp              `json:"updated"`
	FirstName          Text                   `json:"first_name"`
	LastName           Text                   `json:"last_name"`
	Type               Text                   `json:"type"`
	Gender             Text                   `json:"gender"`
	Affiliations       []rawAffiliation       `json:"affiliations"`
	Enrollments        Texts                  `json:"enrollments"`
	Institution        *rawInstitution        `json:"institution"`
	StudentAffiliation *rawStudentAffiliation `json:"student_affiliation"`
	OrbitProfile       *rawProfile            `json:"orbitProfile"`
	Views              []Timestamp            `json:"views"`
}

type rawAffiliation struct {
	Type        Text `json:"type"`
	Title       Text `json:"title"`
	Departments []struct {
		Code Text `json:"code"`
		Name Text `json:"name"`
	} `json:"departments"`
}

type rawInstitution struct {
	Name        Text `json:"name"`
	Affiliation *struct {
		Type Text `json:"type"`
	} `json:"affiliation"`
}

type rawStudentAffiliation struct {
	Type        Text `json:"type"`
	ClassYear   Text `json:"classYear"`
	StudentType Text `json:"student_type"`
}

type rawProfile struct {
	Experience Text  `json:"experience"`
	Interest   Texts `json:"interest"`
	Need       Texts `json:"need"`
	Persona    Texts `json:"persona"`
	HasImage   bool  `json:"has_image"`
}

// LoadUsers reads and normalizes the users export.
func LoadUsers(path string) ([]models.User, error) {
	items, err := readArray(path)
	if err != nil {
		return nil, err
	}
	users := ParseUsers(items)
	metrics.RecordLoad("users", len(users), len(items)-len(users))
	logging.Info().Str("path", path).Int("raw", len(items)).Int("kept", len(users)).Msg("Loaded users")
	return users, nil
}

// ParseUsers normalizes raw user records, skipping records without an id or
// email.
func ParseUsers(items []json.RawMessage) []models.User {
	users := make([]models.User, 0, len(items))
	for i, item := range items {
		var raw rawUser
		if err := json.Unmarshal(item, &raw); err != nil {
			logging.Warn().Err(err).Int("index", i).Msg("Skipping malformed user record")
			continue
		}
		if raw.ID == nil || *raw.ID == "" {
			logging.Warn().Int("index", i).Msg("User missing required field: id")
			continue
		}
		if raw.Email == nil || *raw.Email == "" {
			logging.Warn().Str("id", string(*raw.ID)).Msg("User missing required field: email")
			continue
		}
		users = append(users, raw.normalize())
	}
	return users
}

func (r *rawUser) normalize() models.User {
	u := models.User{
		ID:           string(*r.ID),
		Email:        strings.ToLower(strings.TrimSpace(string(*r.Email))),
		CreatedDate:  string(r.Created),
		LastLogin:    string(r.LastLogin),
		Updated:      string(r.Updated),
		FirstName:    string(r.FirstName),
		LastName:     string(r.LastName),
		Type:         string(r.Type),
		Gender:       string(r.Gender),
		Affiliations: make([]models.Affiliation, 0, len(r.Affiliations)),
		Enrollments:  []string(r.Enrollments),
	}
	if u.Enrollments == nil {
		u.Enrollments = []string{}
	}

	for _, a := range r.Affiliations {
		aff := models.Affiliation{
			Type:        string(a.Type),
			Title:       string(a.Title),
			Departments: make([]models.Department, 0, len(a.Departments)),
		}
		for _, d := range a.Departments {
			aff.Departments = append(aff.Departments, models.Department{Code: string(d.Code), Name: string(d.Name)})
		}
		u.Affiliations = append(u.Affiliations, aff)
	}

	if r.Institution != nil {
		inst := &models.Institution{Name: string(r.Institution.Name)}
		if r.Institution.Affiliation != nil {
			inst.AffiliationType = string(r.Institution.Affiliation.Type)
		}
		u.Institution = inst
	}

	if r.StudentAffiliation != nil {
		u.StudentAffiliation = &models.StudentAffiliation{
			Type:        string(r.StudentAffiliation.Type),
			ClassYear:   string(r.StudentAffiliation.ClassYear),
			StudentType: string(r.StudentAffiliation.StudentType),
		}
	}

	if r.OrbitProfile != nil {
		u.Profile = &models.Profile{
			Experience: string(r.OrbitProfile.Experience),
			Interests:  nonNil(r.OrbitProfile.Interest),
			Needs:      nonNil(r.OrbitProfile.Need),
			Personas:   nonNil(r.OrbitProfile.Persona),
			HasImage:   r.OrbitProfile.HasImage,
		}
	}

	for _, v := range r.Views {
		t, ok := dates.Parse(string(v))
		if !ok {
			continue
		}
		u.Views = append(u.Views, t.Unix())
	}

	return u
}

func nonNil(t Texts) []string {
	if t == nil {
		return []string{}
	}
	return []string(t)
}
