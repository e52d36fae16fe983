// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package filter narrows a dataset to a course, user type, activity level
// or creation window before analysis.
//
// Every user-based filter keeps the selected users, the ideas they own and
// the steps they own or that belong to one of the kept ideas. Filters return
// a new Dataset and never modify their input.
package filter

import (
	"strings"

	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/models"
)

// Filter transforms a dataset.
type Filter func(ds *loader.Dataset) *loader.Dataset

// Options selects the filters to build. Zero values disable a filter.
type Options struct {
	CourseCode string
	UserType   string
	MinIdeas   int
	MinSteps   int
	StartDate  string // YYYY-MM-DD, inclusive
	EndDate    string // YYYY-MM-DD, inclusive
}

// FromOptions returns the filters enabled by opts, in application order.
func FromOptions(opts Options) []Filter {
	var filters []Filter
	if opts.CourseCode != "" {
		filters = append(filters, ByCourse(opts.CourseCode))
	}
	if opts.UserType != "" {
		filters = append(filters, ByUserType(opts.UserType))
	}
	if opts.MinIdeas > 0 || opts.MinSteps > 0 {
		filters = append(filters, ByActivity(opts.MinIdeas, opts.MinSteps))
	}
	if opts.StartDate != "" && opts.EndDate != "" {
		filters = append(filters, ByTimePeriod(opts.StartDate, opts.EndDate))
	}
	return filters
}

// Compose applies filters in order.
func Compose(ds *loader.Dataset, filters ...Filter) *loader.Dataset {
	for _, f := range filters {
		ds = f(ds)
	}
	return ds
}

// ByCourse keeps users with an enrollment starting with code.
func ByCourse(code string) Filter {
	return func(ds *loader.Dataset) *loader.Dataset {
		emails := make(map[string]struct{})
		for i := range ds.Users {
			u := &ds.Users[i]
			if u.Email == "" {
				continue
			}
			for _, e := range u.Enrollments {
				if strings.HasPrefix(e, code) {
					emails[u.Email] = struct{}{}
					break
				}
			}
		}
		return ByEmails(ds, emails)
	}
}

// ByUserType keeps users whose type equals userType.
func ByUserType(userType string) Filter {
	return func(ds *loader.Dataset) *loader.Dataset {
		emails := make(map[string]struct{})
		for i := range ds.Users {
			if ds.Users[i].Type == userType && ds.Users[i].Email != "" {
				emails[ds.Users[i].Email] = struct{}{}
			}
		}
		return ByEmails(ds, emails)
	}
}

// ByActivity keeps users owning at least minIdeas ideas and minSteps steps.
func ByActivity(minIdeas, minSteps int) Filter {
	return func(ds *loader.Dataset) *loader.Dataset {
		ideaCounts := make(map[string]int)
		for i := range ds.Ideas {
			if owner := ds.Ideas[i].Owner; owner != "" {
				ideaCounts[owner]++
			}
		}
		stepCounts := make(map[string]int)
		for i := range ds.Steps {
			if owner := ds.Steps[i].Owner; owner != "" {
				stepCounts[owner]++
			}
		}

		emails := make(map[string]struct{})
		for i := range ds.Users {
			email := ds.Users[i].Email
			if email == "" {
				continue
			}
			if ideaCounts[email] >= minIdeas && stepCounts[email] >= minSteps {
				emails[email] = struct{}{}
			}
		}
		return ByEmails(ds, emails)
	}
}

// ByTimePeriod keeps users, ideas and steps created between start and end
// (YYYY-MM-DD, both inclusive). Only the date part of a timestamp counts.
// Records without a parseable date are dropped.
func ByTimePeriod(start, end string) Filter {
	inRange := func(value string) bool {
		day, ok := datePart(value)
		return ok && day >= start && day <= end
	}

	return func(ds *loader.Dataset) *loader.Dataset {
		out := &loader.Dataset{
			Users: make([]models.User, 0, len(ds.Users)),
			Ideas: make([]models.Idea, 0, len(ds.Ideas)),
			Steps: make([]models.Step, 0, len(ds.Steps)),
		}
		for i := range ds.Users {
			if inRange(ds.Users[i].CreatedDate) {
				out.Users = append(out.Users, ds.Users[i])
			}
		}
		for i := range ds.Ideas {
			if inRange(ds.Ideas[i].CreatedDate) {
				out.Ideas = append(out.Ideas, ds.Ideas[i])
			}
		}
		for i := range ds.Steps {
			if inRange(ds.Steps[i].CreatedAt) {
				out.Steps = append(out.Steps, ds.Steps[i])
			}
		}
		return out
	}
}

// datePart returns the YYYY-MM-DD day of a timestamp. ISO timestamps keep
// their written date regardless of offset.
func datePart(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	if before, _, ok := strings.Cut(value, "T"); ok {
		if _, err := dates.ParseDay(before); err == nil {
			return before, true
		}
		return "", false
	}
	t, ok := dates.Parse(value)
	if !ok {
		return "", false
	}
	return dates.DayKey(t), true
}

// ByEmails keeps the given users, the ideas they own, and the steps they own
// or that belong to a kept idea.
func ByEmails(ds *loader.Dataset, emails map[string]struct{}) *loader.Dataset {
	out := &loader.Dataset{
		Users: make([]models.User, 0, len(emails)),
		Ideas: make([]models.Idea, 0),
		Steps: make([]models.Step, 0),
	}

	for i := range ds.Users {
		if _, ok := emails[ds.Users[i].Email]; ok {
			out.Users = append(out.Users, ds.Users[i])
		}
	}

	ideaIDs := make(map[string]struct{})
	for i := range ds.Ideas {
		if _, ok := emails[ds.Ideas[i].Owner]; ok {
			out.Ideas = append(out.Ideas, ds.Ideas[i])
			if ds.Ideas[i].ID != "" {
				ideaIDs[ds.Ideas[i].ID] = struct{}{}
			}
		}
	}

	for i := range ds.Steps {
		s := &ds.Steps[i]
		_, byOwner := emails[s.Owner]
		_, byIdea := ideaIDs[s.IdeaID]
		if byOwner || byIdea {
			out.Steps = append(out.Steps, *s)
		}
	}
	return out
}
