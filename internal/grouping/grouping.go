// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package grouping provides generic group/count helpers over record slices.
//
// Key functions return (key, ok); items whose key is not ok are skipped,
// which is how a missing field is expressed.
package grouping

import (
	"sort"
	"strconv"
)

// Uncategorized collects items that IntoCategories could not place.
const Uncategorized = "uncategorized"

// GroupBy buckets items by key.
func GroupBy[T any, K comparable](items []T, key func(T) (K, bool)) map[K][]T {
	out := make(map[K][]T)
	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		out[k] = append(out[k], item)
	}
	return out
}

// CountBy counts items per key.
func CountBy[T any, K comparable](items []T, key func(T) (K, bool)) map[K]int {
	out := make(map[K]int)
	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		out[k]++
	}
	return out
}

// Nested groups items on two levels.
func Nested[T any, K1, K2 comparable](items []T, primary func(T) (K1, bool), secondary func(T) (K2, bool)) map[K1]map[K2][]T {
	out := make(map[K1]map[K2][]T)
	for _, item := range items {
		k1, ok1 := primary(item)
		k2, ok2 := secondary(item)
		if !ok1 || !ok2 {
			continue
		}
		inner, ok := out[k1]
		if !ok {
			inner = make(map[K2][]T)
			out[k1] = inner
		}
		inner[k2] = append(inner[k2], item)
	}
	return out
}

// FindRelationships joins secondary items to primary items sharing a key.
// Every primary item contributes its matches, so a repeated primary key
// repeats the matches.
func FindRelationships[P, S any, K comparable](primary []P, secondary []S, pkey func(P) (K, bool), skey func(S) (K, bool)) map[K][]S {
	lookup := GroupBy(secondary, skey)
	out := make(map[K][]S)
	for _, p := range primary {
		k, ok := pkey(p)
		if !ok {
			continue
		}
		matches, found := lookup[k]
		if !found {
			continue
		}
		out[k] = append(out[k], matches...)
	}
	return out
}

// Range is a half-open interval [Min, Max).
type Range struct {
	Min, Max float64
}

// Label formats the range as "min-max".
func (r Range) Label() string {
	return strconv.FormatFloat(r.Min, 'f', -1, 64) + "-" + strconv.FormatFloat(r.Max, 'f', -1, 64)
}

// GroupValuesByRange places each value in the first range containing it,
// or under "other".
func GroupValuesByRange(values []float64, ranges []Range) map[string][]float64 {
	out := make(map[string][]float64)
	for _, v := range values {
		label := "other"
		for _, r := range ranges {
			if r.Min <= v && v < r.Max {
				label = r.Label()
				break
			}
		}
		out[label] = append(out[label], v)
	}
	return out
}

// IntoCategories maps each item's key through a category -> keys table.
// Items with no category land under Uncategorized.
func IntoCategories[T any](items []T, key func(T) string, categories map[string][]string) map[string][]T {
	reverse := make(map[string]string)
	for category, keys := range categories {
		for _, k := range keys {
			reverse[k] = category
		}
	}

	out := make(map[string][]T)
	for _, item := range items {
		category, ok := reverse[key(item)]
		if !ok {
			category = Uncategorized
		}
		out[category] = append(out[category], item)
	}
	return out
}

// SortedKeys returns the map keys in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NonEmpty is a key function adapter that skips empty strings.
func NonEmpty[T any](f func(T) string) func(T) (string, bool) {
	return func(item T) (string, bool) {
		k := f(item)
		return k, k != ""
	}
}
