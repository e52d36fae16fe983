// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/orbitstats/internal/models"
)

func TestInputs(t *testing.T) {
	ideas := []models.Idea{
		{ID: "1", Title: "Solar kiosk: off-grid charging"},
		{ID: "2", Description: "Only a description"},
		{ID: "3"},
		{Title: "no id"},
	}
	want := []Input{
		{ID: "1", Title: "Solar kiosk: off-grid charging"},
		{ID: "2", Title: "Only a description"},
	}
	if diff := cmp.Diff(want, Inputs(ideas)); diff != "" {
		t.Errorf("Inputs() mismatch (-want +got):\n%s", diff)
	}
}

func inputsOfLen(lengths ...int) []Input {
	out := make([]Input, len(lengths))
	for i, n := range lengths {
		out[i] = Input{ID: string(rune('a' + i)), Title: strings.Repeat("x", n)}
	}
	return out
}

func batchShape(batches []Batch) [][]string {
	out := make([][]string, len(batches))
	for i, b := range batches {
		for _, in := range b.Inputs {
			out[i] = append(out[i], in.ID)
		}
	}
	return out
}

func TestMakeBatches(t *testing.T) {
	tests := []struct {
		name   string
		inputs []Input
		mode   string
		limit  int
		want   [][]string
	}{
		{
			name:   "text limit splits before overflow",
			inputs: inputsOfLen(4, 4, 4),
			mode:   ModeText,
			limit:  8,
			want:   [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:   "oversized title stands alone",
			inputs: inputsOfLen(2, 20, 2),
			mode:   ModeText,
			limit:  10,
			want:   [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name:   "fixed size",
			inputs: inputsOfLen(1, 1, 1, 1, 1),
			mode:   ModeSize,
			limit:  2,
			want:   [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		},
		{
			name:   "no limit",
			inputs: inputsOfLen(5, 5),
			mode:   ModeText,
			limit:  0,
			want:   [][]string{{"a", "b"}},
		},
		{
			name:   "empty",
			inputs: nil,
			mode:   ModeSize,
			limit:  3,
			want:   [][]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := MakeBatches(tt.inputs, tt.mode, tt.limit)
			if diff := cmp.Diff(tt.want, batchShape(batches)); diff != "" {
				t.Errorf("batches mismatch (-want +got):\n%s", diff)
			}
			for i, b := range batches {
				if b.Number != i+1 {
					t.Errorf("batch %d numbered %d", i, b.Number)
				}
			}
		})
	}
}

func TestMakeBatchesTextLen(t *testing.T) {
	batches := MakeBatches(inputsOfLen(3, 4, 9), ModeText, 10)
	got := []int{batches[0].TextLen, batches[1].TextLen}
	if diff := cmp.Diff([]int{7, 9}, got); diff != "" {
		t.Errorf("TextLen mismatch (-want +got):\n%s", diff)
	}

	// Lengths are counted in characters, not bytes.
	accented := []Input{{ID: "a", Title: "ééééé"}, {ID: "b", Title: "ñandú"}}
	batches = MakeBatches(accented, ModeText, 10)
	if len(batches) != 1 {
		t.Fatalf("got %d batches for 10 characters with limit 10, want 1", len(batches))
	}
	if batches[0].TextLen != 10 {
		t.Errorf("TextLen = %d, want 10", batches[0].TextLen)
	}
	if got := MakeBatches(accented, ModeSize, 5)[0].TextLen; got != 10 {
		t.Errorf("size mode TextLen = %d, want 10", got)
	}
}
