// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type testSemester struct {
	Term string `validate:"required,oneof=fall spring summer winter"`
	Year int    `validate:"gte=2000,lte=2100"`
}

type testEvaluation struct {
	CourseID string       `validate:"required"`
	Semester testSemester `validate:"required"`
	Start    string       `validate:"omitempty,isodate"`
	Label    string       `validate:"omitempty,min=2,max=8"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      testEvaluation
		wantFields []string
		wantMsg    string
	}{
		{
			name: "valid",
			input: testEvaluation{
				CourseID: "15.390",
				Semester: testSemester{Term: "fall", Year: 2024},
				Start:    "2024-09-01",
			},
		},
		{
			name:       "missing course id",
			input:      testEvaluation{Semester: testSemester{Term: "fall", Year: 2024}},
			wantFields: []string{"CourseID"},
			wantMsg:    "CourseID is required",
		},
		{
			name: "bad term",
			input: testEvaluation{
				CourseID: "15.390",
				Semester: testSemester{Term: "autumn", Year: 2024},
			},
			wantFields: []string{"Term"},
			wantMsg:    "Term must be one of: fall spring summer winter",
		},
		{
			name: "bad date",
			input: testEvaluation{
				CourseID: "15.390",
				Semester: testSemester{Term: "spring", Year: 2024},
				Start:    "09/01/2024",
			},
			wantFields: []string{"Start"},
			wantMsg:    "Start must be a date in YYYY-MM-DD format",
		},
		{
			name: "string too short",
			input: testEvaluation{
				CourseID: "15.390",
				Semester: testSemester{Term: "spring", Year: 2024},
				Label:    "x",
			},
			wantFields: []string{"Label"},
			wantMsg:    "Label must be at least 2 characters",
		},
		{
			name: "multiple errors joined",
			input: testEvaluation{
				Semester: testSemester{Term: "spring", Year: 1990},
			},
			wantFields: []string{"CourseID", "Year"},
			wantMsg:    "CourseID is required; Year must be greater than or equal to 2000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			fields := err.Fields()
			if strings.Join(fields, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("fields = %v, want %v", fields, tt.wantFields)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	err := &RequestValidationError{}
	if err.Error() != "validation failed" {
		t.Errorf("expected generic message, got %q", err.Error())
	}
}
