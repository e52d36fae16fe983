// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package cohort

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/models"
)

func testDataset() *loader.Dataset {
	return &loader.Dataset{
		Users: []models.User{
			{
				ID: "u1", Email: "a@mit.edu", Type: "student", CreatedDate: "2023-10-01T00:00:00Z",
				Institution: &models.Institution{Name: "MIT"}, Enrollments: []string{"15.390"},
			},
			{ID: "u2", Email: "b@mit.edu", Type: "student", CreatedDate: "2023-12-31T23:00:00Z", Enrollments: []string{"15.390"}},
			{ID: "u3", Email: "c@mit.edu", Type: "staff", CreatedDate: "2024-02-10", Enrollments: []string{"15.390"}},
			{ID: "u4", Email: "d@mit.edu", CreatedDate: "2025-03-01"},
		},
		Ideas: []models.Idea{
			{
				ID: "i1", Owner: "a@mit.edu", TotalProgress: 50, DEProgress: 90,
				Frameworks: []string{models.FrameworkDE}, CreatedDate: "2023-10-05T00:00:00Z",
			},
			{ID: "i2", Owner: "a@mit.edu", STProgress: 30, Frameworks: []string{models.FrameworkST}, CreatedDate: "2023-11-01"},
			{ID: "i3", Owner: "c@mit.edu", DEProgress: 10, Frameworks: []string{models.FrameworkDE}, CreatedDate: "2024-03-01"},
		},
		Steps: []models.Step{
			{ID: "s1", IdeaID: "i1", Owner: "a@mit.edu", WordCount: 100, CreatedAt: "2023-10-06T00:00:00Z"},
			{ID: "s2", IdeaID: "i1"},
			{ID: "s3", IdeaID: "i3", Owner: "c@mit.edu", WordCount: 50, CreatedAt: "2024-03-02"},
		},
	}
}

func analyze(t *testing.T) *models.CohortAnalysis {
	t.Helper()
	result, err := NewAnalyzer(testDataset(), nil).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return result
}

func TestTimeCohorts(t *testing.T) {
	result := analyze(t)

	if _, ok := result.TimeCohorts["fall_2024"]; ok {
		t.Error("fall_2024 has no users and should be omitted")
	}

	want := map[string]models.TimeCohort{
		"fall_2023": {
			ToolVersion: "none", Sections: 2,
			TotalUsers: 2, ActiveUsers: 1, ActiveRate: 0.5,
			TotalIdeas: 2, TotalSteps: 2, IdeasPerActiveUser: 2, StepsPerIdea: 1,
			UserDistribution: models.UserDistribution{
				ByType:        map[string]int{"student": 2},
				ByInstitution: map[string]int{"MIT": 1},
			},
		},
		"spring_2024": {
			ToolVersion: "v1", Sections: 2,
			TotalUsers: 1, ActiveUsers: 1, ActiveRate: 1,
			TotalIdeas: 1, TotalSteps: 1, IdeasPerActiveUser: 1, StepsPerIdea: 1,
			UserDistribution: models.UserDistribution{
				ByType:        map[string]int{"staff": 1},
				ByInstitution: map[string]int{},
			},
		},
	}
	opts := cmpopts.IgnoreFields(models.TimeCohort{}, "IdeasPerUser", "StepsPerUser")
	if diff := cmp.Diff(want, result.TimeCohorts, opts); diff != "" {
		t.Errorf("TimeCohorts mismatch (-want +got):\n%s", diff)
	}

	fall := result.TimeCohorts["fall_2023"]
	if fall.IdeasPerUser.Count != 2 || fall.IdeasPerUser.Mean != 1 || fall.IdeasPerUser.Max != 2 {
		t.Errorf("IdeasPerUser = %+v", fall.IdeasPerUser)
	}
	if fall.StepsPerUser.Mean != 1 {
		t.Errorf("StepsPerUser.Mean = %v, want 1", fall.StepsPerUser.Mean)
	}
}

func TestUsageCohorts(t *testing.T) {
	u := analyze(t).UsageCohorts

	wantA := models.UserUsage{
		IdeasCount: 2, StepsCount: 2, UserID: "u1", UserType: "student",
		UsageLevel: "medium", UsageByIdeas: "medium", UsageBySteps: "low",
		UsageByCompletion: "high", UsageByInteractions: "low",
	}
	if diff := cmp.Diff(wantA, u.UserMetrics["a@mit.edu"]); diff != "" {
		t.Errorf("user a metrics mismatch (-want +got):\n%s", diff)
	}
	if got := u.UserMetrics["c@mit.edu"]; got.UsageLevel != "low" || got.UsageByCompletion != "none" || got.UsageByInteractions != "none" {
		t.Errorf("user c metrics = %+v", got)
	}

	wantMedium := models.UsageStats{UserCount: 1, IdeasCount: 2, StepsCount: 2, IdeasPerUser: 2, StepsPerIdea: 1, AvgStepsPerUser: 2}
	if diff := cmp.Diff(wantMedium, u.UsageStats[models.MethodCombined]["medium"]); diff != "" {
		t.Errorf("medium usage stats mismatch (-want +got):\n%s", diff)
	}
	if _, ok := u.UsageStats[models.MethodCombined]["high"]; ok {
		t.Error("empty levels should be omitted from usage stats")
	}

	fall := u.UsageByTimeCohort["fall_2023"]
	if fall.TotalUsers != 2 || fall.ToolVersion != "none" {
		t.Errorf("fall_2023 usage = %+v", fall)
	}
	wantPct := map[string]float64{"high": 0, "medium": 0.5, "low": 0, "none": 0.5}
	if diff := cmp.Diff(wantPct, fall.Categories[models.MethodCombined].Percentages); diff != "" {
		t.Errorf("fall_2023 percentages mismatch (-want +got):\n%s", diff)
	}
	empty := u.UsageByTimeCohort["fall_2024"]
	if empty.TotalUsers != 0 || len(empty.Categories[models.MethodIdeas].Percentages) != 0 {
		t.Errorf("fall_2024 usage = %+v", empty)
	}

	if diff := cmp.Diff(models.UsageMethods, u.CategorizationMethods); diff != "" {
		t.Errorf("CategorizationMethods mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareMethods(t *testing.T) {
	mc := analyze(t).UsageCohorts.MethodComparison

	if len(mc.AgreementRates) != 10 {
		t.Errorf("expected 10 method pairs, got %d", len(mc.AgreementRates))
	}
	if got := mc.AgreementRates["usage_level_vs_usage_by_ideas"]; got != 1 {
		t.Errorf("usage_level vs ideas agreement = %v, want 1", got)
	}
	if got := mc.AgreementRates["usage_level_vs_usage_by_completion"]; got != 0.5 {
		t.Errorf("usage_level vs completion agreement = %v, want 0.5", got)
	}
	if got := mc.ConfusionMatrices["usage_level_vs_usage_by_completion"]["medium"]["high"]; got != 1 {
		t.Errorf("confusion[medium][high] = %d, want 1", got)
	}

	wantDist := map[string]float64{"high": 0.25, "medium": 0, "low": 0, "none": 0.75}
	if diff := cmp.Diff(wantDist, mc.MethodDistributions[models.MethodCompletion]); diff != "" {
		t.Errorf("completion distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestEnrollmentCohorts(t *testing.T) {
	e := analyze(t).EnrollmentCohorts

	if diff := cmp.Diff(map[string]int{"15.390": 3, "no_enrollment": 1}, e.EnrollmentCounts); diff != "" {
		t.Errorf("EnrollmentCounts mismatch (-want +got):\n%s", diff)
	}
	want := map[string]models.CourseCohort{
		"15.390": {
			UserCount: 3, ActiveUsers: 2, ActiveRate: 2.0 / 3.0,
			IdeasCount: 3, StepsCount: 3, IdeasPerActiveUser: 1.5, StepsPerIdea: 1,
		},
	}
	if diff := cmp.Diff(want, e.CourseEnrollments); diff != "" {
		t.Errorf("CourseEnrollments mismatch (-want +got):\n%s", diff)
	}
	wantTop := []models.RankedCount{{Name: "15.390", Count: 3}, {Name: "no_enrollment", Count: 1}}
	if diff := cmp.Diff(wantTop, e.TopEnrollments); diff != "" {
		t.Errorf("TopEnrollments mismatch (-want +got):\n%s", diff)
	}
}

func TestToolAdoptionAndLearning(t *testing.T) {
	result := analyze(t)

	fall := result.ToolAdoption.AdoptionByCohort["fall_2023"]
	wantFall := models.CohortAdoption{
		TotalUsers: 2, EngagedUsers: 1, AdoptionRate: 0.5,
		AdoptionTimeline:      map[string]int{"2023-09": 0, "2023-10": 1, "2023-11": 1, "2023-12": 1},
		FrameworkDistribution: map[string]int{models.FrameworkDE: 1, models.FrameworkST: 1},
	}
	if diff := cmp.Diff(wantFall, fall); diff != "" {
		t.Errorf("fall_2023 adoption mismatch (-want +got):\n%s", diff)
	}
	spring := result.ToolAdoption.AdoptionByCohort["spring_2024"].AdoptionTimeline
	wantSpring := map[string]int{"2024-01": 0, "2024-02": 0, "2024-03": 1, "2024-04": 1, "2024-05": 1}
	if diff := cmp.Diff(wantSpring, spring); diff != "" {
		t.Errorf("spring_2024 timeline mismatch (-want +got):\n%s", diff)
	}

	wantCompletion := map[string]models.CohortFrameworkCompletion{
		"fall_2023":   {AvgDECompletion: 90, AvgSTCompletion: 30, DEIdeasCount: 1, STIdeasCount: 1},
		"spring_2024": {AvgDECompletion: 10, DEIdeasCount: 1},
	}
	if diff := cmp.Diff(wantCompletion, result.LearningMetrics.FrameworkCompletion); diff != "" {
		t.Errorf("FrameworkCompletion mismatch (-want +got):\n%s", diff)
	}
	wantContent := map[string]models.ContentMetrics{
		"fall_2023":   {AvgWordCount: 100, TotalWordCount: 100, StepsWithContent: 1},
		"spring_2024": {AvgWordCount: 50, TotalWordCount: 50, StepsWithContent: 1},
	}
	if diff := cmp.Diff(wantContent, result.LearningMetrics.ContentMetrics); diff != "" {
		t.Errorf("ContentMetrics mismatch (-want +got):\n%s", diff)
	}
}

func TestCohortComparison(t *testing.T) {
	cc := analyze(t).CohortComparison

	if len(cc.ComparisonPairs) != 1 {
		t.Fatalf("expected 1 comparison pair, got %d", len(cc.ComparisonPairs))
	}
	want := models.CohortPair{
		Cohort1:      "fall_2023",
		Cohort2:      "spring_2024",
		ToolVersions: map[string]string{"fall_2023": "none", "spring_2024": "v1"},
		MetricDifferences: map[string]float64{
			MetricActiveRate:         0.5,
			MetricIdeasPerActiveUser: -1,
			MetricStepsPerIdea:       0,
			MetricAvgDECompletion:    -80,
			MetricAvgSTCompletion:    -30,
			MetricAvgWordCount:       -50,
		},
	}
	if diff := cmp.Diff(want, cc.ComparisonPairs[0]); diff != "" {
		t.Errorf("ComparisonPairs[0] mismatch (-want +got):\n%s", diff)
	}
	if got := cc.KeyMetrics[MetricActiveRate]["fall_2023"]; got != 0.5 {
		t.Errorf("key active_rate[fall_2023] = %v, want 0.5", got)
	}
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	result, err := NewAnalyzer(&loader.Dataset{}, nil).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(result.TimeCohorts) != 0 || len(result.CohortComparison.ComparisonPairs) != 0 {
		t.Errorf("expected empty cohorts, got %+v", result.TimeCohorts)
	}
	if len(result.UsageCohorts.UsageByTimeCohort) != 3 {
		t.Errorf("usage by time cohort should list every period, got %d", len(result.UsageCohorts.UsageByTimeCohort))
	}
}
