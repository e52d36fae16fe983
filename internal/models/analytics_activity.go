// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package models provides data structures for orbitstats.
// This file contains the tool usage, engagement and process flow results.
package models

// ActivityAnalysis is the result of the activity component.
type ActivityAnalysis struct {
	IdeaGeneration        IdeaGeneration        `json:"idea_generation"`
	Engagement            EngagementAnalysis    `json:"engagement_levels"`
	ProcessCompletion     ProcessCompletion     `json:"process_completion"`
	DropoutPoints         DropoutPoints         `json:"dropout_points"`
	FrameworkUsage        FrameworkUsage        `json:"framework_usage"`
	Timeline              UsageTimeline         `json:"timeline"`
	ViewActionCorrelation ViewActionCorrelation `json:"view_action_correlation"`
	ProcessFlow           ProcessFlow           `json:"process_flow"`
}

type IdeaGeneration struct {
	TotalIdeas       int         `json:"total_ideas"`
	UniqueOwners     int         `json:"unique_owners"`
	AvgIdeasPerOwner float64     `json:"avg_ideas_per_owner"`
	MaxIdeasPerOwner int         `json:"max_ideas_per_owner"`
	IdeasByRanking   map[int]int `json:"ideas_by_ranking"`
}

// EngagementAnalysis groups the owner-level engagement breakdowns.
type EngagementAnalysis struct {
	Levels               EngagementLevels     `json:"engagement_levels"`
	FrameworkEngagement  FrameworkEngagement  `json:"framework_engagement"`
	TemporalEngagement   TemporalEngagement   `json:"temporal_engagement"`
	IdeaCharacterization IdeaCharacterization `json:"idea_characterization"`
}

// EngagementLevels counts users by ideas owned: high > 5, medium 2-5,
// low 1 and none for the remaining users.
type EngagementLevels struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	None   int `json:"none"`
}

// FrameworkEngagement counts idea owners per framework.
type FrameworkEngagement struct {
	DisciplinedEntrepreneurship int `json:"disciplined-entrepreneurship"`
	StartupTactics              int `json:"startup-tactics"`
	BothFrameworks              int `json:"both_frameworks"`
	NoFramework                 int `json:"no_framework"`
}

type TemporalEngagement struct {
	MonthlyActiveUsers map[string]int `json:"monthly_active_users"`
}

type IdeaCharacterization struct {
	IterationPatterns IterationPatterns `json:"iteration_patterns"`
	ProgressStats     ProgressStats     `json:"progress_stats"`
}

type IterationPatterns struct {
	// UsersByMaxIteration maps the highest ranking an owner reached to the
	// number of owners.
	UsersByMaxIteration map[int]int `json:"users_by_max_iteration"`
}

type ProgressStats struct {
	TotalIdeas  int     `json:"total_ideas"`
	AvgProgress float64 `json:"avg_progress"`

	// ProgressDistribution is keyed by the lower bound of each 10 point
	// bucket of total progress.
	ProgressDistribution map[int]int                  `json:"progress_distribution"`
	FrameworkProgress    map[string]FrameworkProgress `json:"framework_progress"`
}

type FrameworkProgress struct {
	AvgProgress float64 `json:"avg_progress"`
	TotalIdeas  int     `json:"total_ideas"`
}

type ProcessCompletion struct {
	TotalIdeas      int     `json:"total_ideas"`
	IdeasWithSteps  int     `json:"ideas_with_steps"`
	AvgStepsPerIdea float64 `json:"avg_steps_per_idea"`
	MaxStepsPerIdea int     `json:"max_steps_per_idea"`

	// StepDistribution maps a step count to the number of ideas with it.
	StepDistribution      map[int]int                    `json:"step_distribution"`
	CompletionByFramework map[string]FrameworkCompletion `json:"completion_by_framework"`
}

// FrameworkCompletion is the average number of a framework's steps per idea
// that has at least one of them.
type FrameworkCompletion struct {
	AvgCompletion float64 `json:"avg_completion"`
	TotalIdeas    int     `json:"total_ideas"`
}

type DropoutPoints struct {
	StepProgression     map[string]int     `json:"step_progression"`
	FinalSteps          map[string]int     `json:"final_steps"`
	StepCompletionRates map[string]float64 `json:"step_completion_rates"`
	DropoutRates        map[string]float64 `json:"dropout_rates"`
}

type FrameworkUsage struct {
	FrameworkCounts map[string]int `json:"framework_counts"`
	DECompletion    CompletionRate `json:"de_completion"`
	STCompletion    CompletionRate `json:"st_completion"`
}

// CompletionRate treats an idea as completed at 80% framework progress.
type CompletionRate struct {
	TotalIdeas     int     `json:"total_ideas"`
	CompletedIdeas int     `json:"completed_ideas"`
	CompletionRate float64 `json:"completion_rate"`
	AvgProgress    float64 `json:"avg_progress"`
}

type UsageTimeline struct {
	DailyCounts  map[string]DailyIdeas   `json:"daily_counts"`
	MonthlyStats map[string]MonthlyIdeas `json:"monthly_stats"`
}

type DailyIdeas struct {
	Count       int     `json:"count"`
	AvgProgress float64 `json:"avg_progress"`
}

type MonthlyIdeas struct {
	TotalIdeas     int     `json:"total_ideas"`
	AvgIdeasPerDay float64 `json:"avg_ideas_per_day"` // over days with at least one idea
}

// ViewActionCorrelation relates page views to idea and step creation.
// Intervals and thresholds are in seconds.
type ViewActionCorrelation struct {
	ViewToIdeaIntervals        []float64                  `json:"view_to_idea_intervals"`
	ViewToStepIntervals        []float64                  `json:"view_to_step_intervals"`
	UserPatterns               map[string]UserViewPattern `json:"user_patterns"`
	IntervalDistribution       map[string]int             `json:"interval_distribution"`
	IntervalStats              *IntervalStats             `json:"interval_stats,omitempty"`
	ActionAfterViewRate        float64                    `json:"action_after_view_rate"`
	ImmediateActionThreshold   float64                    `json:"immediate_action_threshold"`
	SessionThreshold           float64                    `json:"session_threshold"`
	Sessions                   []Session                  `json:"sessions"`
	SessionStats               *SessionStats              `json:"session_stats,omitempty"`
	UsersAnalyzed              int                        `json:"users_analyzed"`
	UsersWithCorrelatedActions int                        `json:"users_with_correlated_actions"`
}

type UserViewPattern struct {
	ViewCount            int     `json:"view_count"`
	IdeaCount            int     `json:"idea_count"`
	StepCount            int     `json:"step_count"`
	SessionCount         int     `json:"session_count"`
	AvgActionsPerSession float64 `json:"avg_actions_per_session"`
}

type IntervalStats struct {
	Min                       float64 `json:"min"`
	Max                       float64 `json:"max"`
	Mean                      float64 `json:"mean"`
	Median                    float64 `json:"median"`
	ImmediateActionCount      int     `json:"immediate_action_count"`
	ImmediateActionPercentage float64 `json:"immediate_action_percentage"`
}

// Event types on a session timeline.
const (
	EventView = "view"
	EventIdea = "idea"
	EventStep = "step"
)

// SessionEvent is one view or action on a user timeline.
type SessionEvent struct {
	Timestamp float64 `json:"timestamp"`
	Type      string  `json:"type"`
	ID        string  `json:"id,omitempty"`
}

// Session is a run of events with no gap above the session threshold.
// Events are kept for process flow analysis and not serialized.
type Session struct {
	StartTime   float64        `json:"start_time"`
	EndTime     float64        `json:"end_time"`
	Duration    float64        `json:"duration"`
	ViewCount   int            `json:"view_count"`
	IdeaCount   int            `json:"idea_count"`
	StepCount   int            `json:"step_count"`
	ActionCount int            `json:"action_count"`
	Events      []SessionEvent `json:"-"`
}

type SessionStats struct {
	TotalSessions           int     `json:"total_sessions"`
	AvgSessionDuration      float64 `json:"avg_session_duration"`
	AvgViewsPerSession      float64 `json:"avg_views_per_session"`
	AvgActionsPerSession    float64 `json:"avg_actions_per_session"`
	SessionsWithActions     int     `json:"sessions_with_actions"`
	ActionSessionPercentage float64 `json:"action_session_percentage"`
}

// ProcessFlow summarizes event sequences across sessions. Sequence keys
// join event types with " -> ".
type ProcessFlow struct {
	GlobalTransitionMatrix      map[string]map[string]float64 `json:"global_transition_matrix"`
	CommonSequences             map[string]int                `json:"common_sequences"`
	MostFrequentStartingActions map[string]int                `json:"most_frequent_starting_actions"`
	MostFrequentEndingActions   map[string]int                `json:"most_frequent_ending_actions"`
	AverageSequenceLength       float64                       `json:"average_sequence_length"`
	PathCompletionRates         map[string]float64            `json:"path_completion_rates"`
	MostCommonFullPaths         map[string]int                `json:"most_common_full_paths"`
}
