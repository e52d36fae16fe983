// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomtom215/orbitstats/internal/grouping"
	"github.com/tomtom215/orbitstats/internal/models"
)

const topListSize = 10

// RenderOptions controls terminal rendering.
type RenderOptions struct {
	Width int
	// Style is a glamour style name; empty selects one from the terminal.
	Style string
}

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 2)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	Italic(true)

// Render writes the banner and the glamour-rendered summary to w.
func Render(w io.Writer, results *models.AnalysisResults, subtitle string, opts RenderOptions) error {
	width := opts.Width
	if width <= 0 {
		width = 100
	}
	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" {
		styleOpt = glamour.WithStylePath(opts.Style)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	body, err := renderer.Render(Markdown(results))
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	banner := bannerStyle.Render("orbitstats analysis summary")
	if subtitle != "" {
		banner = lipgloss.JoinVertical(lipgloss.Left, banner, subtitleStyle.Render(subtitle))
	}
	_, err = fmt.Fprintf(w, "%s\n%s", banner, body)
	return err
}

// Markdown builds the summary document. Sections appear only for components
// that ran.
func Markdown(r *models.AnalysisResults) string {
	var b strings.Builder
	if r == nil || len(r.Components()) == 0 {
		b.WriteString("_No analysis results._\n")
		return b.String()
	}
	if r.Users != nil {
		writeUsers(&b, r.Users)
	}
	if r.Activity != nil {
		writeActivity(&b, r.Activity)
	}
	if r.Ideas != nil {
		writeIdeas(&b, r.Ideas)
	}
	if r.Evaluations != nil {
		writeEvaluations(&b, r.Evaluations)
	}
	if r.Cohorts != nil {
		writeCohorts(&b, r.Cohorts)
	}
	if r.Teams != nil {
		writeTeams(&b, r.Teams)
	}
	return b.String()
}

func writeUsers(b *strings.Builder, u *models.UserAnalysis) {
	b.WriteString("## Users\n\n")
	fmt.Fprintf(b, "- Total users: **%d**\n", u.UserCounts.TotalUsers)
	fmt.Fprintf(b, "- Active users: %d\n", u.UserCounts.ActiveUsers)
	fmt.Fprintf(b, "- Inactive users: %d\n", u.UserCounts.InactiveUsers)
	fmt.Fprintf(b, "- Complete profiles: %d\n\n", u.UserCounts.WithCompleteProfile)
	if len(u.Demographics.UserTypes) > 0 {
		countTable(b, "User type", u.Demographics.UserTypes)
	}
}

func writeActivity(b *strings.Builder, a *models.ActivityAnalysis) {
	gen := a.IdeaGeneration
	lv := a.Engagement.Levels
	b.WriteString("## Activity\n\n")
	fmt.Fprintf(b, "- Ideas: **%d** from %d owners (%.2f per owner, max %d)\n",
		gen.TotalIdeas, gen.UniqueOwners, gen.AvgIdeasPerOwner, gen.MaxIdeasPerOwner)
	fmt.Fprintf(b, "- Engagement: high %d, medium %d, low %d, none %d\n\n", lv.High, lv.Medium, lv.Low, lv.None)
}

func writeIdeas(b *strings.Builder, ic *models.IdeaCategoryAnalysis) {
	b.WriteString("## Idea categories\n\n")
	fmt.Fprintf(b, "- Categorized ideas: **%d** (%d categories)\n", ic.TotalCategorized, ic.Trends.CategoryDiversity)
	if n := len(ic.UnknownCategories); n > 0 {
		fmt.Fprintf(b, "- Answers outside the category list: %d\n", n)
	}
	b.WriteString("\n| Category | Ideas | Share |\n|---|---:|---:|\n")
	for i, rc := range ic.TopCategories {
		if i == topListSize {
			break
		}
		fmt.Fprintf(b, "| %s | %d | %.1f%% |\n", rc.Name, rc.Count, ic.CategoryPercentages[rc.Name])
	}
	b.WriteString("\n")
	if len(ic.DomainGrouping.DomainCounts) > 0 {
		countTable(b, "Domain", ic.DomainGrouping.DomainCounts)
	}
}

func writeEvaluations(b *strings.Builder, e *models.EvaluationAnalysis) {
	sc := e.SemesterComparison
	b.WriteString("## Course evaluations\n\n| Semester | Tool | Overall |\n|---|---|---:|\n")
	for i, name := range sc.DisplayNames {
		tool, avg := "", "n/a"
		if i < len(sc.ToolVersions) {
			tool = sc.ToolVersions[i]
		}
		if i < len(sc.OverallAvg) && sc.OverallAvg[i] != nil {
			avg = fmt.Sprintf("%.2f", *sc.OverallAvg[i])
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", name, tool, avg)
	}
	b.WriteString("\n")

	if len(e.ToolImpact.VersionImprovements) > 0 {
		b.WriteString("Tool version changes:\n\n")
		for _, vc := range e.ToolImpact.VersionImprovements {
			pct := "n/a"
			if vc.PercentChange != nil {
				pct = fmt.Sprintf("%+.1f%%", *vc.PercentChange)
			}
			fmt.Fprintf(b, "- %s -> %s: %+.2f (%s)\n", vc.FromVersion, vc.ToVersion, vc.Change, pct)
		}
		b.WriteString("\n")
	}
}

func writeCohorts(b *strings.Builder, c *models.CohortAnalysis) {
	b.WriteString("## Cohorts\n\n| Cohort | Tool | Users | Active | Ideas | Steps |\n|---|---|---:|---:|---:|---:|\n")
	names := make([]string, 0, len(c.TimeCohorts))
	for name := range c.TimeCohorts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tc := c.TimeCohorts[name]
		fmt.Fprintf(b, "| %s | %s | %d | %.1f%% | %d | %d |\n",
			name, tc.ToolVersion, tc.TotalUsers, tc.ActiveRate*100, tc.TotalIdeas, tc.TotalSteps)
	}
	b.WriteString("\n")
}

func writeTeams(b *strings.Builder, t *models.TeamAnalysis) {
	o := t.TeamEngagement.OverallStats
	g := t.WorkDistribution.OverallGiniDistribution
	b.WriteString("## Teams\n\n")
	fmt.Fprintf(b, "- Teams: **%d**, average size %.2f\n", o.TotalTeams, o.AvgTeamSize)
	fmt.Fprintf(b, "- Ideas per team: %.2f, steps per team: %.2f\n", o.AvgIdeasPerTeam, o.AvgStepsPerTeam)
	fmt.Fprintf(b, "- Work distribution gini: mean %.3f, median %.3f\n\n", g.Mean, g.Median)
	if len(t.WorkDistribution.CollaborationPatterns) > 0 {
		countTable(b, "Collaboration", t.WorkDistribution.CollaborationPatterns)
	}
}

func countTable(b *strings.Builder, header string, counts map[string]int) {
	fmt.Fprintf(b, "| %s | Count |\n|---|---:|\n", header)
	for _, k := range grouping.SortedKeys(counts) {
		fmt.Fprintf(b, "| %s | %d |\n", k, counts[k])
	}
	b.WriteString("\n")
}
