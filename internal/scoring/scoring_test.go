package scoring

import (
	"math"
	"testing"

	"github.com/hackmatch/team-platform/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func userWith(role string, ready bool, skillNames []string, achievements int) *models.User {
	user := &models.User{ReadyToWork: ready}
	if role != "" {
		r := models.Role(role)
		user.MainRole = &r
	}
	for _, name := range skillNames {
		user.Skills = append(user.Skills, models.Skill{Name: name})
	}
	for i := 0; i < achievements; i++ {
		user.Achievements = append(user.Achievements, models.Achievement{HackathonName: "h", Year: 2024})
	}
	return user
}

func TestUserCompatibility(t *testing.T) {
	// Role match 0.4 + skill coverage 1/2*0.3 + ready 0.1 + achievements
	// min(2*0.05, 0.2) = 0.75 with one reason per factor.
	candidate := userWith("backend", true, []string{"python", "sql"}, 2)

	score, reasons := UserCompatibility(candidate, []string{"backend"}, []string{"python", "docker"})
	if !almostEqual(score, 0.75) {
		t.Errorf("score = %v, want 0.75", score)
	}
	if len(reasons) != 4 {
		t.Errorf("reasons = %v, want 4 entries", reasons)
	}
}

func TestUserCompatibilityEmptyPreferences(t *testing.T) {
	candidate := userWith("backend", false, []string{"python"}, 0)

	score, reasons := UserCompatibility(candidate, nil, nil)
	if !almostEqual(score, 0) {
		t.Errorf("score = %v, want 0", score)
	}
	if len(reasons) != 0 {
		t.Errorf("reasons = %v, want none", reasons)
	}
}

func TestUserCompatibilityAchievementCap(t *testing.T) {
	candidate := userWith("", false, nil, 10)

	score, _ := UserCompatibility(candidate, nil, nil)
	if !almostEqual(score, 0.2) {
		t.Errorf("score = %v, want achievement bonus capped at 0.2", score)
	}
}

func teamWith(memberRoles []string, captainReady bool) *models.Team {
	team := &models.Team{Captain: &models.User{ReadyToWork: captainReady}}
	for _, role := range memberRoles {
		member := models.User{}
		if role != "" {
			r := models.Role(role)
			member.MainRole = &r
		}
		team.Members = append(team.Members, member)
	}
	return team
}

func TestTeamCompatibility(t *testing.T) {
	// Missing "design" out of two preferred roles: 1/2*0.4 = 0.2, plus the
	// optimal-size bonus 0.1 and the captain bonus 0.1.
	team := teamWith([]string{"backend", "backend", "frontend", "pm"}, true)

	score, reasons := TeamCompatibility(team, []string{"backend", "design"}, nil)
	if !almostEqual(score, 0.4) {
		t.Errorf("score = %v, want 0.4", score)
	}
	found := false
	for _, r := range reasons {
		if r == "Needs role: design" {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want missing-role entry for design", reasons)
	}
}

func TestTeamCompatibilitySmallTeam(t *testing.T) {
	team := teamWith([]string{"backend"}, false)

	score, _ := TeamCompatibility(team, nil, nil)
	if !almostEqual(score, 0.05) {
		t.Errorf("score = %v, want small-team bonus 0.05", score)
	}
}

func TestTeamCompatibilityBounded(t *testing.T) {
	team := teamWith([]string{"", "", "", ""}, true)
	prefRoles := []string{"backend", "frontend", "design", "pm", "analyst"}
	prefSkills := []string{"python", "go", "react", "sql", "docker"}

	score, _ := TeamCompatibility(team, prefRoles, prefSkills)
	if score < 0 || score > 1 {
		t.Errorf("score = %v, want within [0, 1]", score)
	}
}

func TestCollaborationPotentialCap(t *testing.T) {
	shared := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	score, reasons := CollaborationPotential(3, shared)
	if !almostEqual(score, 0.3) {
		t.Errorf("score = %v, want cap 0.3", score)
	}
	if len(reasons) != 2 {
		t.Errorf("reasons = %v, want history and shared-skill entries", reasons)
	}

	score, reasons = CollaborationPotential(0, nil)
	if !almostEqual(score, 0) || len(reasons) != 0 {
		t.Errorf("score = %v reasons = %v, want zero contribution", score, reasons)
	}
}

func TestSkillCoverage(t *testing.T) {
	have := map[string]bool{"python": true, "sql": true}

	if got := SkillCoverage(have, map[string]bool{"python": true, "docker": true}); !almostEqual(got, 0.5) {
		t.Errorf("coverage = %v, want 0.5", got)
	}
	if got := SkillCoverage(have, map[string]bool{}); !almostEqual(got, 0) {
		t.Errorf("coverage of empty wanted = %v, want 0", got)
	}
}

func TestSharedSkillsNormalized(t *testing.T) {
	user := userWith("", false, []string{"Python", "SQL"}, 0)
	team := teamWith(nil, false)
	team.Members = append(team.Members, models.User{Skills: []models.Skill{{Name: "python"}, {Name: "go"}}})

	shared := SharedSkills(user, team)
	if len(shared) != 1 || shared[0] != "python" {
		t.Errorf("shared = %v, want [python]", shared)
	}
}
