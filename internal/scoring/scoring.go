// Package scoring computes compatibility scores between candidates and
// preference sets. Every function is pure: no storage access, no side
// effects, deterministic output for the same input. Scores are bounded to
// [0, 1] and each non-zero contribution emits a matching reason string so
// callers can explain the ranking.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hackmatch/team-platform/internal/models"
)

const (
	roleWeight        = 0.4
	skillWeight       = 0.3
	optimalSizeBonus  = 0.1
	smallTeamBonus    = 0.05
	captainReadyBonus = 0.1
	readyToWorkBonus  = 0.1

	achievementStep = 0.05
	achievementCap  = 0.2

	collabHistoryBonus = 0.2
	sharedSkillStep    = 0.05
	sharedSkillCap     = 0.2
	collabCap          = 0.3
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = true
		}
	}
	return set
}

// UserSkillSet returns the user's skill names, lowercased and deduplicated.
func UserSkillSet(user *models.User) map[string]bool {
	set := make(map[string]bool, len(user.Skills))
	for _, s := range user.Skills {
		if n := normalize(s.Name); n != "" {
			set[n] = true
		}
	}
	return set
}

// TeamRoleSet returns the primary roles present among team members.
func TeamRoleSet(team *models.Team) map[string]bool {
	set := make(map[string]bool)
	for i := range team.Members {
		if r := team.Members[i].MainRole; r != nil {
			set[normalize(string(*r))] = true
		}
	}
	return set
}

// TeamSkillSet returns the union of all member skill sets.
func TeamSkillSet(team *models.Team) map[string]bool {
	set := make(map[string]bool)
	for i := range team.Members {
		for _, s := range team.Members[i].Skills {
			if n := normalize(s.Name); n != "" {
				set[n] = true
			}
		}
	}
	return set
}

// SkillCoverage is the fraction of wanted skills present in have.
// An empty wanted set covers nothing, never errors.
func SkillCoverage(have, wanted map[string]bool) float64 {
	if len(wanted) == 0 {
		return 0
	}
	covered := 0
	for w := range wanted {
		if have[w] {
			covered++
		}
	}
	return float64(covered) / float64(len(wanted))
}

func missing(wanted, have map[string]bool) []string {
	var out []string
	for w := range wanted {
		if !have[w] {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func intersect(a, b map[string]bool) []string {
	var out []string
	for v := range a {
		if b[v] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// TeamCompatibility scores a team as a candidate for a participant with the
// given role and skill preferences. Returns the bounded score and one reason
// per contributing factor.
func TeamCompatibility(team *models.Team, preferredRoles, preferredSkills []string) (float64, []string) {
	score := 0.0
	var reasons []string

	teamRoles := TeamRoleSet(team)
	teamSkills := TeamSkillSet(team)

	if prefRoles := toSet(preferredRoles); len(prefRoles) > 0 {
		missingRoles := missing(prefRoles, teamRoles)
		if len(missingRoles) > 0 {
			score += float64(len(missingRoles)) / float64(len(prefRoles)) * roleWeight
			for _, r := range missingRoles {
				reasons = append(reasons, fmt.Sprintf("Needs role: %s", r))
			}
		}
	}

	if prefSkills := toSet(preferredSkills); len(prefSkills) > 0 {
		missingSkills := missing(prefSkills, teamSkills)
		if len(missingSkills) > 0 {
			score += float64(len(missingSkills)) / float64(len(prefSkills)) * skillWeight
			for _, s := range missingSkills {
				reasons = append(reasons, fmt.Sprintf("Needs skill: %s", s))
			}
		}
	}

	switch n := len(team.Members); {
	case n >= 3 && n <= 5:
		score += optimalSizeBonus
		reasons = append(reasons, fmt.Sprintf("Optimal team size: %d members", n))
	case n < 3:
		score += smallTeamBonus
		reasons = append(reasons, fmt.Sprintf("Small team: %d members (needs people)", n))
	}

	if team.Captain != nil && team.Captain.ReadyToWork {
		score += captainReadyBonus
		reasons = append(reasons, "Captain is ready to work")
	}

	return clamp(score), reasons
}

// UserCompatibility scores a participant as a candidate for a team or peer.
// The candidate's Skills and Achievements must be loaded by the caller.
func UserCompatibility(candidate *models.User, preferredRoles, preferredSkills []string) (float64, []string) {
	score := 0.0
	var reasons []string

	if prefRoles := toSet(preferredRoles); len(prefRoles) > 0 && candidate.MainRole != nil {
		role := normalize(string(*candidate.MainRole))
		if prefRoles[role] {
			score += roleWeight
			reasons = append(reasons, fmt.Sprintf("Matching role: %s", role))
		}
	}

	candidateSkills := UserSkillSet(candidate)
	if prefSkills := toSet(preferredSkills); len(prefSkills) > 0 {
		score += SkillCoverage(candidateSkills, prefSkills) * skillWeight
		if matched := intersect(candidateSkills, prefSkills); len(matched) > 0 {
			reasons = append(reasons, fmt.Sprintf("Skills: %s", joinHead(matched, 3)))
		}
	}

	if candidate.ReadyToWork {
		score += readyToWorkBonus
		reasons = append(reasons, "Ready to work")
	}

	if n := len(candidate.Achievements); n > 0 {
		score += min(float64(n)*achievementStep, achievementCap)
		reasons = append(reasons, fmt.Sprintf("Has achievements: %d", n))
	}

	return clamp(score), reasons
}

// CollaborationPotential is the history bonus added on top of a base score:
// a flat bonus for any prior accepted request linking the pair plus a
// per-shared-skill bonus, the whole capped at 0.3.
func CollaborationPotential(acceptedRequests int, sharedSkills []string) (float64, []string) {
	score := 0.0
	var reasons []string

	if acceptedRequests > 0 {
		score += collabHistoryBonus
		reasons = append(reasons, fmt.Sprintf("Collaborated before (%d times)", acceptedRequests))
	}

	if len(sharedSkills) > 0 {
		score += min(float64(len(sharedSkills))*sharedSkillStep, sharedSkillCap)
		reasons = append(reasons, fmt.Sprintf("Shared skills: %s", joinHead(sharedSkills, 3)))
	}

	if score > collabCap {
		score = collabCap
	}
	return score, reasons
}

// SharedSkills returns the sorted intersection of a user's skills and a
// team's pooled skills, for feeding into CollaborationPotential.
func SharedSkills(user *models.User, team *models.Team) []string {
	return intersect(UserSkillSet(user), TeamSkillSet(team))
}

func joinHead(values []string, n int) string {
	if len(values) > n {
		values = values[:n]
	}
	return strings.Join(values, ", ")
}

func clamp(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
