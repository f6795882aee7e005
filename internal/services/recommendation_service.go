package services

import (
	"sort"

	"github.com/google/uuid"
	"github.com/hackmatch/team-platform/internal/apperr"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/models"
	"github.com/hackmatch/team-platform/internal/scoring"
)

// RecommendationService assembles candidate pools, runs the scoring engine
// over them and ranks the survivors. All computation happens inline in the
// triggering call; collaboration history is read through the membership
// service's records.
type RecommendationService struct {
	membership *MembershipService
}

func NewRecommendationService(membership *MembershipService) *RecommendationService {
	return &RecommendationService{membership: membership}
}

const (
	defaultMaxResults = 10
	maxMaxResults     = 100
)

// RecommendationInput is the caller's preference set.
type RecommendationInput struct {
	HackathonID     uuid.UUID   `json:"hackathon_id"`
	PreferredRoles  []string    `json:"preferred_roles"`
	PreferredSkills []string    `json:"preferred_skills"`
	ExcludeTeamIDs  []uuid.UUID `json:"exclude_team_ids"`
	ExcludeUserIDs  []uuid.UUID `json:"exclude_user_ids"`
	MinScore        float64     `json:"min_score"`
	MaxResults      int         `json:"max_results"`
}

func (in *RecommendationInput) clamp() {
	if in.MaxResults < 1 {
		in.MaxResults = defaultMaxResults
	}
	if in.MaxResults > maxMaxResults {
		in.MaxResults = maxMaxResults
	}
	if in.MinScore < 0 {
		in.MinScore = 0
	}
}

// Recommendation holds one ranked candidate: a team or a user, never both.
type Recommendation struct {
	User    *models.UserResponse `json:"recommended_user,omitempty"`
	Team    *models.TeamResponse `json:"recommended_team,omitempty"`
	Score   float64              `json:"compatibility_score"`
	Reasons []string             `json:"match_reasons"`
}

// rank filters by the threshold, sorts descending by score with ties kept in
// pool order, and truncates.
func rank(recs []Recommendation, minScore float64, maxResults int) []Recommendation {
	filtered := recs[:0]
	for _, r := range recs {
		if r.Score >= minScore {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})
	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}
	return filtered
}

// RecommendTeams ranks the hackathon's teams for a participant.
func (s *RecommendationService) RecommendTeams(userID uuid.UUID, in RecommendationInput) ([]Recommendation, *apperr.Error) {
	in.clamp()
	db := database.GetDB()

	var hackathon models.Hackathon
	if err := db.First(&hackathon, "id = ?", in.HackathonID).Error; err != nil {
		return nil, apperr.NotFound("hackathon not found")
	}

	var requester models.User
	if err := db.Preload("Skills").First(&requester, "id = ?", userID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}

	q := db.Preload("Captain").Preload("Members").Preload("Members.Skills").
		Where("hackathon_id = ? AND captain_id <> ?", in.HackathonID, userID)
	if len(in.ExcludeTeamIDs) > 0 {
		q = q.Where("id NOT IN (?)", in.ExcludeTeamIDs)
	}

	var teams []models.Team
	if err := q.Find(&teams).Error; err != nil {
		return nil, toAppErr(err)
	}

	recs := make([]Recommendation, 0, len(teams))
	for i := range teams {
		team := &teams[i]

		score, reasons := scoring.TeamCompatibility(team, in.PreferredRoles, in.PreferredSkills)

		accepted, ae := s.membership.AcceptedRequestCount(userID, team.ID, in.HackathonID)
		if ae != nil {
			return nil, ae
		}
		bonus, bonusReasons := scoring.CollaborationPotential(accepted, scoring.SharedSkills(&requester, team))
		score += bonus
		reasons = append(reasons, bonusReasons...)
		if score > 1.0 {
			score = 1.0
		}

		resp := team.ToResponse()
		recs = append(recs, Recommendation{Team: &resp, Score: score, Reasons: reasons})
	}

	return rank(recs, in.MinScore, in.MaxResults), nil
}

// RecommendUsers ranks open participants for the team the requester captains
// in the hackathon. Requires captaincy.
func (s *RecommendationService) RecommendUsers(userID uuid.UUID, in RecommendationInput) ([]Recommendation, *apperr.Error) {
	in.clamp()
	db := database.GetDB()

	var team models.Team
	if err := db.Preload("Members").Preload("Members.Skills").
		First(&team, "captain_id = ? AND hackathon_id = ?", userID, in.HackathonID).Error; err != nil {
		return nil, apperr.Forbidden("you must be a team captain to request user recommendations")
	}

	return s.recommendUsersForTeam(userID, &team, in, true)
}

// RecommendForTeam ranks open participants for one specific team. Only that
// team's captain may call it.
func (s *RecommendationService) RecommendForTeam(userID, teamID uuid.UUID, in RecommendationInput) ([]Recommendation, *apperr.Error) {
	in.clamp()
	db := database.GetDB()

	var team models.Team
	if err := db.Preload("Members").Preload("Members.Skills").
		First(&team, "id = ?", teamID).Error; err != nil {
		return nil, apperr.NotFound("team not found")
	}
	if team.CaptainID != userID {
		return nil, apperr.Forbidden("only the team captain can request recommendations for this team")
	}

	// The team-scoped endpoint ranks on profile fit alone; collaboration
	// history is folded in only on the generic endpoint.
	return s.recommendUsersForTeam(userID, &team, in, false)
}

func (s *RecommendationService) recommendUsersForTeam(requesterID uuid.UUID, team *models.Team, in RecommendationInput, withCollaboration bool) ([]Recommendation, *apperr.Error) {
	db := database.GetDB()

	exclude := []uuid.UUID{requesterID}
	for i := range team.Members {
		exclude = append(exclude, team.Members[i].ID)
	}
	exclude = append(exclude, in.ExcludeUserIDs...)

	var users []models.User
	if err := db.Preload("Skills").Preload("Achievements").
		Where("ready_to_work = ?", true).
		Where("id NOT IN (?)", exclude).
		Find(&users).Error; err != nil {
		return nil, toAppErr(err)
	}

	recs := make([]Recommendation, 0, len(users))
	for i := range users {
		candidate := &users[i]

		score, reasons := scoring.UserCompatibility(candidate, in.PreferredRoles, in.PreferredSkills)

		if withCollaboration {
			accepted, ae := s.membership.AcceptedRequestCount(candidate.ID, team.ID, team.HackathonID)
			if ae != nil {
				return nil, ae
			}
			bonus, bonusReasons := scoring.CollaborationPotential(accepted, scoring.SharedSkills(candidate, team))
			score += bonus
			reasons = append(reasons, bonusReasons...)
			if score > 1.0 {
				score = 1.0
			}
		}

		resp := candidate.ToResponse()
		recs = append(recs, Recommendation{User: &resp, Score: score, Reasons: reasons})
	}

	return rank(recs, in.MinScore, in.MaxResults), nil
}

// StatsTeam is the caller's captained team summary inside Stats.
type StatsTeam struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
}

// Stats holds the aggregate matching counters.
type Stats struct {
	TotalUsers  int64      `json:"total_users"`
	TotalTeams  int64      `json:"total_teams"`
	ActiveUsers int64      `json:"active_users"`
	UserTeam    *StatsTeam `json:"user_team,omitempty"`
}

// Stats reports aggregate counts plus the caller's captained team, if any.
func (s *RecommendationService) Stats(userID uuid.UUID) (*Stats, *apperr.Error) {
	db := database.GetDB()

	stats := &Stats{}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, toAppErr(err)
	}
	if err := db.Model(&models.Team{}).Count(&stats.TotalTeams).Error; err != nil {
		return nil, toAppErr(err)
	}
	if err := db.Model(&models.User{}).
		Where("ready_to_work = ?", true).
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, toAppErr(err)
	}

	var team models.Team
	if err := db.Preload("Members").First(&team, "captain_id = ?", userID).Error; err == nil {
		stats.UserTeam = &StatsTeam{
			ID:          team.ID,
			Name:        team.Name,
			MemberCount: len(team.Members),
		}
	}

	return stats, nil
}
