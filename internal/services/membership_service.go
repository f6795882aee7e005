package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hackmatch/team-platform/internal/apperr"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/models"
	"gorm.io/gorm"
)

// MembershipService owns the request lifecycle for both request shapes and
// the team-assignment side effects of accepting one. Every status change
// goes pending -> terminal exactly once; the accept path is the only
// multi-row write and runs inside a single transaction.
type MembershipService struct{}

func NewMembershipService() *MembershipService {
	return &MembershipService{}
}

func toAppErr(err error) *apperr.Error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Internal("storage error: %v", err)
}

// hackathonTeamIDs builds a fresh subquery selecting the team ids of one
// hackathon. Built per call because gorm subqueries are single-use.
func hackathonTeamIDs(db *gorm.DB, hackathonID uuid.UUID) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Team{}).Select("id").Where("hackathon_id = ?", hackathonID)
}

// currentTeam resolves the team the user is assigned to, or nil. A user
// holds at most one live team across all hackathons; the reference is
// cleared only by the explicit leave, kick and dissolve transitions, never
// as a side effect of joining somewhere else.
func currentTeam(db *gorm.DB, userID uuid.UUID) (*models.Team, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if user.TeamID == nil {
		return nil, nil
	}
	var team models.Team
	if err := db.First(&team, "id = ?", *user.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

// completeAcceptance is the single enforcement point for the accept side
// effects: assign the user's team and cascade-decline every sibling pending
// request for the same hackathon, in both request shapes. Must run inside
// the transaction that already flipped the accepted request's status; the
// guarded UPDATE fails the whole transaction if the user meanwhile got a
// team anywhere, so an existing assignment is never overwritten.
func completeAcceptance(tx *gorm.DB, userID, teamID, hackathonID uuid.UUID) *apperr.Error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Where("team_id IS NULL OR team_id = ?", teamID).
		Update("team_id", teamID)
	if res.Error != nil {
		return toAppErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("user already belongs to another team, leave it first")
	}

	// The accepted request is no longer pending, so these sweeps cannot
	// touch it.
	if err := tx.Model(&models.Request{}).
		Where("sender_id = ? AND hackathon_id = ? AND request_type = ? AND status = ?",
			userID, hackathonID, models.TypeJoinTeam, models.StatusPending).
		Update("status", models.StatusDeclined).Error; err != nil {
		return toAppErr(err)
	}

	if err := tx.Model(&models.TeamRequest{}).
		Where("user_id = ? AND status = ? AND team_id IN (?)",
			userID, models.StatusPending, hackathonTeamIDs(tx, hackathonID)).
		Update("status", models.StatusDeclined).Error; err != nil {
		return toAppErr(err)
	}

	return nil
}

// CreateRequestInput carries the shape-specific fields of a new request.
type CreateRequestInput struct {
	ReceiverID  *uuid.UUID         `json:"receiver_id"`
	TeamID      *uuid.UUID         `json:"team_id"`
	HackathonID uuid.UUID          `json:"hackathon_id"`
	RequestType models.RequestType `json:"request_type"`
}

// CreateRequest validates and records a new pending request.
func (s *MembershipService) CreateRequest(senderID uuid.UUID, in CreateRequestInput) (*models.Request, *apperr.Error) {
	db := database.GetDB()

	if in.ReceiverID != nil && *in.ReceiverID == senderID {
		return nil, apperr.Validation("cannot send request to yourself")
	}

	var hackathon models.Hackathon
	if err := db.First(&hackathon, "id = ?", in.HackathonID).Error; err != nil {
		return nil, apperr.NotFound("hackathon not found")
	}

	switch in.RequestType {
	case models.TypeJoinTeam:
		if in.TeamID == nil {
			return nil, apperr.Validation("team_id required for join_team request")
		}
		var team models.Team
		if err := db.First(&team, "id = ?", *in.TeamID).Error; err != nil {
			return nil, apperr.NotFound("team not found")
		}
		current, err := currentTeam(db, senderID)
		if err != nil {
			return nil, toAppErr(err)
		}
		if current != nil {
			return nil, apperr.Conflict("you are already in a team, leave it before requesting to join another")
		}

	case models.TypeCollaborate:
		if in.ReceiverID == nil {
			return nil, apperr.Validation("receiver_id required for collaborate request")
		}
		var receiver models.User
		if err := db.First(&receiver, "id = ?", *in.ReceiverID).Error; err != nil {
			return nil, apperr.NotFound("receiver not found")
		}

	case models.TypeInvite:
		if in.ReceiverID == nil || in.TeamID == nil {
			return nil, apperr.Validation("receiver_id and team_id required for invite request")
		}
		var team models.Team
		if err := db.First(&team, "id = ?", *in.TeamID).Error; err != nil {
			return nil, apperr.NotFound("team not found")
		}
		if team.CaptainID != senderID {
			return nil, apperr.Forbidden("only the team captain can send invites")
		}
		var receiver models.User
		if err := db.First(&receiver, "id = ?", *in.ReceiverID).Error; err != nil {
			return nil, apperr.NotFound("receiver not found")
		}

	default:
		return nil, apperr.Validation("unknown request type: %s", in.RequestType)
	}

	// Duplicate check over the exact (sender, receiver, team, kind,
	// hackathon) tuple, with absent refs matching absent refs.
	dup := db.Model(&models.Request{}).
		Where("sender_id = ? AND request_type = ? AND hackathon_id = ? AND status = ?",
			senderID, in.RequestType, in.HackathonID, models.StatusPending)
	if in.ReceiverID != nil {
		dup = dup.Where("receiver_id = ?", *in.ReceiverID)
	} else {
		dup = dup.Where("receiver_id IS NULL")
	}
	if in.TeamID != nil {
		dup = dup.Where("team_id = ?", *in.TeamID)
	} else {
		dup = dup.Where("team_id IS NULL")
	}
	var count int64
	if err := dup.Count(&count).Error; err != nil {
		return nil, toAppErr(err)
	}
	if count > 0 {
		return nil, apperr.Conflict("pending request of this type already exists")
	}

	req := &models.Request{
		SenderID:    senderID,
		ReceiverID:  in.ReceiverID,
		TeamID:      in.TeamID,
		HackathonID: in.HackathonID,
		RequestType: in.RequestType,
		Status:      models.StatusPending,
	}
	if err := db.Create(req).Error; err != nil {
		return nil, toAppErr(err)
	}

	return req, nil
}

// AcceptRequest transitions a pending request to accepted. For team-affecting
// kinds the sender is assigned to the team and every other pending join_team
// request they hold for the hackathon is declined, all atomically.
func (s *MembershipService) AcceptRequest(requestID, actorID uuid.UUID) (*models.Request, *apperr.Error) {
	db := database.GetDB()

	var req models.Request
	if err := db.First(&req, "id = ?", requestID).Error; err != nil {
		return nil, apperr.NotFound("request not found")
	}

	switch req.RequestType {
	case models.TypeCollaborate:
		if req.ReceiverID == nil || *req.ReceiverID != actorID {
			return nil, apperr.Forbidden("only the receiver can accept a collaboration request")
		}
	case models.TypeJoinTeam, models.TypeInvite:
		if req.TeamID == nil {
			return nil, apperr.Validation("request has no team reference")
		}
		var team models.Team
		if err := db.First(&team, "id = ?", *req.TeamID).Error; err != nil {
			return nil, apperr.NotFound("team not found")
		}
		if team.CaptainID != actorID {
			return nil, apperr.Forbidden("only the team captain can accept this request")
		}
	default:
		return nil, apperr.Validation("unknown request type: %s", req.RequestType)
	}

	if req.Status != models.StatusPending {
		return nil, apperr.State(string(req.Status), "request is already %s", req.Status)
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		// Re-checked under the transaction: a concurrent transition loses
		// here and the whole operation rolls back.
		res := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", requestID, models.StatusPending).
			Update("status", models.StatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Request
			if err := tx.First(&current, "id = ?", requestID).Error; err != nil {
				return err
			}
			return apperr.State(string(current.Status), "request is already %s", current.Status)
		}

		if req.RequestType == models.TypeJoinTeam || req.RequestType == models.TypeInvite {
			if ae := completeAcceptance(tx, req.SenderID, *req.TeamID, req.HackathonID); ae != nil {
				return ae
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, toAppErr(txErr)
	}

	if err := db.First(&req, "id = ?", requestID).Error; err != nil {
		return nil, toAppErr(err)
	}
	return &req, nil
}

// DeclineRequest transitions a pending request to declined. Allowed for the
// responsible party of the request's kind and always for the sender, so a
// sender can withdraw without canceling.
func (s *MembershipService) DeclineRequest(requestID, actorID uuid.UUID) (*models.Request, *apperr.Error) {
	db := database.GetDB()

	var req models.Request
	if err := db.First(&req, "id = ?", requestID).Error; err != nil {
		return nil, apperr.NotFound("request not found")
	}

	authorized := req.SenderID == actorID
	if !authorized {
		switch req.RequestType {
		case models.TypeCollaborate:
			authorized = req.ReceiverID != nil && *req.ReceiverID == actorID
		case models.TypeJoinTeam, models.TypeInvite:
			if req.TeamID == nil {
				return nil, apperr.Validation("request has no team reference")
			}
			var team models.Team
			if err := db.First(&team, "id = ?", *req.TeamID).Error; err != nil {
				return nil, apperr.NotFound("team not found")
			}
			authorized = team.CaptainID == actorID
		}
	}
	if !authorized {
		return nil, apperr.Forbidden("not allowed to decline this request")
	}

	res := db.Model(&models.Request{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Update("status", models.StatusDeclined)
	if res.Error != nil {
		return nil, toAppErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.State(string(req.Status), "request is already %s", req.Status)
	}

	if err := db.First(&req, "id = ?", requestID).Error; err != nil {
		return nil, toAppErr(err)
	}
	return &req, nil
}

// CancelRequest lets the sender withdraw a still-pending request.
func (s *MembershipService) CancelRequest(requestID, actorID uuid.UUID) *apperr.Error {
	db := database.GetDB()

	var req models.Request
	if err := db.First(&req, "id = ?", requestID).Error; err != nil {
		return apperr.NotFound("request not found")
	}

	if req.SenderID != actorID {
		return apperr.Forbidden("only the request sender can cancel")
	}

	res := db.Model(&models.Request{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Update("status", models.StatusCanceled)
	if res.Error != nil {
		return toAppErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.State(string(req.Status), "cannot cancel request with status %s", req.Status)
	}
	return nil
}

// ListRequestsInput filters and paginates request listings.
type ListRequestsInput struct {
	Status *models.RequestStatus
	Type   *models.RequestType
	Offset int
	Limit  int
}

func (in *ListRequestsInput) clamp() {
	if in.Limit < 1 {
		in.Limit = 10
	}
	if in.Limit > 100 {
		in.Limit = 100
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
}

// ListSent returns the user's outgoing requests, newest first.
func (s *MembershipService) ListSent(userID uuid.UUID, in ListRequestsInput) ([]models.Request, *apperr.Error) {
	in.clamp()
	db := database.GetDB()

	q := db.Where("sender_id = ?", userID)
	if in.Status != nil {
		q = q.Where("status = ?", *in.Status)
	}
	if in.Type != nil {
		q = q.Where("request_type = ?", *in.Type)
	}

	var requests []models.Request
	if err := q.Preload("Receiver").Preload("Team").
		Order("created_at DESC").Offset(in.Offset).Limit(in.Limit).
		Find(&requests).Error; err != nil {
		return nil, toAppErr(err)
	}
	return requests, nil
}

// ListReceived returns requests addressed to the user directly plus requests
// aimed at any team the user captains, newest first.
func (s *MembershipService) ListReceived(userID uuid.UUID, in ListRequestsInput) ([]models.Request, *apperr.Error) {
	in.clamp()
	db := database.GetDB()

	captainTeams := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Team{}).Select("id").Where("captain_id = ?", userID)

	q := db.Where("receiver_id = ? OR team_id IN (?)", userID, captainTeams)
	if in.Status != nil {
		q = q.Where("status = ?", *in.Status)
	}
	if in.Type != nil {
		q = q.Where("request_type = ?", *in.Type)
	}

	var requests []models.Request
	if err := q.Preload("Sender").Preload("Team").
		Order("created_at DESC").Offset(in.Offset).Limit(in.Limit).
		Find(&requests).Error; err != nil {
		return nil, toAppErr(err)
	}
	return requests, nil
}

// CreateTeamInput carries the fields for a new team.
type CreateTeamInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ChatLink    string    `json:"chat_link"`
	HackathonID uuid.UUID `json:"hackathon_id"`
}

// CreateTeam creates a team with the creator as captain and first member.
func (s *MembershipService) CreateTeam(captainID uuid.UUID, in CreateTeamInput) (*models.Team, *apperr.Error) {
	db := database.GetDB()

	if in.Name == "" {
		return nil, apperr.Validation("team name is required")
	}

	var hackathon models.Hackathon
	if err := db.First(&hackathon, "id = ?", in.HackathonID).Error; err != nil {
		return nil, apperr.NotFound("hackathon not found")
	}

	current, err := currentTeam(db, captainID)
	if err != nil {
		return nil, toAppErr(err)
	}
	if current != nil {
		return nil, apperr.Conflict("you are already in a team, leave it before creating another")
	}

	team := &models.Team{
		Name:        in.Name,
		Description: in.Description,
		ChatLink:    in.ChatLink,
		IsLooking:   true,
		HackathonID: in.HackathonID,
		CaptainID:   captainID,
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", captainID).
			Update("team_id", team.ID).Error
	})
	if txErr != nil {
		return nil, toAppErr(txErr)
	}

	if err := db.Preload("Captain").Preload("Members").First(team, "id = ?", team.ID).Error; err != nil {
		return nil, toAppErr(err)
	}
	return team, nil
}

// SendJoinRequest records a pending team-scoped join request from the user.
func (s *MembershipService) SendJoinRequest(userID, teamID uuid.UUID) (*models.TeamRequest, *apperr.Error) {
	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		return nil, apperr.NotFound("team not found")
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}
	if user.TeamID != nil && *user.TeamID == teamID {
		return nil, apperr.Conflict("you are already in this team")
	}

	current, err := currentTeam(db, userID)
	if err != nil {
		return nil, toAppErr(err)
	}
	if current != nil {
		return nil, apperr.Conflict("you are already in a team, leave it before requesting to join another")
	}

	var count int64
	if err := db.Model(&models.TeamRequest{}).
		Where("user_id = ? AND team_id = ? AND status = ?", userID, teamID, models.StatusPending).
		Count(&count).Error; err != nil {
		return nil, toAppErr(err)
	}
	if count > 0 {
		return nil, apperr.Conflict("you already sent a request to this team")
	}

	req := &models.TeamRequest{
		UserID:   userID,
		TeamID:   teamID,
		IsInvite: false,
		Status:   models.StatusPending,
	}
	if err := db.Create(req).Error; err != nil {
		return nil, toAppErr(err)
	}
	return req, nil
}

// InviteToTeam records a pending invite from the captain to a user.
func (s *MembershipService) InviteToTeam(captainID, teamID, targetID uuid.UUID) (*models.TeamRequest, *apperr.Error) {
	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		return nil, apperr.NotFound("team not found")
	}
	if team.CaptainID != captainID {
		return nil, apperr.Forbidden("only the team captain can invite")
	}
	if targetID == captainID {
		return nil, apperr.Validation("cannot invite yourself")
	}

	var target models.User
	if err := db.First(&target, "id = ?", targetID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}

	current, err := currentTeam(db, targetID)
	if err != nil {
		return nil, toAppErr(err)
	}
	if current != nil {
		return nil, apperr.Conflict("user is already in a team")
	}

	var count int64
	if err := db.Model(&models.TeamRequest{}).
		Where("user_id = ? AND team_id = ? AND is_invite = ? AND status = ?",
			targetID, teamID, true, models.StatusPending).
		Count(&count).Error; err != nil {
		return nil, toAppErr(err)
	}
	if count > 0 {
		return nil, apperr.Conflict("a pending invite for this user already exists")
	}

	req := &models.TeamRequest{
		UserID:   targetID,
		TeamID:   teamID,
		IsInvite: true,
		Status:   models.StatusPending,
	}
	if err := db.Create(req).Error; err != nil {
		return nil, toAppErr(err)
	}
	return req, nil
}

// RespondToTeamRequest accepts or declines a team-scoped request. Join asks
// are answered by the captain, invites by the invited user; the sender side
// may additionally decline. Accepting assigns the user and cascades exactly
// like the general shape.
func (s *MembershipService) RespondToTeamRequest(actorID, teamID, requestID uuid.UUID, accept bool) *apperr.Error {
	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		return apperr.NotFound("team not found")
	}

	var req models.TeamRequest
	if err := db.First(&req, "id = ?", requestID).Error; err != nil {
		return apperr.NotFound("request not found")
	}
	if req.TeamID != teamID {
		return apperr.Validation("request does not belong to this team")
	}

	// The responsible party mirrors the general shape: whoever did not
	// initiate the request answers it. Decline is additionally open to the
	// initiator as a withdrawal.
	responder := team.CaptainID
	initiator := req.UserID
	if req.IsInvite {
		responder = req.UserID
		initiator = team.CaptainID
	}
	authorized := actorID == responder
	if !accept && actorID == initiator {
		authorized = true
	}
	if !authorized {
		return apperr.Forbidden("not allowed to respond to this request")
	}

	if req.Status != models.StatusPending {
		return apperr.State(string(req.Status), "request is already %s", req.Status)
	}

	if !accept {
		res := db.Model(&models.TeamRequest{}).
			Where("id = ? AND status = ?", requestID, models.StatusPending).
			Update("status", models.StatusDeclined)
		if res.Error != nil {
			return toAppErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.State(string(req.Status), "request is already %s", req.Status)
		}
		return nil
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TeamRequest{}).
			Where("id = ? AND status = ?", requestID, models.StatusPending).
			Update("status", models.StatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.TeamRequest
			if err := tx.First(&current, "id = ?", requestID).Error; err != nil {
				return err
			}
			return apperr.State(string(current.Status), "request is already %s", current.Status)
		}
		if ae := completeAcceptance(tx, req.UserID, teamID, team.HackathonID); ae != nil {
			return ae
		}
		return nil
	})
	if txErr != nil {
		return toAppErr(txErr)
	}
	return nil
}

// TeamRequests lists a team's requests for its captain.
func (s *MembershipService) TeamRequests(actorID, teamID uuid.UUID) ([]models.TeamRequest, *apperr.Error) {
	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		return nil, apperr.NotFound("team not found")
	}
	if team.CaptainID != actorID {
		return nil, apperr.Forbidden("only the team captain can view requests")
	}

	var requests []models.TeamRequest
	if err := db.Preload("User").
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, toAppErr(err)
	}
	return requests, nil
}

// LeaveTeam clears the user's team assignment. The captain cannot leave;
// they must dissolve the team instead.
func (s *MembershipService) LeaveTeam(userID, teamID uuid.UUID) *apperr.Error {
	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		return apperr.NotFound("team not found")
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return apperr.NotFound("user not found")
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return apperr.Validation("you are not in this team")
	}
	if team.CaptainID == userID {
		return apperr.Forbidden("the captain cannot leave the team, dissolve it instead")
	}

	if err := db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("team_id", nil).Error; err != nil {
		return toAppErr(err)
	}
	return nil
}

// KickMember removes a member from the team. Captain only; the captain
// themselves cannot be kicked.
func (s *MembershipService) KickMember(actorID, teamID, targetID uuid.UUID) *apperr.Error {
	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		return apperr.NotFound("team not found")
	}
	if team.CaptainID != actorID {
		return apperr.Forbidden("only the team captain can kick members")
	}
	if team.CaptainID == targetID {
		return apperr.Forbidden("the captain cannot be kicked")
	}

	var target models.User
	if err := db.First(&target, "id = ?", targetID).Error; err != nil {
		return apperr.NotFound("user not found")
	}
	if target.TeamID == nil || *target.TeamID != teamID {
		return apperr.Validation("this user is not in your team")
	}

	if err := db.Model(&models.User{}).
		Where("id = ?", targetID).
		Update("team_id", nil).Error; err != nil {
		return toAppErr(err)
	}
	return nil
}

// DissolveTeam deletes the team and clears every member's assignment.
// Captain only.
func (s *MembershipService) DissolveTeam(actorID, teamID uuid.UUID) *apperr.Error {
	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		return apperr.NotFound("team not found")
	}
	if team.CaptainID != actorID {
		return apperr.Forbidden("only the team captain can dissolve the team")
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("team_id = ?", teamID).
			Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if txErr != nil {
		return toAppErr(txErr)
	}
	return nil
}

// AcceptedRequestCount counts accepted general requests linking a user and a
// team within a hackathon, the collaboration-history input for scoring.
func (s *MembershipService) AcceptedRequestCount(userID, teamID, hackathonID uuid.UUID) (int, *apperr.Error) {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.Request{}).
		Where("hackathon_id = ? AND team_id = ? AND status = ?", hackathonID, teamID, models.StatusAccepted).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Count(&count).Error; err != nil {
		return 0, toAppErr(err)
	}
	return int(count), nil
}
