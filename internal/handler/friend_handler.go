package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"socialfeed/backend/internal/apierror"
	"socialfeed/backend/internal/database"
	"socialfeed/backend/internal/models"
	"socialfeed/backend/pkg/relativetime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// FriendResponse is one row of the viewer's friend list.
type FriendResponse struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	ProfileImage  string `json:"profileImage"`
	UserStatus    string `json:"userStatus"`
	Status        string `json:"status"`
	MutualFriends int    `json:"mutualFriends"`
}

// SuggestionResponse is one row of the viewer's suggestion list.
type SuggestionResponse struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	ProfileImage  string `json:"profileImage"`
	MutualFriends int    `json:"mutualFriends"`
}

// RequestResponse is a friend request enriched with its direction and the other
// party's identity.
type RequestResponse struct {
	ID                uint   `json:"id"`
	Type              string `json:"type"`
	Username          string `json:"username"`
	ProfileImage      string `json:"profileImage"`
	Status            string `json:"status"`
	MutualFriends     int    `json:"mutualFriends"`
	SentAt            string `json:"sentAt"`
	RelativeTimestamp string `json:"relativeTimestamp"`

	sentAt time.Time
}

// SendRequestInput addresses the request target by username.
type SendRequestInput struct {
	Username string `json:"username" example:"bob"`
}

// endregion

// likeEscaper neutralizes LIKE wildcards so a search value only ever matches
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListFriends godoc
// @Summary      List the viewer's friends
// @Description  Friendships owned by the viewer, ordered by friend username,
// @Description  optionally filtered by status and a username substring.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by friendship status"
// @Param        search query string false "Case-insensitive username substring"
// @Param        limit  query int    false "Page size" default(20)
// @Param        offset query int    false "Page offset" default(0)
// @Success      200 {object} PagedResponse[FriendResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /friends [get]
func ListFriends(c *gin.Context) {
	viewerID := currentUserID(c)
	limit, offset := ParsePageParams(c)

	query := database.DB.Model(&models.Friendship{}).
		Joins("JOIN users ON users.id = friendships.friend_user_id").
		Where("friendships.user_id = ?", viewerID)

	if status := c.Query("status"); status != "" {
		query = query.Where("friendships.status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(users.username) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(search))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var friendships []models.Friendship
	// users is only joined for ordering and filtering; select friendships.*
	// so the user row's status/created_at cannot shadow the edge's own columns.
	if err := query.Select("friendships.*").
		Order("users.username ASC").
		Limit(limit).Offset(offset).
		Preload("Friend").
		Find(&friendships).Error; err != nil {
		c.Error(err)
		return
	}

	friends := make([]FriendResponse, 0, len(friendships))
	for _, f := range friendships {
		friends = append(friends, FriendResponse{
			ID:            f.Friend.ID,
			Username:      f.Friend.Username,
			ProfileImage:  f.Friend.ProfileImage,
			UserStatus:    string(f.Friend.Status),
			Status:        string(f.Status),
			MutualFriends: f.MutualFriends,
		})
	}

	c.JSON(http.StatusOK, NewPagedResponse(friends, total, limit, offset))
}

// ListSuggestions godoc
// @Summary      List friend suggestions
// @Description  Precomputed suggestions for the viewer, newest first.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size" default(20)
// @Param        offset query int false "Page offset" default(0)
// @Success      200 {object} PagedResponse[SuggestionResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /friends/suggestions [get]
func ListSuggestions(c *gin.Context) {
	viewerID := currentUserID(c)
	limit, offset := ParsePageParams(c)

	query := database.DB.Model(&models.FriendSuggestion{}).Where("user_id = ?", viewerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var rows []models.FriendSuggestion
	if err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Preload("SuggestedUser").
		Find(&rows).Error; err != nil {
		c.Error(err)
		return
	}

	suggestions := make([]SuggestionResponse, 0, len(rows))
	for _, s := range rows {
		suggestions = append(suggestions, SuggestionResponse{
			ID:            s.SuggestedUser.ID,
			Username:      s.SuggestedUser.Username,
			ProfileImage:  s.SuggestedUser.ProfileImage,
			MutualFriends: s.MutualFriends,
		})
	}

	c.JSON(http.StatusOK, NewPagedResponse(suggestions, total, limit, offset))
}

// ListRequests godoc
// @Summary      List pending friend requests
// @Description  Incoming and outgoing pending requests. When no type filter is
// @Description  given, both directions are fetched, merged, re-sorted by sentAt
// @Description  descending, and only then paginated — the page window is over
// @Description  the merged union, not within each direction.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        type   query string false "Direction filter (incoming, outgoing)"
// @Param        limit  query int    false "Page size" default(20)
// @Param        offset query int    false "Page offset" default(0)
// @Success      200 {object} PagedResponse[RequestResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /friends/requests [get]
func ListRequests(c *gin.Context) {
	viewerID := currentUserID(c)
	limit, offset := ParsePageParams(c)

	typeFilter := c.Query("type")
	if typeFilter != "" && typeFilter != string(models.RequestIncoming) && typeFilter != string(models.RequestOutgoing) {
		c.Error(apierror.Validation("Type must be 'incoming' or 'outgoing'"))
		return
	}

	merged := []RequestResponse{}

	if typeFilter == "" || typeFilter == string(models.RequestIncoming) {
		var incoming []models.FriendRequest
		err := database.DB.
			Where("receiver_user_id = ? AND status = ?", viewerID, models.RequestPending).
			Preload("Sender").
			Find(&incoming).Error
		if err != nil {
			c.Error(err)
			return
		}
		for _, r := range incoming {
			merged = append(merged, requestResponse(r, models.RequestIncoming))
		}
	}

	if typeFilter == "" || typeFilter == string(models.RequestOutgoing) {
		var outgoing []models.FriendRequest
		err := database.DB.
			Where("sender_user_id = ? AND status = ?", viewerID, models.RequestPending).
			Preload("Receiver").
			Find(&outgoing).Error
		if err != nil {
			c.Error(err)
			return
		}
		for _, r := range outgoing {
			merged = append(merged, requestResponse(r, models.RequestOutgoing))
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].sentAt.After(merged[j].sentAt)
	})

	total := int64(len(merged))
	start := offset
	if start > len(merged) {
		start = len(merged)
	}
	end := start + limit
	if end > len(merged) {
		end = len(merged)
	}

	c.JSON(http.StatusOK, NewPagedResponse(merged[start:end], total, limit, offset))
}

// SendFriendRequest godoc
// @Summary      Send a friend request
// @Description  Creates a pending request addressed by username. Fails if the
// @Description  users are already friends, the request was already sent, or a
// @Description  request in the reverse direction is pending.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendRequestInput true "Target username"
// @Success      201 {object} RequestResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /friends/requests [post]
func SendFriendRequest(c *gin.Context) {
	viewerID := currentUserID(c)

	var input SendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apierror.Validation("Invalid request body"))
		return
	}

	targetUsername := normalizeUsername(input.Username)
	if targetUsername == "" {
		c.Error(apierror.Validation("Username is required"))
		return
	}
	if targetUsername == currentUsername(c) {
		c.Error(apierror.Validation("Cannot send a friend request to yourself"))
		return
	}

	var target models.User
	if err := database.DB.Where("username = ?", targetUsername).First(&target).Error; err != nil {
		c.Error(apierror.New(apierror.CodeUserNotFound, "User not found"))
		return
	}

	var friendship models.Friendship
	err := database.DB.
		Where("user_id = ? AND friend_user_id = ?", viewerID, target.ID).
		First(&friendship).Error
	if err == nil {
		c.Error(apierror.New(apierror.CodeAlreadyFriends, "You are already friends with this user"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.Error(err)
		return
	}

	var existing models.FriendRequest
	err = database.DB.
		Where("sender_user_id = ? AND receiver_user_id = ? AND status = ?", viewerID, target.ID, models.RequestPending).
		First(&existing).Error
	if err == nil {
		c.Error(apierror.New(apierror.CodeRequestAlreadySent, "Friend request already sent"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.Error(err)
		return
	}

	// A pending request in the reverse direction is a distinct condition and is
	// never auto-accepted here.
	err = database.DB.
		Where("sender_user_id = ? AND receiver_user_id = ? AND status = ?", target.ID, viewerID, models.RequestPending).
		First(&existing).Error
	if err == nil {
		c.Error(apierror.New(apierror.CodeRequestExists, "This user has already sent you a friend request"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.Error(err)
		return
	}

	request := models.FriendRequest{
		SenderUserID:   viewerID,
		ReceiverUserID: target.ID,
		Status:         models.RequestPending,
		MutualFriends:  0,
	}
	if err := database.DB.Create(&request).Error; err != nil {
		c.Error(err)
		return
	}
	request.Receiver = target

	c.JSON(http.StatusCreated, requestResponse(request, models.RequestOutgoing))
}

// AcceptRequest godoc
// @Summary      Accept a pending friend request
// @Description  Marks the request accepted and creates one friendship row per
// @Description  direction, carrying over the cached mutual-friend count.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200 {object} map[string]string
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /friends/requests/{id}/accept [post]
func AcceptRequest(c *gin.Context) {
	viewerID := currentUserID(c)

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(apierror.Validation("Invalid request ID"))
		return
	}

	var request models.FriendRequest
	err = database.DB.
		Where("id = ? AND receiver_user_id = ? AND status = ?", requestID, viewerID, models.RequestPending).
		First(&request).Error
	if err != nil {
		c.Error(apierror.NotFound("Pending request not found"))
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Update("status", models.RequestAccepted).Error; err != nil {
			return err
		}
		friendships := []models.Friendship{
			{UserID: request.SenderUserID, FriendUserID: request.ReceiverUserID, Status: models.FriendshipActive, MutualFriends: request.MutualFriends},
			{UserID: request.ReceiverUserID, FriendUserID: request.SenderUserID, Status: models.FriendshipActive, MutualFriends: request.MutualFriends},
		}
		return tx.Create(&friendships).Error
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// DeclineRequest godoc
// @Summary      Decline a pending friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200 {object} map[string]string
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /friends/requests/{id}/decline [post]
func DeclineRequest(c *gin.Context) {
	viewerID := currentUserID(c)

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(apierror.Validation("Invalid request ID"))
		return
	}

	// Declining removes the row outright so the (sender, receiver) pair is
	// free for a future request; the unique index would otherwise block it.
	result := database.DB.Unscoped().
		Where("id = ? AND receiver_user_id = ? AND status = ?", requestID, viewerID, models.RequestPending).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		c.Error(result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.Error(apierror.NotFound("Pending request not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request declined"})
}

// requestResponse renders a request from the viewer's side: the embedded user
// is the other party, so incoming shows the sender and outgoing the receiver.
func requestResponse(r models.FriendRequest, direction models.RequestDirection) RequestResponse {
	other := r.Sender
	if direction == models.RequestOutgoing {
		other = r.Receiver
	}

	return RequestResponse{
		ID:                r.ID,
		Type:              string(direction),
		Username:          other.Username,
		ProfileImage:      other.ProfileImage,
		Status:            string(r.Status),
		MutualFriends:     r.MutualFriends,
		SentAt:            r.CreatedAt.UTC().Format(time.RFC3339),
		RelativeTimestamp: relativetime.Since(r.CreatedAt),
		sentAt:            r.CreatedAt,
	}
}
