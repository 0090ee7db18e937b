package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"socialfeed/backend/internal/apierror"
	"socialfeed/backend/internal/database"
	"socialfeed/backend/internal/models"
	"socialfeed/backend/pkg/relativetime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Text limits in characters, checked against the untrimmed input.
const (
	MaxPostLength    = 5000
	MaxCommentLength = 1000
)

// region --- DTOs ---

// CommentResponse is a rendered comment beneath a post.
type CommentResponse struct {
	ID                 uint   `json:"id"`
	Username           string `json:"username"`
	ProfileImage       string `json:"profileImage"`
	Text               string `json:"text"`
	Timestamp          string `json:"timestamp"`
	RelativeTimestamp  string `json:"relativeTimestamp"`
	Likes              int64  `json:"likes"`
	LikedByCurrentUser bool   `json:"likedByCurrentUser"`
}

// PostResponse is a rendered feed entry with its comments inlined.
type PostResponse struct {
	ID                 uint              `json:"id"`
	Username           string            `json:"username"`
	ProfileImage       string            `json:"profileImage"`
	Timestamp          string            `json:"timestamp"`
	RelativeTimestamp  string            `json:"relativeTimestamp"`
	Text               string            `json:"text"`
	Likes              int64             `json:"likes"`
	LikedByCurrentUser bool              `json:"likedByCurrentUser"`
	Comments           []CommentResponse `json:"comments"`
}

// TextInput is the body for post and comment creation.
type TextInput struct {
	Text string `json:"text" example:"hello"`
}

// LikeResponse reports the state after a like toggle. Likes is re-counted
// after the mutation, never incremented client-side.
type LikeResponse struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// endregion

// ListFeed godoc
// @Summary      Get the feed
// @Description  Global reverse-chronological page of posts with authors,
// @Description  like counts, the viewer's liked flags, and comments.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size" default(20)
// @Param        offset query int false "Page offset" default(0)
// @Success      200 {object} PagedResponse[PostResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /posts [get]
func ListFeed(c *gin.Context) {
	viewerID := currentUserID(c)
	limit, offset := ParsePageParams(c)

	var total int64
	if err := database.DB.Model(&models.Post{}).Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var posts []models.Post
	err := database.DB.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		c.Error(err)
		return
	}

	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	postLikes, postLiked, err := resolvePostLikes(postIDs, viewerID)
	if err != nil {
		c.Error(err)
		return
	}

	commentsByPost, err := resolveComments(postIDs, viewerID)
	if err != nil {
		c.Error(err)
		return
	}

	rendered := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		comments := commentsByPost[p.ID]
		if comments == nil {
			comments = []CommentResponse{}
		}
		rendered = append(rendered, PostResponse{
			ID:                 p.ID,
			Username:           p.User.Username,
			ProfileImage:       p.User.ProfileImage,
			Timestamp:          p.CreatedAt.UTC().Format(time.RFC3339),
			RelativeTimestamp:  relativetime.Since(p.CreatedAt),
			Text:               p.Text,
			Likes:              postLikes[p.ID],
			LikedByCurrentUser: postLiked[p.ID],
			Comments:           comments,
		})
	}

	c.JSON(http.StatusOK, NewPagedResponse(rendered, total, limit, offset))
}

// resolvePostLikes resolves like counts and the viewer's liked flags for a page
// of post ids in two batched queries, keeping the cost independent of page size.
func resolvePostLikes(postIDs []uint, viewerID uint) (map[uint]int64, map[uint]bool, error) {
	counts := map[uint]int64{}
	liked := map[uint]bool{}
	if len(postIDs) == 0 {
		return counts, liked, nil
	}

	var rows []struct {
		ItemID uint
		Count  int64
	}
	err := database.DB.Model(&models.PostLike{}).
		Select("post_id AS item_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		counts[row.ItemID] = row.Count
	}

	var likedIDs []uint
	err = database.DB.Model(&models.PostLike{}).
		Where("post_id IN ? AND user_id = ?", postIDs, viewerID).
		Pluck("post_id", &likedIDs).Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range likedIDs {
		liked[id] = true
	}

	return counts, liked, nil
}

// resolveComments fetches all comments for a page of posts in one query,
// oldest-first, and resolves their likes with the same two-query batching.
func resolveComments(postIDs []uint, viewerID uint) (map[uint][]CommentResponse, error) {
	byPost := map[uint][]CommentResponse{}
	if len(postIDs) == 0 {
		return byPost, nil
	}

	var comments []models.Comment
	err := database.DB.Preload("User").
		Where("post_id IN ?", postIDs).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return byPost, nil
	}

	commentIDs := make([]uint, 0, len(comments))
	for _, cm := range comments {
		commentIDs = append(commentIDs, cm.ID)
	}

	counts := map[uint]int64{}
	var rows []struct {
		ItemID uint
		Count  int64
	}
	err = database.DB.Model(&models.CommentLike{}).
		Select("comment_id AS item_id, COUNT(*) AS count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ItemID] = row.Count
	}

	liked := map[uint]bool{}
	var likedIDs []uint
	err = database.DB.Model(&models.CommentLike{}).
		Where("comment_id IN ? AND user_id = ?", commentIDs, viewerID).
		Pluck("comment_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range likedIDs {
		liked[id] = true
	}

	for _, cm := range comments {
		byPost[cm.PostID] = append(byPost[cm.PostID], CommentResponse{
			ID:                 cm.ID,
			Username:           cm.User.Username,
			ProfileImage:       cm.User.ProfileImage,
			Text:               cm.Text,
			Timestamp:          cm.CreatedAt.UTC().Format(time.RFC3339),
			RelativeTimestamp:  relativetime.Since(cm.CreatedAt),
			Likes:              counts[cm.ID],
			LikedByCurrentUser: liked[cm.ID],
		})
	}

	return byPost, nil
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TextInput true "Post text"
// @Success      201 {object} PostResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /posts [post]
func CreatePost(c *gin.Context) {
	viewerID := currentUserID(c)

	var input TextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apierror.Validation("Invalid request body"))
		return
	}

	// Character limit, checked against the untrimmed input.
	if utf8.RuneCountInString(input.Text) > MaxPostLength {
		c.Error(apierror.Validation("Post text must be at most 5000 characters"))
		return
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		c.Error(apierror.Validation("Post text is required"))
		return
	}

	var author models.User
	if err := database.DB.First(&author, viewerID).Error; err != nil {
		c.Error(apierror.New(apierror.CodeUserNotFound, "User not found"))
		return
	}

	post := models.Post{UserID: viewerID, Text: text}
	if err := database.DB.Create(&post).Error; err != nil {
		c.Error(err)
		return
	}

	// Freshly created: cannot have likes or comments yet.
	c.JSON(http.StatusCreated, PostResponse{
		ID:                 post.ID,
		Username:           author.Username,
		ProfileImage:       author.ProfileImage,
		Timestamp:          post.CreatedAt.UTC().Format(time.RFC3339),
		RelativeTimestamp:  relativetime.Since(post.CreatedAt),
		Text:               post.Text,
		Likes:              0,
		LikedByCurrentUser: false,
		Comments:           []CommentResponse{},
	})
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Post ID"
// @Param        input body TextInput true "Comment text"
// @Success      201 {object} CommentResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /posts/{id}/comments [post]
func AddComment(c *gin.Context) {
	viewerID := currentUserID(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(apierror.Validation("Invalid post ID"))
		return
	}

	var input TextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apierror.Validation("Invalid request body"))
		return
	}

	if utf8.RuneCountInString(input.Text) > MaxCommentLength {
		c.Error(apierror.Validation("Comment text must be at most 1000 characters"))
		return
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		c.Error(apierror.Validation("Comment text is required"))
		return
	}

	var post models.Post
	if err := database.DB.First(&post, uint(postID)).Error; err != nil {
		c.Error(apierror.NotFound("Post not found"))
		return
	}

	var author models.User
	if err := database.DB.First(&author, viewerID).Error; err != nil {
		c.Error(apierror.New(apierror.CodeUserNotFound, "User not found"))
		return
	}

	comment := models.Comment{PostID: post.ID, UserID: viewerID, Text: text}
	if err := database.DB.Create(&comment).Error; err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, CommentResponse{
		ID:                 comment.ID,
		Username:           author.Username,
		ProfileImage:       author.ProfileImage,
		Text:               comment.Text,
		Timestamp:          comment.CreatedAt.UTC().Format(time.RFC3339),
		RelativeTimestamp:  relativetime.Since(comment.CreatedAt),
		Likes:              0,
		LikedByCurrentUser: false,
	})
}

// TogglePostLike godoc
// @Summary      Toggle a like on a post
// @Description  Flips the viewer's like row for the post and returns the
// @Description  re-counted total.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200 {object} LikeResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /posts/{id}/like [post]
func TogglePostLike(c *gin.Context) {
	viewerID := currentUserID(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(apierror.Validation("Invalid post ID"))
		return
	}

	var post models.Post
	if err := database.DB.First(&post, uint(postID)).Error; err != nil {
		c.Error(apierror.NotFound("Post not found"))
		return
	}

	var existing models.PostLike
	err = database.DB.
		Where("post_id = ? AND user_id = ?", post.ID, viewerID).
		First(&existing).Error

	var liked bool
	switch {
	case err == nil:
		result := database.DB.
			Where("post_id = ? AND user_id = ?", post.ID, viewerID).
			Delete(&models.PostLike{})
		if result.Error != nil {
			c.Error(result.Error)
			return
		}
		liked = false
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.PostLike{PostID: post.ID, UserID: viewerID}
		if err := database.DB.Create(&like).Error; err != nil {
			// Lost the race against a concurrent toggle from the same user;
			// the row exists, which is the state we wanted.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				c.Error(err)
				return
			}
		}
		liked = true
	default:
		c.Error(err)
		return
	}

	var likes int64
	if err := database.DB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes).Error; err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LikeResponse{Liked: liked, Likes: likes})
}

// ToggleCommentLike godoc
// @Summary      Toggle a like on a comment
// @Description  Same toggle contract as posts. The comment must belong to the
// @Description  given post; a wrong post and a missing comment are the same 404.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id        path int true "Post ID"
// @Param        commentId path int true "Comment ID"
// @Success      200 {object} LikeResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /posts/{id}/comments/{commentId}/like [post]
func ToggleCommentLike(c *gin.Context) {
	viewerID := currentUserID(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(apierror.Validation("Invalid post ID"))
		return
	}
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.Error(apierror.Validation("Invalid comment ID"))
		return
	}

	var comment models.Comment
	err = database.DB.
		Where("id = ? AND post_id = ?", uint(commentID), uint(postID)).
		First(&comment).Error
	if err != nil {
		c.Error(apierror.NotFound("Comment not found"))
		return
	}

	var existing models.CommentLike
	err = database.DB.
		Where("comment_id = ? AND user_id = ?", comment.ID, viewerID).
		First(&existing).Error

	var liked bool
	switch {
	case err == nil:
		result := database.DB.
			Where("comment_id = ? AND user_id = ?", comment.ID, viewerID).
			Delete(&models.CommentLike{})
		if result.Error != nil {
			c.Error(result.Error)
			return
		}
		liked = false
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.CommentLike{CommentID: comment.ID, UserID: viewerID}
		if err := database.DB.Create(&like).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				c.Error(err)
				return
			}
		}
		liked = true
	default:
		c.Error(err)
		return
	}

	var likes int64
	if err := database.DB.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&likes).Error; err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LikeResponse{Liked: liked, Likes: likes})
}
