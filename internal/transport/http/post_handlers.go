package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/socialgram/socialgram-server/internal/store"
)

// PostHandlers provides HTTP handlers for posts, comments, and likes.
type PostHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewPostHandlers creates a new post handlers instance.
func NewPostHandlers(st store.Store, logger *zerolog.Logger) *PostHandlers {
	return &PostHandlers{
		store: st,
		log:   logger,
	}
}

// CreatePostRequest represents the create post request body.
type CreatePostRequest struct {
	Text  string  `json:"text" binding:"required,min=1,max=2000"`
	Image *string `json:"image,omitempty"`
}

// PostResponse represents a post in API responses.
type PostResponse struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	Text      string  `json:"text"`
	Image     *string `json:"image,omitempty"`
	Likes     int64   `json:"likes"`
	CreatedAt string  `json:"createdAt"`
}

// CommentRequest represents the create comment request body.
type CommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// CommentResponse represents a comment in API responses.
type CommentResponse struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"postId"`
	UserID    int64  `json:"userId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// CreatePost handles post creation.
// POST /api/post
func (h *PostHandlers) CreatePost(c *gin.Context) {
	uid, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create post request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	post, err := h.store.CreatePost(c.Request.Context(), uid, req.Text, req.Image)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to create post")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Int64("post_id", post.ID).Int64("user_id", uid).Msg("post created")
	c.JSON(http.StatusCreated, PostResponse{
		ID:        post.ID,
		UserID:    post.UserID,
		Text:      post.Text,
		Image:     post.Image,
		CreatedAt: post.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ListPosts handles listing all posts, newest first.
// GET /api/posts
func (h *PostHandlers) ListPosts(c *gin.Context) {
	posts, err := h.store.ListPosts(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list posts")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		likes, err := h.store.CountLikes(c.Request.Context(), post.ID)
		if err != nil {
			h.log.Error().Err(err).Int64("post_id", post.ID).Msg("failed to count likes")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		response = append(response, PostResponse{
			ID:        post.ID,
			UserID:    post.UserID,
			Text:      post.Text,
			Image:     post.Image,
			Likes:     likes,
			CreatedAt: post.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, response)
}

// CreateComment handles commenting on a post.
// POST /api/post/:postId/comment
func (h *PostHandlers) CreateComment(c *gin.Context) {
	uid, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}

	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid comment request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	comment, err := h.store.CreateComment(c.Request.Context(), postID, uid, req.Text)
	if err != nil {
		h.log.Error().Err(err).Int64("post_id", postID).Msg("failed to create comment")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// LikePost handles liking a post.
// POST /api/post/:postId/like
func (h *PostHandlers) LikePost(c *gin.Context) {
	uid, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}

	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	if err := h.store.AddLike(c.Request.Context(), postID, uid); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "already liked"})
			return
		}
		h.log.Error().Err(err).Int64("post_id", postID).Msg("failed to add like")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusCreated)
}

// UnlikePost handles removing a like from a post.
// DELETE /api/post/:postId/like
func (h *PostHandlers) UnlikePost(c *gin.Context) {
	uid, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}

	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	if err := h.store.RemoveLike(c.Request.Context(), postID, uid); err != nil {
		h.log.Error().Err(err).Int64("post_id", postID).Msg("failed to remove like")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// postIDParam parses the :postId route parameter and checks the post exists.
func (h *PostHandlers) postIDParam(c *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid post id"})
		return 0, false
	}

	if _, err := h.store.GetPostByID(c.Request.Context(), postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "post not found"})
			return 0, false
		}
		h.log.Error().Err(err).Int64("post_id", postID).Msg("failed to load post")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return 0, false
	}

	return postID, true
}
