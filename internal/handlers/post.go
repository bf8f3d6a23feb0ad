package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/services"
	"github.com/forkful/forkful-backend/internal/types"
)

type PostHandler struct {
	postService      services.PostService
	aggregateService services.AggregateService
}

func NewPostHandler(postService services.PostService, aggregateService services.AggregateService) *PostHandler {
	return &PostHandler{postService: postService, aggregateService: aggregateService}
}

func (ph *PostHandler) CreateDraft(c *gin.Context) {
	var body struct {
		EstablishmentID uuid.UUID `json:"establishment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	post, err := ph.postService.CreateDraft(c.Request.Context(), currentUserID(c), body.EstablishmentID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"post": post})
}

func (ph *PostHandler) AttachImage(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	post, err := ph.postService.AttachImage(c.Request.Context(), postID, raw, filepath.Ext(fileHeader.Filename))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"post": post})
}

func (ph *PostHandler) Finalize(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	var body struct {
		EstablishmentID uuid.UUID     `json:"establishment_id" binding:"required"`
		Review          string        `json:"review"`
		Ratings         types.Ratings `json:"ratings" binding:"required"`
		Tags            []string      `json:"tags"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	est, err := ph.aggregateService.FinalizeContribution(c.Request.Context(), body.EstablishmentID, postID, services.FinalizeInput{
		Review:  body.Review,
		Ratings: body.Ratings,
		Tags:    body.Tags,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"establishment": est})
}

func (ph *PostHandler) Get(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	post, err := ph.postService.Get(c.Request.Context(), postID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"post": post})
}
