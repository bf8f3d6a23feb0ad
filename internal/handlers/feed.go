package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/services"
)

type FeedHandler struct {
	feedService services.FeedService
}

func NewFeedHandler(feedService services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func (fh *FeedHandler) GetFeed(c *gin.Context) {
	userID := currentUserID(c)
	cursor := c.Query("cursor")
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	page, err := fh.feedService.AssembleFeed(c.Request.Context(), userID, cursor, pageSize)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, page)
}

func (fh *FeedHandler) GetPostsByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	entries, err := fh.feedService.PostsByUser(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"entries": entries})
}

func (fh *FeedHandler) GetTopPicksByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	entries, err := fh.feedService.TopPicksByUser(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"entries": entries})
}
