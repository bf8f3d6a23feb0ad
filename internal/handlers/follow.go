package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/services"
)

type FollowHandler struct {
	followService services.FollowService
}

func NewFollowHandler(followService services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

func (fh *FollowHandler) Follow(c *gin.Context) {
	followingID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	if err := fh.followService.Follow(c.Request.Context(), currentUserID(c), followingID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"following": true})
}

func (fh *FollowHandler) Unfollow(c *gin.Context) {
	followingID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	if err := fh.followService.Unfollow(c.Request.Context(), currentUserID(c), followingID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"following": false})
}

func (fh *FollowHandler) Following(c *gin.Context) {
	ids, err := fh.followService.FollowingIDs(c.Request.Context(), currentUserID(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"following_ids": ids})
}
