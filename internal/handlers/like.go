package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/services"
)

type LikeHandler struct {
	likeService services.LikeService
}

func NewLikeHandler(likeService services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (lh *LikeHandler) AddLike(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	count, err := lh.likeService.AddLike(c.Request.Context(), currentUserID(c), postID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"like_count": count, "liked": true})
}

func (lh *LikeHandler) RemoveLike(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	count, err := lh.likeService.RemoveLike(c.Request.Context(), currentUserID(c), postID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"like_count": count, "liked": false})
}

func (lh *LikeHandler) HasLiked(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	liked, err := lh.likeService.HasLiked(c.Request.Context(), currentUserID(c), postID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"liked": liked})
}
