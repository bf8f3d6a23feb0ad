package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/services"
)

type SaveHandler struct {
	saveService services.SaveService
}

func NewSaveHandler(saveService services.SaveService) *SaveHandler {
	return &SaveHandler{saveService: saveService}
}

func (sh *SaveHandler) Save(c *gin.Context) {
	establishmentID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	if err := sh.saveService.Save(c.Request.Context(), currentUserID(c), establishmentID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": true})
}

func (sh *SaveHandler) Unsave(c *gin.Context) {
	establishmentID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	if err := sh.saveService.Unsave(c.Request.Context(), currentUserID(c), establishmentID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": false})
}

func (sh *SaveHandler) SavedByUser(c *gin.Context) {
	saves, err := sh.saveService.SavedByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"saves": saves})
}
