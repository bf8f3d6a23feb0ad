package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/services"
)

type MarkerHandler struct {
	markerService services.MarkerService
}

func NewMarkerHandler(markerService services.MarkerService) *MarkerHandler {
	return &MarkerHandler{markerService: markerService}
}

func (mh *MarkerHandler) GetMarkers(c *gin.Context) {
	userID := currentUserID(c)

	markers, err := mh.markerService.MarkersForUser(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"markers": markers})
}

func (mh *MarkerHandler) GetEstablishmentCard(c *gin.Context) {
	establishmentID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	card, err := mh.markerService.EstablishmentCard(c.Request.Context(), establishmentID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, card)
}
