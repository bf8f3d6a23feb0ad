package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/clients/places"
	"github.com/forkful/forkful-backend/internal/services"
)

type EstablishmentHandler struct {
	establishmentService services.EstablishmentService
}

func NewEstablishmentHandler(establishmentService services.EstablishmentService) *EstablishmentHandler {
	return &EstablishmentHandler{establishmentService: establishmentService}
}

func (eh *EstablishmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}

	est, err := eh.establishmentService.Get(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"establishment": est})
}

func (eh *EstablishmentHandler) EnsureFromPlace(c *gin.Context) {
	var body struct {
		PlaceID string `json:"place_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	est, err := eh.establishmentService.EnsureFromPlace(c.Request.Context(), body.PlaceID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"establishment": est})
}

func (eh *EstablishmentHandler) SuggestPlaces(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("q is required"))
		return
	}

	var proximity *places.Proximity
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid lat/lng"))
			return
		}
		proximity = &places.Proximity{Latitude: lat, Longitude: lng}
	}

	suggestions, err := eh.establishmentService.SuggestPlaces(c.Request.Context(), query, proximity)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"suggestions": suggestions})
}
