package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/services"
)

type FeaturedHandler struct {
	featuredService services.FeaturedService
}

func NewFeaturedHandler(featuredService services.FeaturedService) *FeaturedHandler {
	return &FeaturedHandler{featuredService: featuredService}
}

func (fh *FeaturedHandler) GetFeatured(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("city is required"))
		return
	}
	tag := c.Query("tag")

	results, err := fh.featuredService.Featured(c.Request.Context(), city, tag)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"establishments": results})
}
