package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Domenick1991/roundtrip/internal/service/search"
	"github.com/gin-gonic/gin"
)

type AirportHandler struct {
	service search.SearchUseCase
}

type airportResponse struct {
	Code     string  `json:"code"`
	Name     *string `json:"name"`
	Full     string  `json:"full,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
}

func NewAirportHandler(service search.SearchUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	router.GET("/:code", h.get)
}

// get answers the form's airport hint; unknown codes keep a null name.
func (h *AirportHandler) get(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	airport, err := h.service.Airport(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, search.ErrNotFound) {
			c.JSON(http.StatusNotFound, airportResponse{Code: code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	name := airport.DisplayName()
	c.JSON(http.StatusOK, airportResponse{
		Code:     airport.Code,
		Name:     &name,
		Full:     airport.Name,
		Timezone: airport.Timezone,
	})
}
