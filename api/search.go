package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/roundtrip/internal/service/search"
	"github.com/Domenick1991/roundtrip/internal/window"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchUseCase
}

// searchForm mirrors the HTML search form field names.
type searchForm struct {
	Origin        string `form:"origin"`
	Dest          string `form:"dest"`
	OutAfterDate  string `form:"out_after_date"`
	OutAfterTime  string `form:"out_after_time"`
	OutBeforeDate string `form:"out_before_date"`
	OutBeforeTime string `form:"out_before_time"`
	RetAfterDate  string `form:"ret_after_date"`
	RetAfterTime  string `form:"ret_after_time"`
	RetBeforeDate string `form:"ret_before_date"`
	RetBeforeTime string `form:"ret_before_time"`
}

func (f searchForm) input() search.SearchInput {
	return search.SearchInput{
		Origin:      f.Origin,
		Destination: f.Dest,
		Outbound: window.Input{
			After:  window.Bound{Date: f.OutAfterDate, Time: f.OutAfterTime},
			Before: window.Bound{Date: f.OutBeforeDate, Time: f.OutBeforeTime},
		},
		Return: window.Input{
			After:  window.Bound{Date: f.RetAfterDate, Time: f.RetAfterTime},
			Before: window.Bound{Date: f.RetBeforeDate, Time: f.RetBeforeTime},
		},
	}
}

func NewSearchHandler(service search.SearchUseCase) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.GET("/:id/itineraries/:idx", h.itinerary)
	router.GET("/:id/timeline", h.timeline)
}

func (h *SearchHandler) create(c *gin.Context) {
	var input search.SearchInput
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		var form searchForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input = form.input()
	default:
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Empty {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SearchHandler) get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SearchHandler) itinerary(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary index"})
		return
	}
	it, err := h.service.Itinerary(c.Request.Context(), c.Param("id"), idx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *SearchHandler) timeline(c *gin.Context) {
	view, err := h.service.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func writeError(c *gin.Context, err error) {
	var qerr *search.QueryError
	switch {
	case errors.Is(err, search.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, search.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &qerr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     err.Error(),
			"direction": qerr.Direction,
			"date":      qerr.Date,
			"outbound":  qerr.Outbound,
			"return":    qerr.Return,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
