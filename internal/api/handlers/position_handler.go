package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/offerready/interviewai/internal/services"
	"github.com/offerready/interviewai/internal/utils"
)

type PositionHandler struct {
	positions services.PositionService
}

func NewPositionHandler(positions services.PositionService) *PositionHandler {
	return &PositionHandler{positions: positions}
}

func (h *PositionHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.positions.Categories()})
}

func (h *PositionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	info, ok := h.positions.FindByID(id)
	if !ok {
		writeError(c, utils.E(utils.CodeNotFound, "PositionHandler.Get", "position not found", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"position":  info,
		"full_name": h.positions.FullName(id),
		"keywords":  h.positions.Keywords(id),
	})
}

func (h *PositionHandler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PositionHandler.Search", "keyword is required", nil))
		return
	}
	results := h.positions.Search(keyword)
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
