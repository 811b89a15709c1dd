package controllers

import (
	"github.com/gin-gonic/gin"

	"gynergy/internal/services"
	"gynergy/pkg/utils"
)

type ContentController struct {
	contentService services.ContentServiceInterface
}

func NewContentController(contentService services.ContentServiceInterface) *ContentController {
	return &ContentController{contentService: contentService}
}

// Quote godoc
// @Summary Quote of the day
// @Tags Daily
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/daily/quote [get]
func (d *ContentController) Quote(c *gin.Context) {
	quote, err := d.contentService.QuoteOfTheDay(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, quote, "")
}

// Action godoc
// @Summary Action of the day
// @Tags Daily
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/daily/action [get]
func (d *ContentController) Action(c *gin.Context) {
	action, err := d.contentService.ActionOfTheDay(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, action, "")
}
