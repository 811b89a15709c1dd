package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gynergy/internal/models/request_models"
	"gynergy/internal/services"
	"gynergy/pkg/middleware"
	"gynergy/pkg/utils"
)

type ProfileController struct {
	profileService services.ProfileServiceInterface
}

func NewProfileController(profileService services.ProfileServiceInterface) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags User
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/user/profile [get]
func (p *ProfileController) GetProfile(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	profile, err := p.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "")
}

// UpdateProfile godoc
// @Summary Update name, email or profile picture
// @Tags User
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/user/profile [put]
func (p *ProfileController) UpdateProfile(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	profile, err := p.profileService.Update(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Profile updated")
}

// Progress godoc
// @Summary Points, streak and milestone progress
// @Tags User
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/user/progress [get]
func (p *ProfileController) Progress(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	progress, err := p.profileService.Progress(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, progress, "")
}
