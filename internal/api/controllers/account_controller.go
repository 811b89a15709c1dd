package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gynergy/internal/models/request_models"
	"gynergy/internal/services"
	"gynergy/pkg/middleware"
	"gynergy/pkg/utils"
)

// CookieConfig controls the session cookie handed to browser clients.
type CookieConfig struct {
	Secure bool
}

type AccountController struct {
	accountService services.AccountServiceInterface
	cookie         CookieConfig
}

func NewAccountController(accountService services.AccountServiceInterface, cookie CookieConfig) *AccountController {
	return &AccountController{
		accountService: accountService,
		cookie:         cookie,
	}
}

func (a *AccountController) respondSession(c *gin.Context, session *services.Session, message string) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.Token, maxAge, "/", "", a.cookie.Secure, true)
	utils.RespondSuccess(c, services.ToSessionResponse(session), message)
}

// RequestSignIn godoc
// @Summary Request a sign-in link
// @Description Creates the account on first use and emails a magic link and a one-time code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignInRequest true "Email address"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /api/auth [post]
func (a *AccountController) RequestSignIn(c *gin.Context) {
	var req request_models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid email address")
		return
	}

	if err := a.accountService.RequestSignIn(c.Request.Context(), req.Email); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Check your email to continue your journey.")
}

// Callback godoc
// @Summary Complete a magic-link sign in
// @Tags Auth
// @Produce json
// @Param token query string true "Magic-link token"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/callback [get]
func (a *AccountController) Callback(c *gin.Context) {
	session, err := a.accountService.CompleteMagicLink(c.Request.Context(), c.Query("token"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	a.respondSession(c, session, "Signed in")
}

// VerifyOtp godoc
// @Summary Sign in with a one-time code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.VerifyOtpRequest true "Email and 6-digit code"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/verify-otp [post]
func (a *AccountController) VerifyOtp(c *gin.Context) {
	var req request_models.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := a.accountService.VerifyOtp(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	a.respondSession(c, session, "Signed in")
}

// Register godoc
// @Summary Register with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	a.respondSession(c, session, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	a.respondSession(c, session, "Login successful")
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /api/auth/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", a.cookie.Secure, true)
	utils.RespondSuccess(c, nil, "Signed out")
}
