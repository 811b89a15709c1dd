package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gynergy/internal/api/controllers"
	"gynergy/pkg/metrics"
	"gynergy/pkg/middleware"
	"gynergy/pkg/utils"
)

type Controllers struct {
	Account     *controllers.AccountController
	Journal     *controllers.JournalController
	Leaderboard *controllers.LeaderboardController
	Profile     *controllers.ProfileController
	Content     *controllers.ContentController
}

// Guards are the per-route middleware. Auth must reject before any handler
// runs; the limiters expect Auth to have run first.
type Guards struct {
	Auth         gin.HandlerFunc
	Public       gin.HandlerFunc
	UploadLimit  gin.HandlerFunc
	ProfileLimit gin.HandlerFunc
}

// NewEngine builds the router with the global middleware chain.
func NewEngine(log *zap.Logger, allowedOrigins ...string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(allowedOrigins...))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/health", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
	})
	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, "Not found")
	})
	return r
}

func RegisterRoutes(r *gin.Engine, ctl Controllers, g Guards) {
	auth := r.Group("/api/auth")
	auth.POST("", g.Public, ctl.Account.RequestSignIn)
	auth.GET("/callback", g.Public, ctl.Account.Callback)
	auth.POST("/verify-otp", g.Public, ctl.Account.VerifyOtp)
	auth.POST("/register", g.Public, ctl.Account.Register)
	auth.POST("/login", g.Public, ctl.Account.Login)
	auth.POST("/logout", ctl.Account.Logout)

	journal := r.Group("/api/journal", g.Auth)
	journal.POST("/save", ctl.Journal.Save)
	journal.GET("/today", ctl.Journal.Today)
	journal.POST("/upload", g.UploadLimit, ctl.Journal.Upload)

	history := r.Group("/api/history", g.Auth)
	history.GET("", ctl.Journal.History)
	history.GET("/calendar", ctl.Journal.Calendar)

	board := r.Group("/api/leaderboard", g.Public)
	board.GET("/streaks", ctl.Leaderboard.Streaks)
	board.GET("/points", ctl.Leaderboard.Points)

	user := r.Group("/api/user", g.Auth)
	user.GET("/profile", ctl.Profile.GetProfile)
	user.PUT("/profile", g.ProfileLimit, ctl.Profile.UpdateProfile)
	user.GET("/progress", ctl.Profile.Progress)

	daily := r.Group("/api/daily")
	daily.GET("/quote", ctl.Content.Quote)
	daily.GET("/action", ctl.Content.Action)
}
