package api

import (
	"net/http"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything SetupRoutes wires into handlers.
type Services struct {
	Auth     service.AuthService
	Exercise service.ExerciseService
	Catalog  service.CatalogService
	Trainer  service.TrainerService
	Athlete  service.AthleteService
	Ads      service.AdsService
	Partner  service.PartnerService
	Social   service.SocialService
	Feedback service.FeedbackService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	exerciseHandler := NewExerciseHandler(svc.Exercise)
	programHandler := NewProgramHandler(svc.Catalog)
	trainerHandler := NewTrainerHandler(svc.Trainer)
	athleteHandler := NewAthleteHandler(svc.Athlete)
	adsHandler := NewAdsHandler(svc.Ads)
	partnerHandler := NewPartnerHandler(svc.Partner, svc.Ads)
	adminHandler := NewAdminHandler(svc.Partner, svc.Ads, svc.Feedback)
	socialHandler := NewSocialHandler(svc.Social, svc.Feedback)

	authMiddleware := AuthMiddleware(jwtSecret)
	partnerAuth := PartnerAuthMiddleware(svc.Partner)

	router.Use(MetricsMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Ad delivery is public: anonymous users still see ads. A bearer
		// token, when present, identifies the user for targeting.
		adsGroup := apiV1.Group("/ads")
		adsGroup.Use(OptionalAuthMiddleware(jwtSecret))
		{
			adsGroup.GET("/select", adsHandler.SelectAd)
			adsGroup.POST("/:creativeId/click", adsHandler.RecordClick)
		}

		// Partnership inquiries are public by nature.
		apiV1.POST("/partners/leads", partnerHandler.SubmitLead)

		// Partner integration surface, authenticated by API key.
		integrationGroup := apiV1.Group("/integration")
		integrationGroup.Use(partnerAuth)
		{
			integrationGroup.POST("/campaigns", partnerHandler.CreateCampaign)
			integrationGroup.GET("/campaigns", partnerHandler.ListCampaigns)
			for _, action := range []string{"activate", "pause", "resume", "complete", "archive"} {
				integrationGroup.POST("/campaigns/:id/"+action, partnerHandler.TransitionCampaign(action))
			}
			integrationGroup.POST("/campaigns/:id/asset-upload-url", partnerHandler.GetCreativeUploadURL)
			integrationGroup.POST("/creatives", partnerHandler.AddCreative)
			integrationGroup.POST("/gyms", partnerHandler.RegisterGym)
			integrationGroup.GET("/gyms", partnerHandler.ListGyms)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})
		protected.POST("/me/devices", authHandler.RegisterDevice)

		// --- Exercise Catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.GET("/:id/media", exerciseHandler.GetMediaDownloadURL)
			exerciseGroup.POST("", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), exerciseHandler.UpdateExercise)
			exerciseGroup.POST("/:id/media-upload-url", RoleMiddleware(domain.RoleTrainer), exerciseHandler.GetMediaUploadURL)
		}

		// --- Program Catalog ---
		programGroup := protected.Group("/programs")
		{
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/:id", programHandler.GetProgram)
		}

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/clients", trainerHandler.AddClientByEmail)
			trainerGroup.GET("/clients", trainerHandler.GetManagedClients)
			trainerGroup.POST("/clients/:athleteId/sessions", trainerHandler.CreateSession)
			trainerGroup.POST("/clients/:athleteId/programs/:programId/clone", trainerHandler.CloneProgram)
			trainerGroup.POST("/programs", programHandler.IngestTemplate)
			trainerGroup.DELETE("/programs/:id", programHandler.DeactivateProgram)
		}

		// --- Athlete Routes ---
		athleteGroup := protected.Group("/athlete")
		athleteGroup.Use(RoleMiddleware(domain.RoleAthlete))
		{
			athleteGroup.POST("/programs/:programId/subscribe", athleteHandler.Subscribe)
			athleteGroup.GET("/subscriptions", athleteHandler.ListSubscriptions)
			athleteGroup.POST("/subscriptions/:id/advance", athleteHandler.AdvanceSubscription)
			athleteGroup.GET("/sessions", athleteHandler.ListSessions)
			athleteGroup.GET("/sessions/:id", athleteHandler.GetSession)
			athleteGroup.POST("/sessions/:id/log", athleteHandler.LogSet)
			athleteGroup.POST("/sessions/:id/complete", athleteHandler.CompleteSession)
		}

		// --- Social & Feedback ---
		socialGroup := protected.Group("/social")
		{
			socialGroup.GET("/connections", socialHandler.ListConnections)
			socialGroup.POST("/connections", socialHandler.Connect)
			socialGroup.DELETE("/connections/:platform", socialHandler.Disconnect)
			socialGroup.POST("/share", socialHandler.Share)
		}
		protected.POST("/feedback", socialHandler.SubmitFeedback)

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/leads", adminHandler.ListPendingLeads)
			adminGroup.POST("/leads/:id/review", adminHandler.ReviewLead)
			adminGroup.POST("/partners/:id/api-key", adminHandler.IssueAPIKey)
			adminGroup.GET("/creatives/pending", adminHandler.ListPendingCreatives)
			adminGroup.POST("/creatives/:id/review", adminHandler.ReviewCreative)
			adminGroup.GET("/feedback", adminHandler.ListFeedback)
			adminGroup.GET("/dashboard", adminHandler.DashboardStats)
		}
	}
}
