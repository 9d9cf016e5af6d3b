package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Rakshi2609/Dr-Help-2/internal/auth"
	"github.com/Rakshi2609/Dr-Help-2/internal/cache"
	"github.com/Rakshi2609/Dr-Help-2/internal/middleware"
	"github.com/Rakshi2609/Dr-Help-2/internal/models"
	"github.com/Rakshi2609/Dr-Help-2/internal/store"
)

// Handlers carries the dependencies every endpoint needs.
type Handlers struct {
	store    *store.Store
	tokens   *auth.TokenService
	profiles *cache.ProfileCache
	limiter  *auth.LoginLimiter
}

func New(s *store.Store, tokens *auth.TokenService, profiles *cache.ProfileCache, limiter *auth.LoginLimiter) *Handlers {
	return &Handlers{
		store:    s,
		tokens:   tokens,
		profiles: profiles,
		limiter:  limiter,
	}
}

// NewRouter wires every route with its auth and role requirements.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "x-auth-token", "Cache-Control", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := middleware.RequireAuth(h.tokens)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/user", authed, h.GetUser)
		authGroup.PUT("/update-profile", authed, h.UpdateProfile)
	}

	doctorGroup := router.Group("/doctors", authed, middleware.RequireRole(models.RoleDoctor))
	{
		doctorGroup.GET("/me", h.GetDoctorMe)
		doctorGroup.GET("/patients", h.ListDoctorPatients)
		doctorGroup.GET("/patients/:id", h.GetDoctorPatient)
	}

	patientGroup := router.Group("/patients", authed, middleware.RequireRole(models.RolePatient))
	{
		patientGroup.GET("/me", h.GetPatientMe)
		patientGroup.POST("/pain-scores", h.AddPainScore)
		patientGroup.POST("/temperature", h.AddTemperature)
		patientGroup.POST("/vitals", h.AddVitals)
		patientGroup.GET("/alerts", h.ListAlerts)
		patientGroup.GET("/history", h.GetHistory)
		patientGroup.PUT("/alerts/:id", h.MarkAlertRead)
	}

	return router
}
