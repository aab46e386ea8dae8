package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/analysis"
	"casefile-backend/internal/bills"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/services/health"
	"casefile-backend/internal/shared/config"
	"casefile-backend/internal/shared/metrics"
	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
	"casefile-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	CasesHandler    *cases.Handler
	DocumentHandler *documents.Handler
	BillsHandler    *bills.Handler
	AnalysisHandler *analysis.Handler
	UsersHandler    *users.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				// Routes that call an LLM are far more expensive than CRUD.
				aiRateGroup: {Rate: 0.5, Burst: 5},
			},
			GroupFor: aiRouteGroup,
		}),
		ensureIdentity(deps.UsersHandler.Svc),
	)

	healthSvc := health.NewService()
	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/metrics", metrics.Handler())

	deps.UsersHandler.RegisterRoutes(api)
	deps.CasesHandler.RegisterRoutes(api)
	deps.DocumentHandler.RegisterRoutes(api)
	deps.BillsHandler.RegisterRoutes(api)
	deps.AnalysisHandler.RegisterRoutes(api)

	return r
}

// ensureIdentity upserts the caller's user row before any write so
// rows that reference users(id) never hit a missing parent. Reads skip
// the upsert.
func ensureIdentity(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		userID := middleware.UserIDFromContext(c)
		if userID == "" {
			c.Next()
			return
		}
		err := svc.EnsureUser(c.Request.Context(), users.User{
			ID:    userID,
			Email: middleware.UserEmailFromContext(c),
		})
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve identity", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

const aiRateGroup = "AI"

func aiRouteGroup(c *gin.Context) string {
	p := c.Request.URL.Path
	switch {
	case strings.HasSuffix(p, "/analyze"),
		strings.HasSuffix(p, "/extract-bills"),
		strings.HasSuffix(p, "/generate-letter"),
		strings.HasSuffix(p, "/chat"):
		return aiRateGroup
	default:
		return ""
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
