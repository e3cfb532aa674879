// Package server exposes the ledger over HTTP with gin.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitledger/internal/auth"
	"splitledger/internal/middleware"
	"splitledger/internal/service"
)

// Server wires the services into an HTTP router.
type Server struct {
	auth    *service.AuthService
	groups  *service.GroupService
	ledgers *service.LedgerService
	jwt     *auth.JWTManager
}

// New creates a server over the given services.
func New(authSvc *service.AuthService, groupSvc *service.GroupService, ledgerSvc *service.LedgerService, jwtManager *auth.JWTManager) *Server {
	return &Server{
		auth:    authSvc,
		groups:  groupSvc,
		ledgers: ledgerSvc,
		jwt:     jwtManager,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", s.register)
		authRoutes.POST("/login", s.login)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(s.jwt))
	{
		api.POST("/groups", s.createGroup)
		api.GET("/groups", s.listGroups)
		api.GET("/groups/:id", s.getGroup)
		api.POST("/groups/:id/members", s.addMember)

		api.POST("/groups/:id/invitations", s.invite)
		api.GET("/groups/:id/invitations", s.listInvitations)
		api.POST("/invitations/:id/respond", s.respondInvitation)

		api.POST("/groups/:id/bills", s.createBill)
		api.GET("/groups/:id/bills", s.listBills)
		api.GET("/bills/:id", s.getBill)
		api.GET("/bills/:id/payments", s.listPayments)
		api.POST("/bills/:id/payments", s.recordPayment)
		api.GET("/bills/:id/settlements", s.listSettlements)
		api.POST("/bills/:id/settlements", s.recordSettlement)
		api.POST("/settlements/:id/accept", s.acceptSettlement)

		api.GET("/groups/:id/balances", s.groupBalances)
	}

	return r
}
