// Package daemon serves the users API: cookie sessions for operators and
// CRUD over the user accounts held by the repository.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/common"
	"github.com/usersadmin/usersadmin/internal/config"
	"github.com/usersadmin/usersadmin/internal/models"
)

const (
	SessionCookieName = "usersadmin_session"
	APIBasePath       = "/api/v1"
)

// UserRepository is the storage the server needs.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user models.NewUser) (*models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) error
	Delete(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (*models.Identity, error)
}

// Server represents the users API service
type Server struct {
	Config        *config.Config
	Users         UserRepository
	StartTime     time.Time
	TotalRequests int64

	secret  string
	limiter *RateLimiter
	engine  *gin.Engine
	server  *http.Server
}

func NewServer(cfg *config.Config, users UserRepository) *Server {

	secret := cfg.Server.Secret
	if common.IsDefaultSecret(secret) {
		generated, err := common.GenerateSecureRandomString(48)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to generate session secret")
		}
		logrus.Warnln("No server secret configured, sessions will not survive a restart")
		secret = generated
	}

	server := &Server{
		Config:    cfg,
		Users:     users,
		StartTime: time.Now().UTC(),
		secret:    secret,
		limiter: NewRateLimiter(
			cfg.Server.Limits.LoginPerSecond,
			cfg.Server.Limits.LoginBurst,
		),
	}

	server.engine = server.newEngine()

	return server
}

func (s *Server) GetVersion() string {
	return common.GetVersion()
}

// Handler exposes the routed engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) newEngine() *gin.Engine {

	router := gin.New()

	router.Use(CorrelationMiddleware())
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(
		func(c *gin.Context, recovered any) {

			requestLog(c).WithField("panic", recovered).Error("Recovered from panic")

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "internal server error",
			})
		},
	))
	router.Use(s.requestCounterMiddleware())

	allowedOrigins := common.FilterEmpty(s.Config.Server.Security.CORS.AllowedOrigins...)

	logrus.WithFields(logrus.Fields{
		"allowedOrigins": allowedOrigins,
	}).Debugln("CORS configuration")

	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPatch,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowHeaders: []string{
				"Origin",
				"Content-Length",
				"Content-Type",
				"Accept",
				"X-Requested-With",
				correlationHeader,
			},
			ExposeHeaders:    []string{correlationHeader},
			AllowCredentials: true,
			MaxAge:           s.Config.Server.Security.CORS.MaxAge,
		}))
	}

	router.Use(sessions.Sessions(
		SessionCookieName,
		getSessionStore(s.secret, s.Config.Server.Secure),
	))

	s.setupRoutes(router)

	return router
}

// setupRoutes configures all the HTTP routes
func (s *Server) setupRoutes(router *gin.Engine) {

	router.GET("/health", s.healthHandler)

	api := router.Group(APIBasePath)
	{
		auth := api.Group("/auth")
		auth.POST("/login", s.limiter.Middleware(), s.postLogin)
		auth.POST("/logout", s.postLogout)
		auth.GET("/me", s.requireSession(), s.getMe)

		users := api.Group("/users", s.requireSession())
		users.GET("", s.listUsers)
		users.POST("", s.createUser)
		users.GET("/:id", s.getUser)
		users.PATCH("/:id", s.patchUser)
		users.DELETE("/:id", s.deleteUser)
	}
}

// Start listens on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {

	addr := s.Config.Server.Address()

	server := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.Config.Server.Limits.ReadTimeout,
		WriteTimeout: s.Config.Server.Limits.WriteTimeout,
		IdleTimeout:  s.Config.Server.Limits.IdleTimeout,
	}
	s.server = server

	errChan := make(chan error, 1)

	go func() {
		logrus.WithField("address", addr).Infoln("Users API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.Stop()
		return nil
	}
}

func (s *Server) Stop() {

	s.limiter.Stop()

	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warnln("Server shutdown")
	}
	logrus.Infoln("Server exiting")
}

// requestCounterMiddleware increments the request counter
func (s *Server) requestCounterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		atomic.AddInt64(&s.TotalRequests, 1)
		c.Next()
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  s.GetVersion(),
		"uptime":   common.FormatDurationRemaining(time.Since(s.StartTime).Round(time.Second)),
		"requests": atomic.LoadInt64(&s.TotalRequests),
	})
}

func getSessionStore(secret string, secure bool) sessions.Store {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// respondError writes the {"message": ...} error body the client reads.
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
