package daemon

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/models"
	"github.com/usersadmin/usersadmin/internal/repository"
)

const (
	sessionUserIDKey = "user_id"
	sessionEmailKey  = "email"

	// Context keys
	IdentityContextKey = "identity"
)

func (s *Server) postLogin(c *gin.Context) {

	var credentials models.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(credentials.Email) == 0 || len(credentials.Password) == 0 {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	identity, err := s.Users.Authenticate(c.Request.Context(), credentials.Email, credentials.Password)
	if errors.Is(err, repository.ErrInvalidCredentials) {

		requestLog(c).WithFields(logrus.Fields{
			"email": credentials.Email,
			"ip":    c.ClientIP(),
		}).Warnln("Failed login")

		respondError(c, http.StatusUnauthorized, err.Error())
		return
	} else if err != nil {
		requestLog(c).WithError(err).Error("Failed to authenticate")
		respondError(c, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, identity.ID)
	session.Set(sessionEmailKey, identity.Email)
	if err := session.Save(); err != nil {
		requestLog(c).WithError(err).Error("Failed to save session")
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	requestLog(c).WithFields(logrus.Fields{
		"id":    identity.ID,
		"email": identity.Email,
	}).Infoln("Operator logged in")

	c.Status(http.StatusNoContent)
}

func (s *Server) postLogout(c *gin.Context) {

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		requestLog(c).WithError(err).Warnln("Failed to clear session")
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) getMe(c *gin.Context) {
	c.JSON(http.StatusOK, getIdentity(c))
}

// requireSession rejects requests without a session for an account that
// still exists.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {

		session := sessions.Default(c)

		id, _ := session.Get(sessionUserIDKey).(string)
		if len(id) == 0 {
			respondError(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		user, err := s.Users.Get(c.Request.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			session.Clear()
			_ = session.Save()
			respondError(c, http.StatusUnauthorized, "not authenticated")
			return
		} else if err != nil {
			requestLog(c).WithError(err).Error("Failed to load session user")
			respondError(c, http.StatusInternalServerError, "failed to load session")
			return
		}

		c.Set(IdentityContextKey, &models.Identity{ID: user.ID, Email: user.Email})
		c.Next()
	}
}

func getIdentity(c *gin.Context) *models.Identity {
	value, ok := c.Get(IdentityContextKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*models.Identity)
	return identity
}
