package daemon

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usersadmin/usersadmin/internal/forms"
	"github.com/usersadmin/usersadmin/internal/models"
	"github.com/usersadmin/usersadmin/internal/repository"
	"github.com/usersadmin/usersadmin/internal/search"
)

func (s *Server) listUsers(c *gin.Context) {

	var req search.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid search parameters")
		return
	}

	users, err := s.Users.List(c.Request.Context())
	if err != nil {
		requestLog(c).WithError(err).Error("Failed to list users")
		respondError(c, http.StatusInternalServerError, "failed to load users")
		return
	}

	users, err = search.Users(c.Request.Context(), users, req)
	if err != nil {
		requestLog(c).WithError(err).Error("Failed to search users")
		respondError(c, http.StatusInternalServerError, "failed to search users")
		return
	}

	c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c *gin.Context) {

	user, err := s.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondRepositoryError(c, err, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) createUser(c *gin.Context) {

	var user models.NewUser
	if err := c.ShouldBindJSON(&user); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := forms.CreateUserSchema().Validate(forms.NewUserValues(user)).Err(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.Users.Create(c.Request.Context(), user)
	if err != nil {
		s.respondRepositoryError(c, err, "failed to create user")
		return
	}

	requestLog(c).WithField("id", created.ID).Infoln("User created")

	c.Status(http.StatusCreated)
}

func (s *Server) patchUser(c *gin.Context) {

	id := c.Param("id")

	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if patch.Employment != nil && !patch.Employment.IsValid() {
		respondError(c, http.StatusBadRequest, "employment: invalid value")
		return
	}

	values := map[string]string{
		forms.FieldName:      patch.Name,
		forms.FieldSurName:   patch.SurName,
		forms.FieldFullName:  patch.FullName,
		forms.FieldTelephone: patch.Telephone,
	}
	if err := forms.EditUserSchema().Validate(values).Err(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.Users.Update(c.Request.Context(), id, patch); err != nil {
		s.respondRepositoryError(c, err, "failed to save")
		return
	}

	requestLog(c).WithField("id", id).Infoln("User updated")

	c.JSON(http.StatusOK, models.UpdatedUser{ID: id})
}

func (s *Server) deleteUser(c *gin.Context) {

	id := c.Param("id")

	if identity := getIdentity(c); identity != nil && identity.ID == id {
		respondError(c, http.StatusForbidden, "cannot delete yourself")
		return
	}

	if err := s.Users.Delete(c.Request.Context(), id); err != nil {
		s.respondRepositoryError(c, err, "failed to delete")
		return
	}

	requestLog(c).WithField("id", id).Infoln("User deleted")

	c.Status(http.StatusNoContent)
}

func (s *Server) respondRepositoryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrEmailTaken):
		respondError(c, http.StatusConflict, err.Error())
	default:
		requestLog(c).WithError(err).Error(fallback)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
