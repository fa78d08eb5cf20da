package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"blog_app/internal/models"
	"blog_app/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (h *Handler) login(c *gin.Context) {
	var input credentialsForm
	if msg, ok := bindForm(c, &input); !ok {
		h.redirectWithFlash(c, "/login", msg)
		return
	}

	u, err := h.services.Authorization.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("auth_login_failed", "username", input.Username)
			}
			h.redirectWithFlash(c, "/login", msgInvalidCredentials)
			return
		}
		h.serverError(c, "auth_login_error", err, "username", input.Username)
		return
	}

	if err := h.sessions.Issue(c.Writer, u); err != nil {
		h.serverError(c, "session_issue_failed", err, "user_id", u.ID)
		return
	}
	h.redirectWithFlash(c, "/", msgLoggedIn)
}

func (h *Handler) register(c *gin.Context) {
	var input credentialsForm
	if msg, ok := bindForm(c, &input); !ok {
		h.redirectWithFlash(c, "/register", msg)
		return
	}

	id, err := h.services.Authorization.Register(c.Request.Context(), input.Username, input.Password)
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		h.redirectWithFlash(c, "/register", msgUsernameTaken)
		return
	case errors.Is(err, service.ErrEmptyPassword):
		h.redirectWithFlash(c, "/register", "Password cannot be blank")
		return
	case err != nil:
		h.serverError(c, "auth_register_error", err, "username", input.Username)
		return
	}

	if h.log != nil {
		h.log.Infow("auth_registered", "user_id", id)
	}
	h.redirectWithFlash(c, "/login", msgRegistered)
}

func (h *Handler) logout(c *gin.Context) {
	u := currentUser(c)
	h.services.ActivityLog.Record(c.Request.Context(), models.EventLogout, u.ID, fmt.Sprintf("user %s logged out", u.Username), nil)
	h.sessions.Revoke(c.Writer)
	h.redirectWithFlash(c, "/login", msgLoggedOut)
}
