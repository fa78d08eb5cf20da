package handlers

import (
	"errors"
	"net/http"

	"blog_app/internal/models"
	"blog_app/internal/session"

	"github.com/gin-gonic/gin"
)

const userCtxKey = "user"

// requireUser guards HTML routes: anonymous visitors are sent to /login.
func (h *Handler) requireUser(c *gin.Context) {
	u, err := h.sessions.RequireUser(c.Request)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		h.serverError(c, "session_lookup_failed", err)
		c.Abort()
		return
	}

	c.Set(userCtxKey, u)
	c.Next()
}

// apiUser guards JSON routes and answers 401 instead of redirecting.
func (h *Handler) apiUser(c *gin.Context) {
	u, err := h.sessions.RequireUser(c.Request)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "session_lookup_failed", err)
		c.Abort()
		return
	}

	c.Set(userCtxKey, u)
	c.Next()
}

// currentUser returns the user stored by requireUser or apiUser.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
