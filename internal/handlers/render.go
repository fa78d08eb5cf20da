package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

// User-facing messages.
const (
	msgInvalidCredentials = "Invalid username or password"
	msgLoggedIn           = "Logged in successfully!"
	msgUsernameTaken      = "Username already taken"
	msgRegistered         = "Registration successful. Please log in."
	msgLoggedOut          = "Logged out successfully."
	msgPostCreated        = "Post created successfully!"
	msgPostUpdated        = "Post updated successfully!"
	msgPostDeleted        = "Post deleted successfully!"
	msgPostNotFound       = "Post not found"
	msgPostNotOwned       = "Post not found or unauthorized"
	msgPageNotFound       = "Page not found"
	msgSlugConflict       = "Could not save the post, please try again"
	msgServerError        = "Something went wrong"
	msgInvalidForm        = "Invalid form submission"

	errNotAuthenticated = "not authenticated"
	errInternal         = "internal error"
)

const excerptLen = 160

// render executes a page template, adding the pending flash and current user.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if msg, ok := h.flashes.Get(c.Request); ok {
		data["Flash"] = msg
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	c.HTML(status, name, data)
}

// redirectWithFlash sets msg as the flash and answers 303 to location.
func (h *Handler) redirectWithFlash(c *gin.Context, location, msg string) {
	if err := h.flashes.Set(c.Writer, msg); err != nil && h.log != nil {
		h.log.Errorw("flash_set_failed", "err", err)
	}
	c.Redirect(http.StatusSeeOther, location)
}

func (h *Handler) notFound(c *gin.Context, msg string) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{"Title": "Not found", "Message": msg})
}

func (h *Handler) serverError(c *gin.Context, logKey string, err error, kv ...any) {
	if h.log != nil && err != nil {
		fields := append([]any{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Error", "Message": msgServerError})
}

// Centralized error logging and JSON response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...any) {
	if h.log != nil && err != nil {
		fields := append([]any{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// excerpt shortens s to at most excerptLen runes for list views.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= excerptLen {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:excerptLen])) + "…"
}
