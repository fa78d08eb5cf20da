package handlers

import (
	"errors"
	"net/http"

	"blog_app/internal/models"
	"blog_app/internal/service"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// UserOut is the public view of an account.
type UserOut struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
}

// PostOut is the public view of a post.
type PostOut struct {
	ID            int64  `json:"id" example:"3"`
	Title         string `json:"title" example:"My First Post"`
	Content       string `json:"content" example:"Hello there"`
	Slug          string `json:"slug" example:"my-first-post"`
	OwnerID       int64  `json:"owner_id" example:"1"`
	OwnerUsername string `json:"owner_username,omitempty" example:"alice"`
}

func toPostOut(p models.Post) PostOut {
	return PostOut{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		Slug:          p.Slug,
		OwnerID:       p.OwnerID,
		OwnerUsername: p.OwnerUsername,
	}
}

func toPostsOut(posts []models.Post) []PostOut {
	out := make([]PostOut, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostOut(p))
	}
	return out
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  UserOut
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     CookieAuth
func (h *Handler) apiMe(c *gin.Context) {
	u := currentUser(c)
	c.JSON(http.StatusOK, UserOut{ID: u.ID, Username: u.Username})
}

// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, posts"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/posts [get]
// @Security     CookieAuth
func (h *Handler) apiListPosts(c *gin.Context) {
	posts, err := h.services.Posts.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load posts", "api_posts_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(posts),
		"posts": toPostsOut(posts),
	})
}

// @Summary      Get post by slug
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"  example(my-first-post)
// @Success      200   {object}  PostOut
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/posts/{slug} [get]
// @Security     CookieAuth
func (h *Handler) apiGetPost(c *gin.Context) {
	p, err := h.services.Posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load post", "api_post_get_failed", err, "slug", c.Param("slug"))
		return
	}
	c.JSON(http.StatusOK, toPostOut(*p))
}
