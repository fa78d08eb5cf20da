package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"blog_app/internal/models"
	"blog_app/internal/service"

	"github.com/gin-gonic/gin"
)

func postURL(slug string) string {
	return "/post/" + url.PathEscape(slug)
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.services.Posts.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "posts_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Title": "Posts", "Posts": posts})
}

func (h *Handler) createPostPage(c *gin.Context) {
	h.render(c, http.StatusOK, "post_form.html", gin.H{
		"Title":  "New post",
		"Action": "/post/create",
		"Form":   postForm{},
	})
}

func (h *Handler) createPost(c *gin.Context) {
	var input postForm
	if msg, ok := bindForm(c, &input); !ok {
		h.redirectWithFlash(c, "/post/create", msg)
		return
	}

	u := currentUser(c)
	p, err := h.services.Posts.Create(c.Request.Context(), input.Title, input.Content, u.ID)
	if err != nil {
		if errors.Is(err, service.ErrSlugConflict) {
			h.redirectWithFlash(c, "/post/create", msgSlugConflict)
			return
		}
		h.serverError(c, "post_create_failed", err, "user_id", u.ID)
		return
	}

	if h.log != nil {
		h.log.Infow("post_created", "slug", p.Slug, "user_id", u.ID)
	}
	h.redirectWithFlash(c, postURL(p.Slug), msgPostCreated)
}

func (h *Handler) showPost(c *gin.Context) {
	p, err := h.services.Posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.notFound(c, msgPostNotFound)
			return
		}
		h.serverError(c, "post_get_failed", err, "slug", c.Param("slug"))
		return
	}
	h.render(c, http.StatusOK, "post_detail.html", gin.H{
		"Title":   p.Title,
		"Post":    p,
		"IsOwner": p.IsOwnedBy(currentUser(c)),
	})
}

// ownedPost loads the post named in the path and checks the current user owns
// it. Unknown and foreign posts both answer 404.
func (h *Handler) ownedPost(c *gin.Context) (*models.Post, bool) {
	slug := c.Param("slug")
	p, err := h.services.Posts.GetBySlug(c.Request.Context(), slug)
	if err != nil && !errors.Is(err, service.ErrPostNotFound) {
		h.serverError(c, "post_get_failed", err, "slug", slug)
		return nil, false
	}
	if p == nil || !p.IsOwnedBy(currentUser(c)) {
		h.notFound(c, msgPostNotOwned)
		return nil, false
	}
	return p, true
}

func (h *Handler) editPostPage(c *gin.Context) {
	p, ok := h.ownedPost(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "post_form.html", gin.H{
		"Title":  "Edit post",
		"Action": postURL(p.Slug) + "/edit",
		"Form":   postForm{Title: p.Title, Content: p.Content},
		"Post":   p,
	})
}

func (h *Handler) editPost(c *gin.Context) {
	p, ok := h.ownedPost(c)
	if !ok {
		return
	}

	var input postForm
	if msg, ok := bindForm(c, &input); !ok {
		h.redirectWithFlash(c, postURL(p.Slug)+"/edit", msg)
		return
	}

	updated, err := h.services.Posts.Update(c.Request.Context(), p, input.Title, input.Content)
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		h.notFound(c, msgPostNotOwned)
		return
	case errors.Is(err, service.ErrSlugConflict):
		h.redirectWithFlash(c, postURL(p.Slug)+"/edit", msgSlugConflict)
		return
	case err != nil:
		h.serverError(c, "post_update_failed", err, "slug", p.Slug)
		return
	}

	if h.log != nil {
		h.log.Infow("post_updated", "slug", updated.Slug, "previous_slug", p.Slug)
	}
	h.redirectWithFlash(c, postURL(updated.Slug), msgPostUpdated)
}

func (h *Handler) deletePost(c *gin.Context) {
	p, ok := h.ownedPost(c)
	if !ok {
		return
	}

	if err := h.services.Posts.Delete(c.Request.Context(), p); err != nil {
		h.serverError(c, "post_delete_failed", err, "slug", p.Slug)
		return
	}

	if h.log != nil {
		h.log.Infow("post_deleted", "slug", p.Slug)
	}
	h.redirectWithFlash(c, "/", msgPostDeleted)
}
