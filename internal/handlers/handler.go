package handlers

import (
	"embed"
	"html/template"
	"time"

	"blog_app/internal/flash"
	"blog_app/internal/logger"
	"blog_app/internal/service"
	"blog_app/internal/session"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler wires HTTP layer to services, cookies and logging.
type Handler struct {
	services *service.Service
	sessions *session.Manager
	flashes  *flash.Messenger
	log      *logger.Logger

	feedInterval time.Duration
}

// NewHandler constructs a new HTTP handler with dependencies. log may be nil.
func NewHandler(services *service.Service, sessions *session.Manager, flashes *flash.Messenger, log *logger.Logger) *Handler {
	return &Handler{
		services:     services,
		sessions:     sessions,
		flashes:      flashes,
		log:          log,
		feedInterval: defaultInterval,
	}
}

// WithFeedInterval sets the default live feed tick used when the client passes none.
func (h *Handler) WithFeedInterval(d time.Duration) *Handler {
	if d > 0 && d <= maxInterval {
		h.feedInterval = d
	}
	return h
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"excerpt": excerpt,
	}).ParseFS(templateFS, "templates/*.html"))
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	if h.log != nil {
		router.Use(logger.GinMiddleware(h.log))
	}
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(parseTemplates())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerPostRoutes(router)
	h.registerAPIRoutes(router)

	router.GET("/ws/feed", h.apiUser, h.feedConnect)

	router.NoRoute(func(c *gin.Context) { h.notFound(c, msgPageNotFound) })

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/register", h.registerPage)
	r.POST("/register", h.register)
	r.POST("/logout", h.requireUser, h.logout)
}

func (h *Handler) registerPostRoutes(r *gin.Engine) {
	r.GET("/", h.requireUser, h.listPosts)

	posts := r.Group("/post", h.requireUser)
	{
		posts.GET("/create", h.createPostPage)
		posts.POST("/create", h.createPost)
		posts.GET("/:slug", h.showPost)
		posts.GET("/:slug/edit", h.editPostPage)
		posts.POST("/:slug/edit", h.editPost)
		posts.POST("/:slug/delete", h.deletePost)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.apiUser)
	{
		api.GET("/me", h.apiMe)
		api.GET("/posts", h.apiListPosts)
		api.GET("/posts/:slug", h.apiGetPost)
		api.GET("/activity", h.getActivity)
	}
}
