package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every portal route onto a fresh gin engine.
func NewRouter(h *Handler) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(RequestID(), Recovery(h.Log), Logger(h.Log))
	if h.Metrics != nil {
		r.Use(Metrics(h.Metrics))
	}
	r.SetHTMLTemplate(tmpl)

	// Public pages
	r.GET("/", h.Landing)
	r.POST("/waitlist", h.JoinWaitlist)
	r.GET("/privacy", h.Privacy)
	r.GET("/analytics", h.Analytics)
	r.GET("/portal", h.Portal)

	// Session
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	// Member pages
	member := r.Group("", RequireSession())
	{
		member.GET("/dashboard", h.Dashboard)
		member.GET("/settings", h.Settings)
		member.GET("/memories", h.Memories)
	}

	draft := member.Group("/memories/new")
	{
		draft.GET("", h.NewMemory)
		draft.POST("", h.CreateMemory)
		draft.POST("/tags", h.AddTag)
		draft.POST("/tags/remove", h.RemoveTag)
	}

	admin := member.Group("/admin")
	{
		admin.GET("", h.Admin)
		admin.POST("/users/:id/delete", h.DeleteUser)
		admin.POST("/users/:id/role", h.UpdateRole)
	}

	r.GET("/healthz", h.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}
	r.NoRoute(h.NotFound)

	return r, nil
}
