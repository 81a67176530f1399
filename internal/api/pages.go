package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hargabyte/chaos-web/internal/arena"
	"github.com/hargabyte/chaos-web/internal/view"
)

// Dashboard shows the profile and memories. With a live view id the search
// runs against the stored snapshot and the API is not contacted.
func (h *Handler) Dashboard(c *gin.Context) {
	ctrl, owner := h.controller(c)
	query := c.Query("q")

	id := c.Query("view")
	d, err := arena.Load[view.Dashboard](h.Views, id, owner, pageDashboard)
	if err != nil {
		var eff view.Effect
		d, eff = ctrl.LoadDashboard(c.Request.Context())
		if h.follow(c, eff) {
			return
		}
		id = h.keep(owner, pageDashboard, d.State, d)
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":    "Dashboard",
		"View":     id,
		"Query":    query,
		"Page":     d,
		"Memories": d.Visible(query),
	})
}

// Memories lists every memory with a local search box.
func (h *Handler) Memories(c *gin.Context) {
	ctrl, owner := h.controller(c)
	query := c.Query("q")

	id := c.Query("view")
	m, err := arena.Load[view.MemoryList](h.Views, id, owner, pageMemories)
	if err != nil {
		var eff view.Effect
		m, eff = ctrl.LoadMemories(c.Request.Context())
		if h.follow(c, eff) {
			return
		}
		id = h.keep(owner, pageMemories, m.State, m)
	}

	c.HTML(http.StatusOK, "memories.html", gin.H{
		"Title":    "Memories",
		"View":     id,
		"Query":    query,
		"Page":     m,
		"Memories": m.Visible(query),
	})
}

// Settings shows the account details. It has no interactions of its own, so
// no snapshot is kept.
func (h *Handler) Settings(c *gin.Context) {
	ctrl, _ := h.controller(c)
	s, eff := ctrl.LoadSettings(c.Request.Context())
	if h.follow(c, eff) {
		return
	}
	c.HTML(http.StatusOK, "settings.html", gin.H{
		"Title": "Settings",
		"Page":  s,
	})
}
