package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hargabyte/chaos-web/internal/arena"
	"github.com/hargabyte/chaos-web/internal/view"
)

const newMemoryPath = "/memories/new"

// draftForm is the single form on the new-memory page. The visible tag chips
// are echoed as hidden fields so an expired view can be rebuilt.
type draftForm struct {
	View    string   `form:"view"`
	Content string   `form:"content"`
	Tags    []string `form:"tags"`
	Tag     string   `form:"tag"`
	Remove  string   `form:"remove"`
}

// NewMemory shows the draft form, resuming the view when it is still live.
func (h *Handler) NewMemory(c *gin.Context) {
	_, owner := h.controller(c)

	id := c.Query("view")
	d, err := arena.Load[view.Draft](h.Views, id, owner, pageDraft)
	if err != nil {
		d = view.Draft{}
		id = h.Views.Open(owner, pageDraft, d)
	}
	h.renderDraft(c, http.StatusOK, id, d)
}

// AddTag adds the typed tag to the draft.
func (h *Handler) AddTag(c *gin.Context) {
	h.editDraft(c, func(d view.Draft, f draftForm) view.Draft { return d.AddTag(f.Tag) })
}

// RemoveTag removes one tag chip from the draft.
func (h *Handler) RemoveTag(c *gin.Context) {
	h.editDraft(c, func(d view.Draft, f draftForm) view.Draft { return d.RemoveTag(f.Remove) })
}

func (h *Handler) editDraft(c *gin.Context, edit func(view.Draft, draftForm) view.Draft) {
	_, owner := h.controller(c)
	var f draftForm
	if err := c.ShouldBind(&f); err != nil {
		c.Redirect(http.StatusSeeOther, newMemoryPath)
		return
	}

	_, id := h.resumeDraft(owner, f)
	ok := arena.Update(h.Views, id, owner, pageDraft, func(d view.Draft) view.Draft {
		d.Content = f.Content
		return edit(d, f)
	})
	if !ok {
		c.Redirect(http.StatusSeeOther, newMemoryPath)
		return
	}
	reopen(c, newMemoryPath, id)
}

// CreateMemory submits the draft. Success goes to the dashboard; anything
// else returns to the form with the draft intact.
func (h *Handler) CreateMemory(c *gin.Context) {
	ctrl, owner := h.controller(c)
	var f draftForm
	if err := c.ShouldBind(&f); err != nil {
		c.Redirect(http.StatusSeeOther, newMemoryPath)
		return
	}

	d, id := h.resumeDraft(owner, f)
	d, eff := ctrl.SubmitDraft(c.Request.Context(), d)
	if eff.Kind == view.Redirect {
		h.Views.Drop(id)
	}
	if h.follow(c, eff) {
		return
	}
	if !h.Views.Replace(id, owner, pageDraft, d) {
		c.Redirect(http.StatusSeeOther, newMemoryPath)
		return
	}
	reopen(c, newMemoryPath, id)
}

// resumeDraft finds the draft named by the form, or rebuilds it from the
// submitted fields when the view has expired. The typed content always wins.
func (h *Handler) resumeDraft(owner string, f draftForm) (view.Draft, string) {
	id := f.View
	d, err := arena.Load[view.Draft](h.Views, id, owner, pageDraft)
	if err != nil {
		d = view.Draft{Tags: view.NewTagSet(f.Tags...)}
		id = h.Views.Open(owner, pageDraft, d)
	}
	d.Content = f.Content
	return d, id
}

func (h *Handler) renderDraft(c *gin.Context, status int, id string, d view.Draft) {
	c.HTML(status, "new.html", gin.H{
		"Title": "Add Memory",
		"View":  id,
		"Page":  d,
		"Tags":  d.Tags.Slice(),
	})
}
