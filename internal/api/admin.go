package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hargabyte/chaos-web/internal/arena"
	"github.com/hargabyte/chaos-web/internal/view"
	"go.uber.org/zap"
)

const adminPath = "/admin"

// Admin shows workspace stats and the user table.
func (h *Handler) Admin(c *gin.Context) {
	ctrl, owner := h.controller(c)

	id := c.Query("view")
	a, err := arena.Load[view.Admin](h.Views, id, owner, pageAdmin)
	if err != nil {
		var eff view.Effect
		a, eff = ctrl.LoadAdmin(c.Request.Context())
		if h.follow(c, eff) {
			return
		}
		id = h.keep(owner, pageAdmin, a.State, a)
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title": "Admin",
		"View":  id,
		"Page":  a,
	})
}

type deleteForm struct {
	View    string `form:"view"`
	Confirm string `form:"confirm"`
}

// DeleteUser asks for confirmation, then deletes the user and drops the row
// from the stored table.
func (h *Handler) DeleteUser(c *gin.Context) {
	ctrl, owner := h.controller(c)
	userID := c.Param("id")

	var f deleteForm
	if err := c.ShouldBind(&f); err != nil {
		h.logger(c).Warn("unreadable delete form", zap.Error(err))
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}
	a, err := arena.Load[view.Admin](h.Views, f.View, owner, pageAdmin)
	if err != nil {
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}

	patch, eff := ctrl.DeleteUserPatch(c.Request.Context(), userID, f.Confirm == "yes")
	if eff.Kind == view.Confirm {
		c.HTML(http.StatusOK, "confirm.html", gin.H{
			"Title":  "Delete User",
			"View":   f.View,
			"Prompt": eff.Message,
			"UserID": userID,
			"User":   findUser(a, userID),
		})
		return
	}
	h.commitAdmin(c, owner, f.View, patch, eff)
}

type roleForm struct {
	View string `form:"view"`
	Role string `form:"role" binding:"required"`
}

// UpdateRole changes a user's role and patches the stored row.
func (h *Handler) UpdateRole(c *gin.Context) {
	ctrl, owner := h.controller(c)
	userID := c.Param("id")

	var f roleForm
	bindErr := c.ShouldBind(&f)
	if !h.Views.Active(f.View, owner, pageAdmin) {
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}
	if bindErr != nil {
		// An empty role fails the same way an unknown one does.
		h.logger(c).Debug("invalid role form", zap.Error(bindErr))
		f.Role = ""
	}

	patch, eff := ctrl.UpdateRolePatch(c.Request.Context(), userID, f.Role)
	h.commitAdmin(c, owner, f.View, patch, eff)
}

// commitAdmin applies the patch of a finished write to the view's current
// snapshot and sends the browser back to it. Writes that overlap on one view
// each land on top of the other.
func (h *Handler) commitAdmin(c *gin.Context, owner, id string, patch view.AdminPatch, eff view.Effect) {
	if eff.Kind != view.Render {
		h.Views.Drop(id)
		h.follow(c, eff)
		return
	}
	if !arena.Update[view.Admin](h.Views, id, owner, pageAdmin, patch) {
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}
	reopen(c, adminPath, id)
}

func findUser(a view.Admin, id string) string {
	for _, u := range a.Users {
		if u.ID == id {
			return u.Email
		}
	}
	return id
}
