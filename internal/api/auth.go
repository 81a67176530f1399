package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hargabyte/chaos-web/internal/view"
	"go.uber.org/zap"
)

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// LoginPage shows the login form.
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Login",
		"Page":  view.Login{},
	})
}

// Login submits credentials. The cookies the API issues are relayed to the
// browser untouched apart from being bound to this host.
func (h *Handler) Login(c *gin.Context) {
	var f loginForm
	if err := c.ShouldBind(&f); err != nil {
		// The controller reports the missing fields to the user.
		h.logger(c).Debug("unreadable login form", zap.Error(err))
	}

	// A login never carries an existing session.
	ctrl := view.NewController(h.Client.Session(nil), h.recorder())
	l, cookies, eff := ctrl.Login(c.Request.Context(), f.Email, f.Password)
	if eff.Kind == view.Redirect {
		h.relay(c, cookies)
		h.follow(c, eff)
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Login",
		"Page":  l,
	})
}

// Logout ends the session at the API and always lands on the login page.
func (h *Handler) Logout(c *gin.Context) {
	ctrl, owner := h.controller(c)
	cookies, eff := ctrl.Logout(c.Request.Context())
	h.relay(c, cookies)

	if n := h.Views.DropOwner(owner); n > 0 {
		h.logger(c).Debug("dropped views on logout", zap.Int("views", n))
	}
	h.follow(c, eff)
}
