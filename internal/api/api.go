// Package api serves the CHAOS portal pages.
//
// The portal never stores credentials. The browser keeps the opaque session
// cookie issued by the memory API; each request relays it back to the API and
// uses its fingerprint to find the view snapshots that request may touch.
package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hargabyte/chaos-web/internal/arena"
	"github.com/hargabyte/chaos-web/internal/observability"
	"github.com/hargabyte/chaos-web/internal/view"
	"github.com/hargabyte/chaos-web/pkg/sdk"
	"go.uber.org/zap"
)

// Page names scope view snapshots in the arena.
const (
	pageDashboard = "dashboard"
	pageMemories  = "memories"
	pageDraft     = "memories/new"
	pageAdmin     = "admin"
)

type Handler struct {
	Client  *sdk.Client
	Views   *arena.Store
	Metrics *observability.Collector
	Log     *zap.Logger

	// SecureCookies marks relayed cookies Secure. Enable behind HTTPS.
	SecureCookies bool
}

// controller builds a view controller for the caller's session and returns
// the caller's owner fingerprint.
func (h *Handler) controller(c *gin.Context) (*view.Controller, string) {
	cookies := c.Request.Cookies()
	return view.NewController(h.Client.Session(cookies), h.recorder()), fingerprint(cookies)
}

func (h *Handler) recorder() view.Recorder {
	if h.Metrics == nil {
		return nil
	}
	return h.Metrics
}

// fingerprint hashes every cookie the browser sent, order-independently.
// Cookie values are never interpreted.
func fingerprint(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	slices.Sort(parts)
	return arena.Owner(strings.Join(parts, "; "))
}

// relay hands cookies set by the API to the browser, bound to the portal's
// own host.
func (h *Handler) relay(c *gin.Context, cookies []*http.Cookie) {
	for _, ck := range cookies {
		out := *ck
		out.Domain = ""
		out.Secure = h.SecureCookies
		out.HttpOnly = true
		if out.Path == "" {
			out.Path = "/"
		}
		if out.SameSite == http.SameSiteDefaultMode {
			out.SameSite = http.SameSiteLaxMode
		}
		http.SetCookie(c.Writer, &out)
	}
}

// follow carries out Redirect and Deny effects and reports whether it did.
// Render and Confirm are left to the caller.
func (h *Handler) follow(c *gin.Context, eff view.Effect) bool {
	switch eff.Kind {
	case view.Redirect:
		c.Redirect(http.StatusSeeOther, eff.Location)
		return true
	case view.Deny:
		c.HTML(http.StatusForbidden, "denied.html", gin.H{
			"Title":   "Access Denied",
			"Message": eff.Message,
		})
		return true
	}
	return false
}

// keep opens a view for a freshly loaded snapshot. A failed load is rendered
// once and not kept, so the next visit loads again instead of replaying the
// banner.
func (h *Handler) keep(owner, page string, st view.State, snapshot any) string {
	if st.Error != "" {
		return ""
	}
	return h.Views.Open(owner, page, snapshot)
}

// reopen sends the browser back to a page, resuming the view when given.
func reopen(c *gin.Context, path, viewID string) {
	if viewID != "" {
		path += "?view=" + viewID
	}
	c.Redirect(http.StatusSeeOther, path)
}

func (h *Handler) logger(c *gin.Context) *zap.Logger {
	return h.Log.With(zap.String("requestID", c.GetString(requestIDKey)))
}
