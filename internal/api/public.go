package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type waitlistForm struct {
	Name  string `form:"name" binding:"required,max=200"`
	Email string `form:"email" binding:"required,email,max=320"`
}

func (h *Handler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.html", gin.H{
		"Title": "CHAOS",
		"Name":  "",
		"Email": "",
	})
}

// JoinWaitlist acknowledges a signup. Signups are only logged; there is no
// waitlist backend yet.
func (h *Handler) JoinWaitlist(c *gin.Context) {
	var f waitlistForm
	if err := c.ShouldBind(&f); err != nil {
		c.HTML(http.StatusBadRequest, "landing.html", gin.H{
			"Title":         "CHAOS",
			"WaitlistError": "Please enter your name and a valid email address.",
			"Name":          f.Name,
			"Email":         f.Email,
		})
		return
	}

	domain := f.Email[strings.LastIndex(f.Email, "@")+1:]
	h.logger(c).Info("waitlist signup", zap.String("emailDomain", domain))
	c.HTML(http.StatusOK, "landing.html", gin.H{
		"Title":  "CHAOS",
		"Joined": f.Email,
	})
}

func (h *Handler) Privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{"Title": "Privacy Policy"})
}

func (h *Handler) Analytics(c *gin.Context) {
	c.HTML(http.StatusOK, "analytics.html", gin.H{"Title": "Analytics"})
}

// Portal forwards to the dashboard.
func (h *Handler) Portal(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"views":  h.Views.Len(),
	})
}

func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound.html", gin.H{"Title": "Not Found"})
}
