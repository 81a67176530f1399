package view

import (
	"context"

	"github.com/hargabyte/chaos-web/pkg/schema"
)

// Dashboard is the snapshot behind /dashboard.
type Dashboard struct {
	State
	Profile  *schema.UserProfile
	Memories []schema.Memory
}

// Visible returns the memories matching query.
func (d Dashboard) Visible(query string) []schema.Memory {
	return FilterMemories(d.Memories, query)
}

// LoadDashboard fetches the profile and then the memory list. The list is
// only requested once the profile came back Ok.
func (c *Controller) LoadDashboard(ctx context.Context) (Dashboard, Effect) {
	var d Dashboard

	profile, err := c.api.Profile(ctx)
	eff := Dispatch(observe(c, CallProfile, profile, err), &d.State, Surface{
		Forbidden:  ShowBanner,
		Failed:     ShowBanner,
		FailedText: "Failed to fetch user",
		Generic:    true,
	}, func(p *schema.UserProfile) { d.Profile = p })
	if eff.Kind != Render || d.Profile == nil {
		return d, eff
	}

	memories, err := c.api.ListMemories(ctx)
	eff = Dispatch(observe(c, CallMemories, memories, err), &d.State, Surface{
		Forbidden: Ignore,
		Failed:    Ignore,
	}, func(m []schema.Memory) { d.Memories = m })
	return d, eff
}

// MemoryList is the snapshot behind /memories.
type MemoryList struct {
	State
	Memories []schema.Memory
}

// Visible returns the memories matching query. It never contacts the API.
func (m MemoryList) Visible(query string) []schema.Memory {
	return FilterMemories(m.Memories, query)
}

// LoadMemories fetches the memory list.
func (c *Controller) LoadMemories(ctx context.Context) (MemoryList, Effect) {
	var m MemoryList
	memories, err := c.api.ListMemories(ctx)
	eff := Dispatch(observe(c, CallMemories, memories, err), &m.State, Surface{
		Forbidden:  ShowBanner,
		Failed:     ShowBanner,
		FailedText: "Failed to load memories",
	}, func(list []schema.Memory) { m.Memories = list })
	return m, eff
}

// Settings is the snapshot behind /settings.
type Settings struct {
	State
	Profile *schema.UserProfile
}

// LoadSettings fetches the profile.
func (c *Controller) LoadSettings(ctx context.Context) (Settings, Effect) {
	var s Settings
	profile, err := c.api.Profile(ctx)
	eff := Dispatch(observe(c, CallProfile, profile, err), &s.State, Surface{
		Forbidden:  ShowBanner,
		Failed:     ShowBanner,
		FailedText: "Failed to load profile",
	}, func(p *schema.UserProfile) { s.Profile = p })
	return s, eff
}
