package view

import (
	"context"

	"github.com/hargabyte/chaos-web/pkg/schema"
)

const (
	adminDenied     = "Admin access required"
	adminLoadFailed = "Failed to load admin data"
	deleteFailed    = "Failed to delete user"
	roleFailed      = "Failed to update role"

	// DeletePrompt is shown before a user is deleted.
	DeletePrompt = "Are you sure you want to delete this user?"
)

// Admin is the snapshot behind /admin. A denied snapshot never carries stats
// or users.
type Admin struct {
	State
	Stats *schema.Stats
	Users []schema.UserProfile
}

// Ready reports whether the stats and user table may be rendered.
func (a Admin) Ready() bool {
	return a.Denied == "" && a.Stats != nil
}

var adminLoad = Surface{
	Forbidden:  ShowDenied,
	DeniedText: adminDenied,
	Failed:     ShowBanner,
	FailedText: adminLoadFailed,
	Generic:    true,
}

// LoadAdmin fetches the stats and then the user list. A redirect or denial on
// stats stops before users are requested.
func (c *Controller) LoadAdmin(ctx context.Context) (Admin, Effect) {
	var a Admin

	stats, err := c.api.Stats(ctx)
	eff := Dispatch(observe(c, CallStats, stats, err), &a.State, adminLoad,
		func(s *schema.Stats) { a.Stats = s })
	if eff.Kind != Render || a.Stats == nil {
		return a, eff
	}

	users, err := c.api.ListUsers(ctx)
	eff = Dispatch(observe(c, CallUsers, users, err), &a.State, adminLoad,
		func(u []schema.UserProfile) { a.Users = u })
	if eff.Kind == Deny {
		a.Stats, a.Users = nil, nil
	}
	return a, eff
}

func adminWrite(fallback string) Surface {
	return Surface{Forbidden: ShowAlert, Failed: ShowAlert, FailedText: fallback}
}

// AdminPatch turns an admin snapshot into the next one after a write. Patches
// are pure, so they can be applied to whichever snapshot is current when the
// write completes.
type AdminPatch func(Admin) Admin

// DeleteUser removes a user after confirmation. Without confirmation it asks
// for it and sends nothing. On success exactly the row with that id leaves
// the snapshot; on failure the snapshot is untouched and an alert is set.
func (c *Controller) DeleteUser(ctx context.Context, a Admin, userID string, confirmed bool) (Admin, Effect) {
	patch, eff := c.DeleteUserPatch(ctx, userID, confirmed)
	return patch(a), eff
}

// DeleteUserPatch is DeleteUser returning the snapshot change as a patch.
func (c *Controller) DeleteUserPatch(ctx context.Context, userID string, confirmed bool) (AdminPatch, Effect) {
	if !confirmed {
		return withAlert(""), Effect{Kind: Confirm, Message: DeletePrompt}
	}

	err := c.api.DeleteUser(ctx, userID)
	return writePatch(observe(c, CallDeleteUser, struct{}{}, err), deleteFailed, func(a Admin) Admin {
		a.Users = RemoveUser(a.Users, userID)
		return a
	})
}

// UpdateRole changes a user's role. On success only that row is patched.
func (c *Controller) UpdateRole(ctx context.Context, a Admin, userID, role string) (Admin, Effect) {
	patch, eff := c.UpdateRolePatch(ctx, userID, role)
	return patch(a), eff
}

// UpdateRolePatch is UpdateRole returning the snapshot change as a patch.
func (c *Controller) UpdateRolePatch(ctx context.Context, userID, role string) (AdminPatch, Effect) {
	r, err := schema.ParseRole(role)
	if err != nil {
		return withAlert(roleFailed), render()
	}

	err = c.api.UpdateUserRole(ctx, userID, r)
	return writePatch(observe(c, CallUpdateRole, struct{}{}, err), roleFailed, func(a Admin) Admin {
		a.Users = PatchRole(a.Users, userID, r)
		return a
	})
}

// writePatch dispatches the result of an admin write. The returned patch
// sets the alert and, on success, applies onOK.
func writePatch(r Result[struct{}], fallback string, onOK AdminPatch) (AdminPatch, Effect) {
	var st State
	ok := false
	eff := Dispatch(r, &st, adminWrite(fallback), func(struct{}) { ok = true })
	return func(a Admin) Admin {
		a.Alert = st.Alert
		if ok {
			a = onOK(a)
		}
		return a
	}, eff
}

func withAlert(msg string) AdminPatch {
	return func(a Admin) Admin {
		a.Alert = msg
		return a
	}
}
