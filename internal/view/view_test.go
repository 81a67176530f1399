package view

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/hargabyte/chaos-web/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
		msg  string
	}{
		{"ok", nil, KindOK, ""},
		{"401", apiErr(http.StatusUnauthorized, "expired"), KindUnauthenticated, "expired"},
		{"403", apiErr(http.StatusForbidden, "nope"), KindForbidden, "nope"},
		{"422", apiErr(http.StatusUnprocessableEntity, "bad tag"), KindFailed, "bad tag"},
		{"network", errNetwork, KindFailed, ""},
		{"wrapped", fmt.Errorf("load: %w", apiErr(http.StatusUnauthorized, "")), KindUnauthenticated, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Classify(1, tc.err)
			assert.Equal(t, tc.kind, r.Kind)
			assert.Equal(t, tc.msg, r.Message)
			if tc.kind != KindOK {
				assert.Zero(t, r.Value)
			}
		})
	}
}

func TestDispatch(t *testing.T) {
	surface := Surface{Forbidden: ShowDenied, DeniedText: "denied", Failed: ShowAlert, FailedText: "fallback"}

	var st State
	called := false
	eff := Dispatch(Result[int]{Kind: KindOK, Value: 7}, &st, surface, func(v int) { called = v == 7 })
	assert.Equal(t, Render, eff.Kind)
	assert.True(t, called)

	eff = Dispatch(Result[int]{Kind: KindUnauthenticated}, &st, surface, nil)
	assert.Equal(t, Effect{Kind: Redirect, Location: LoginPath}, eff)

	st = State{}
	eff = Dispatch(Result[int]{Kind: KindForbidden, Message: "server text"}, &st, surface, nil)
	assert.Equal(t, Deny, eff.Kind)
	assert.Equal(t, "denied", st.Denied)

	st = State{}
	Dispatch(Result[int]{Kind: KindFailed, Message: "server text"}, &st, surface, nil)
	assert.Equal(t, "server text", st.Alert)

	st = State{}
	Dispatch(Result[int]{Kind: KindFailed}, &st, surface, nil)
	assert.Equal(t, "fallback", st.Alert)

	st = State{}
	surface.Generic = true
	Dispatch(Result[int]{Kind: KindFailed, Message: "server text"}, &st, surface, nil)
	assert.Equal(t, "fallback", st.Alert)
}

func TestLoadDashboard_UnauthenticatedStopsLoading(t *testing.T) {
	api := &fakeAPI{profileErr: apiErr(http.StatusUnauthorized, "")}
	d, eff := NewController(api, nil).LoadDashboard(context.Background())

	assert.Equal(t, Effect{Kind: Redirect, Location: "/login"}, eff)
	assert.Equal(t, []string{"profile"}, api.calls, "no further requests after a 401")
	assert.Nil(t, d.Profile)
}

func TestLoadDashboard(t *testing.T) {
	api := &fakeAPI{
		profile:  &schema.UserProfile{ID: "u1", Email: "a@b.c"},
		memories: []schema.Memory{{ID: "m1", Content: "Pricing decision"}},
	}
	d, eff := NewController(api, nil).LoadDashboard(context.Background())

	assert.Equal(t, Render, eff.Kind)
	assert.Equal(t, "a@b.c", d.Profile.Email)
	assert.Len(t, d.Memories, 1)
	assert.Len(t, d.Visible("pricing"), 1)
	assert.Empty(t, d.Visible("nothing"))
}

func TestLoadDashboard_ProfileFailure(t *testing.T) {
	api := &fakeAPI{profileErr: errNetwork}
	d, eff := NewController(api, nil).LoadDashboard(context.Background())

	assert.Equal(t, Render, eff.Kind)
	assert.Equal(t, "Failed to fetch user", d.Error)
	assert.Equal(t, []string{"profile"}, api.calls)
}

func TestLoadDashboard_MemoriesFailureLeavesListEmpty(t *testing.T) {
	api := &fakeAPI{profile: &schema.UserProfile{ID: "u1"}, memoriesErr: apiErr(500, "boom")}
	d, eff := NewController(api, nil).LoadDashboard(context.Background())

	assert.Equal(t, Render, eff.Kind)
	assert.Empty(t, d.Memories)
	assert.Empty(t, d.Error)
}

func TestLoadDashboard_MemoriesUnauthenticated(t *testing.T) {
	api := &fakeAPI{profile: &schema.UserProfile{ID: "u1"}, memoriesErr: apiErr(401, "")}
	_, eff := NewController(api, nil).LoadDashboard(context.Background())
	assert.Equal(t, Redirect, eff.Kind)
}

func TestLoadMemories(t *testing.T) {
	api := &fakeAPI{memoriesErr: errNetwork}
	m, eff := NewController(api, nil).LoadMemories(context.Background())
	assert.Equal(t, Render, eff.Kind)
	assert.Equal(t, "Failed to load memories", m.Error)

	api = &fakeAPI{memoriesErr: apiErr(401, "")}
	_, eff = NewController(api, nil).LoadMemories(context.Background())
	assert.Equal(t, "/login", eff.Location)
}

func TestLoadSettings(t *testing.T) {
	api := &fakeAPI{profile: &schema.UserProfile{ID: "u1", TenantID: "t1", Role: schema.RoleOwner}}
	s, eff := NewController(api, nil).LoadSettings(context.Background())
	require.Equal(t, Render, eff.Kind)
	assert.Equal(t, "t1", s.Profile.TenantID)
}

func adminFixture() *fakeAPI {
	return &fakeAPI{
		stats: &schema.Stats{TotalUsers: 3, TotalWorkspaces: 2, TotalMemories: 9},
		users: []schema.UserProfile{
			{ID: "u1", Email: "one@x.io", Role: schema.RoleMember},
			{ID: "u2", Email: "two@x.io", Role: schema.RoleMember},
			{ID: "u3", Email: "three@x.io", Role: schema.RoleOwner},
		},
	}
}

func TestLoadAdmin_Forbidden(t *testing.T) {
	api := &fakeAPI{statsErr: apiErr(http.StatusForbidden, "")}
	a, eff := NewController(api, nil).LoadAdmin(context.Background())

	assert.Equal(t, Deny, eff.Kind)
	assert.Equal(t, "Admin access required", eff.Message)
	assert.False(t, a.Ready())
	assert.Nil(t, a.Stats)
	assert.Nil(t, a.Users)
	assert.Equal(t, []string{"stats"}, api.calls)
}

func TestLoadAdmin_UsersForbiddenHidesStats(t *testing.T) {
	api := adminFixture()
	api.usersErr = apiErr(http.StatusForbidden, "")
	a, eff := NewController(api, nil).LoadAdmin(context.Background())

	assert.Equal(t, Deny, eff.Kind)
	assert.Nil(t, a.Stats)
	assert.False(t, a.Ready())
}

func TestLoadAdmin_Unauthenticated(t *testing.T) {
	api := &fakeAPI{statsErr: apiErr(http.StatusUnauthorized, "")}
	_, eff := NewController(api, nil).LoadAdmin(context.Background())

	assert.Equal(t, "/login", eff.Location)
	assert.Equal(t, []string{"stats"}, api.calls)
}

func TestLoadAdmin_NetworkFailure(t *testing.T) {
	api := &fakeAPI{statsErr: errNetwork}
	a, eff := NewController(api, nil).LoadAdmin(context.Background())

	assert.Equal(t, Render, eff.Kind)
	assert.Equal(t, "Failed to load admin data", a.Error)
	assert.False(t, a.Ready())
}

func TestDeleteUser_RemovesExactlyThatRow(t *testing.T) {
	api := adminFixture()
	c := NewController(api, nil)
	a, _ := c.LoadAdmin(context.Background())
	before := a.Users

	a, eff := c.DeleteUser(context.Background(), a, "u1", true)
	require.Equal(t, Render, eff.Kind)
	require.Len(t, a.Users, 2)
	assert.Equal(t, "u2", a.Users[0].ID)
	assert.Equal(t, "u3", a.Users[1].ID)
	assert.Len(t, before, 3, "the previous snapshot is not modified")
}

func TestDeleteUser_RequiresConfirmation(t *testing.T) {
	api := adminFixture()
	c := NewController(api, nil)
	a, _ := c.LoadAdmin(context.Background())
	api.calls = nil

	a, eff := c.DeleteUser(context.Background(), a, "u1", false)
	assert.Equal(t, Confirm, eff.Kind)
	assert.Equal(t, DeletePrompt, eff.Message)
	assert.Empty(t, api.calls)
	assert.Len(t, a.Users, 3)
}

func TestDeleteUser_FailureKeepsSnapshot(t *testing.T) {
	api := adminFixture()
	c := NewController(api, nil)
	a, _ := c.LoadAdmin(context.Background())

	api.deleteErr = apiErr(http.StatusBadRequest, "Cannot delete the last owner")
	a, eff := c.DeleteUser(context.Background(), a, "u3", true)
	assert.Equal(t, Render, eff.Kind)
	assert.Equal(t, "Cannot delete the last owner", a.Alert)
	assert.Len(t, a.Users, 3)

	api.deleteErr = errNetwork
	a, _ = c.DeleteUser(context.Background(), a, "u3", true)
	assert.Equal(t, "Failed to delete user", a.Alert)
}

func TestDeleteUserPatch_AppliesToCurrentSnapshot(t *testing.T) {
	api := adminFixture()
	c := NewController(api, nil)
	a, _ := c.LoadAdmin(context.Background())

	first, eff := c.DeleteUserPatch(context.Background(), "u1", true)
	require.Equal(t, Render, eff.Kind)
	second, eff := c.DeleteUserPatch(context.Background(), "u2", true)
	require.Equal(t, Render, eff.Kind)

	// Completion order does not matter: each patch sees the other's result.
	a = first(second(a))
	require.Len(t, a.Users, 1)
	assert.Equal(t, "u3", a.Users[0].ID)
}

func TestUpdateRole_PatchesOnlyThatRow(t *testing.T) {
	api := adminFixture()
	c := NewController(api, nil)
	a, _ := c.LoadAdmin(context.Background())

	a, eff := c.UpdateRole(context.Background(), a, "u2", "admin")
	require.Equal(t, Render, eff.Kind)
	assert.Equal(t, schema.RoleMember, a.Users[0].Role)
	assert.Equal(t, schema.RoleAdmin, a.Users[1].Role)
	assert.Equal(t, "Admin", a.Users[1].Role.Label())
	assert.Equal(t, schema.RoleOwner, a.Users[2].Role)
	assert.Equal(t, schema.RoleAdmin, api.roles["u2"])
}

func TestUpdateRole_Failures(t *testing.T) {
	api := adminFixture()
	c := NewController(api, nil)
	a, _ := c.LoadAdmin(context.Background())
	api.calls = nil

	a, _ = c.UpdateRole(context.Background(), a, "u2", "emperor")
	assert.Equal(t, "Failed to update role", a.Alert)
	assert.Empty(t, api.calls)

	api.roleErr = apiErr(http.StatusForbidden, "Only superadmins may grant superadmin")
	a, _ = c.UpdateRole(context.Background(), a, "u2", "superadmin")
	assert.Equal(t, "Only superadmins may grant superadmin", a.Alert)
	assert.Equal(t, schema.RoleMember, a.Users[1].Role)
}

func TestLogin(t *testing.T) {
	api := &fakeAPI{loginErr: apiErr(http.StatusUnauthorized, "Invalid credentials")}
	l, cookies, eff := NewController(api, nil).Login(context.Background(), "a@b.c", "wrong")
	assert.Equal(t, Render, eff.Kind, "a rejected login does not navigate")
	assert.Equal(t, "Invalid credentials", l.Error)
	assert.Nil(t, cookies)

	api = &fakeAPI{loginErr: apiErr(http.StatusBadRequest, "")}
	l, _, _ = NewController(api, nil).Login(context.Background(), "a@b.c", "x")
	assert.Equal(t, "Invalid credentials", l.Error)

	api = &fakeAPI{loginErr: errNetwork}
	l, _, _ = NewController(api, nil).Login(context.Background(), "a@b.c", "x")
	assert.Equal(t, "An error occurred", l.Error)

	api = &fakeAPI{}
	l, _, _ = NewController(api, nil).Login(context.Background(), " ", "x")
	assert.Equal(t, "Email and password are required", l.Error)
	assert.Empty(t, api.calls)

	api = &fakeAPI{loginCookies: []*http.Cookie{{Name: "session", Value: "v"}}}
	_, cookies, eff = NewController(api, nil).Login(context.Background(), "a@b.c", "pw")
	assert.Equal(t, Effect{Kind: Redirect, Location: "/dashboard"}, eff)
	assert.Len(t, cookies, 1)
}

func TestLogout_AlwaysRedirects(t *testing.T) {
	for _, err := range []error{nil, errNetwork, apiErr(500, "")} {
		api := &fakeAPI{logoutErr: err}
		_, eff := NewController(api, nil).Logout(context.Background())
		assert.Equal(t, Effect{Kind: Redirect, Location: "/login"}, eff)
	}
}

func TestSubmitDraft(t *testing.T) {
	api := &fakeAPI{}
	c := NewController(api, nil)

	d := Draft{Content: "   "}
	d, eff := c.SubmitDraft(context.Background(), d)
	assert.Equal(t, Render, eff.Kind)
	assert.Equal(t, ErrContentEmpty.Error(), d.Error)

	d = Draft{Content: strings.Repeat("é", 501)}
	d, _ = c.SubmitDraft(context.Background(), d)
	assert.Equal(t, ErrContentTooLong.Error(), d.Error)
	assert.Empty(t, api.calls, "invalid drafts never reach the API")

	d = Draft{Content: strings.Repeat("é", 500)}.AddTag("work").AddTag("ideas")
	d, eff = c.SubmitDraft(context.Background(), d)
	assert.Equal(t, Effect{Kind: Redirect, Location: "/dashboard"}, eff)
	require.Len(t, api.created, 1)
	assert.Equal(t, []string{"work", "ideas"}, api.created[0].Tags)
}

func TestSubmitDraft_Failure(t *testing.T) {
	api := &fakeAPI{createErr: apiErr(http.StatusBadRequest, "content rejected")}
	d, eff := NewController(api, nil).SubmitDraft(context.Background(), Draft{Content: "hi"})
	assert.Equal(t, Render, eff.Kind)
	assert.Equal(t, "Failed to save memory", d.Error)
	assert.Equal(t, "hi", d.Content)
}

func TestRecorderSeesOutcomes(t *testing.T) {
	rec := countingRecorder{}
	api := &fakeAPI{statsErr: apiErr(http.StatusForbidden, "")}
	NewController(api, rec).LoadAdmin(context.Background())
	assert.Equal(t, 1, rec["admin_stats:forbidden"])
}
