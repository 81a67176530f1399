package view

import "github.com/hargabyte/chaos-web/pkg/schema"

// Optimistic patches. They run only after the API accepted a write and are
// not authoritative: the next full load replaces whatever they produced.

// RemoveUser returns users without the row whose ID is id.
func RemoveUser(users []schema.UserProfile, id string) []schema.UserProfile {
	out := make([]schema.UserProfile, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// PatchRole returns a copy of users with only the row whose ID is id given role.
func PatchRole(users []schema.UserProfile, id string, role schema.Role) []schema.UserProfile {
	out := make([]schema.UserProfile, len(users))
	copy(out, users)
	for i := range out {
		if out[i].ID == id {
			out[i].Role = role
		}
	}
	return out
}
