package view

import (
	"github.com/hargabyte/chaos-web/pkg/sdk"
)

// Recorder observes the outcome of every remote call.
type Recorder interface {
	Outcome(call string, kind Kind)
}

type nopRecorder struct{}

func (nopRecorder) Outcome(string, Kind) {}

// Call names used for outcome reporting.
const (
	CallLogin      = "login"
	CallLogout     = "logout"
	CallProfile    = "profile"
	CallMemories   = "memories"
	CallCreate     = "create_memory"
	CallStats      = "admin_stats"
	CallUsers      = "admin_users"
	CallDeleteUser = "admin_delete_user"
	CallUpdateRole = "admin_update_role"
)

// Controller runs page loads and actions against one session of the memory
// API. It holds no page state of its own: every method takes the current
// snapshot by value and returns the next one, so a controller can be built
// per request and thrown away.
type Controller struct {
	api sdk.MemoryLayer
	rec Recorder
}

// NewController builds a controller. rec may be nil.
func NewController(api sdk.MemoryLayer, rec Recorder) *Controller {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Controller{api: api, rec: rec}
}

func observe[T any](c *Controller, call string, v T, err error) Result[T] {
	r := Classify(v, err)
	c.rec.Outcome(call, r.Kind)
	return r
}
