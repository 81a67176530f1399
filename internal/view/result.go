// Package view implements the per-page controllers that load data from the
// memory API, decide what to render, and patch their local snapshot after a
// successful write.
//
// Every remote call is reduced to a Result, and every Result is turned into an
// Effect by Dispatch. Handlers only ever look at Effects.
package view

import (
	"errors"

	"github.com/hargabyte/chaos-web/pkg/sdk"
)

// Kind tags the outcome of a remote call.
type Kind int

const (
	KindOK Kind = iota
	KindUnauthenticated
	KindForbidden
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	default:
		return "failed"
	}
}

// Result is Ok(Value) | Unauthenticated | Forbidden | Failed(Message).
// Message is the server-provided text and may be empty. Status is the HTTP
// status of a rejected call, or 0 when no response arrived.
type Result[T any] struct {
	Kind    Kind
	Value   T
	Message string
	Status  int
}

// Classify reduces a call's return values to a Result.
func Classify[T any](v T, err error) Result[T] {
	if err == nil {
		return Result[T]{Kind: KindOK, Value: v}
	}
	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		r := Result[T]{Kind: KindFailed, Message: apiErr.Message, Status: apiErr.Status}
		switch {
		case apiErr.Unauthenticated():
			r.Kind = KindUnauthenticated
		case apiErr.Forbidden():
			r.Kind = KindForbidden
		}
		return r
	}
	// Transport and decode failures carry no user-facing text.
	return Result[T]{Kind: KindFailed}
}

// EffectKind is what the page must do next.
type EffectKind int

const (
	// Render the current snapshot.
	Render EffectKind = iota
	// Redirect to Effect.Location.
	Redirect
	// Deny shows the access-denied screen with Effect.Message.
	Deny
	// Confirm asks the user to confirm Effect.Message before acting.
	Confirm
)

// Effect is the single instruction a controller hands back to its page.
type Effect struct {
	Kind     EffectKind
	Location string
	Message  string
}

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

func render() Effect { return Effect{Kind: Render} }
func redirect(location string) Effect { return Effect{Kind: Redirect, Location: location} }

// Failure chooses where a failure message ends up.
type Failure int

const (
	ShowBanner Failure = iota
	ShowAlert
	ShowDenied
	Ignore
)

// Surface describes how one call site presents its failures.
type Surface struct {
	Forbidden  Failure
	DeniedText string

	Failed     Failure
	FailedText string
	// Generic hides server messages and always shows FailedText.
	Generic    bool
}

// State is the failure display shared by every snapshot.
type State struct {
	Error  string
	Alert  string
	Denied string
}

// Dispatch maps a result to its effect. On Ok it calls onOK; otherwise it
// writes the failure text into st according to surface.
func Dispatch[T any](r Result[T], st *State, surface Surface, onOK func(T)) Effect {
	switch r.Kind {
	case KindOK:
		if onOK != nil {
			onOK(r.Value)
		}
		return render()
	case KindUnauthenticated:
		return redirect(LoginPath)
	case KindForbidden:
		msg := surface.DeniedText
		if msg == "" {
			msg = failureText(r.Message, surface)
		}
		return show(st, surface.Forbidden, msg)
	default:
		return show(st, surface.Failed, failureText(r.Message, surface))
	}
}

func failureText(serverMsg string, surface Surface) string {
	if serverMsg != "" && !surface.Generic {
		return serverMsg
	}
	return surface.FailedText
}

func show(st *State, where Failure, msg string) Effect {
	switch where {
	case ShowBanner:
		st.Error = msg
	case ShowAlert:
		st.Alert = msg
	case ShowDenied:
		st.Denied = msg
		return Effect{Kind: Deny, Message: msg}
	}
	return render()
}
