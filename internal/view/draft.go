package view

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/hargabyte/chaos-web/pkg/schema"
)

var (
	ErrContentEmpty   = errors.New("memory content is required")
	ErrContentTooLong = errors.New("memory content is limited to 500 characters")
)

const saveFailed = "Failed to save memory"

// ValidateContent checks content before it is submitted. The API enforces the
// same rules; this only spares a round trip.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentEmpty
	}
	if utf8.RuneCountInString(content) > schema.MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// Draft is the snapshot behind /memories/new.
type Draft struct {
	State
	Content string
	Tags    TagSet
}

// AddTag returns the draft with tag added, or unchanged with Error set.
func (d Draft) AddTag(tag string) Draft {
	d.Error = ""
	next, err := d.Tags.Add(tag)
	if err != nil {
		d.Error = err.Error()
		return d
	}
	d.Tags = next
	return d
}

// RemoveTag returns the draft without the named tag.
func (d Draft) RemoveTag(name string) Draft {
	d.Error = ""
	d.Tags = d.Tags.Remove(name)
	return d
}

// SubmitDraft validates and creates the memory. Invalid content never reaches
// the API. Success navigates to the dashboard; failure shows a generic error
// and keeps the draft.
func (c *Controller) SubmitDraft(ctx context.Context, d Draft) (Draft, Effect) {
	d.Error = ""
	if err := ValidateContent(d.Content); err != nil {
		d.Error = err.Error()
		return d, render()
	}

	err := c.api.CreateMemory(ctx, schema.NewMemory{Content: d.Content, Tags: d.Tags.Slice()})
	eff := Dispatch(observe(c, CallCreate, struct{}{}, err), &d.State, Surface{
		Forbidden:  ShowBanner,
		Failed:     ShowBanner,
		FailedText: saveFailed,
		Generic:    true,
	}, nil)
	if eff.Kind == Render && d.Error == "" {
		return d, redirect(DashboardPath)
	}
	return d, eff
}
