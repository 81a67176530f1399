package view

import (
	"errors"
	"slices"
	"strings"

	"github.com/hargabyte/chaos-web/pkg/schema"
)

var (
	ErrBlankTag     = errors.New("tag is empty")
	ErrDuplicateTag = errors.New("tag already added")
	ErrTagLimit     = errors.New("a memory can have at most 10 tags")
)

// TagSet is an insertion-ordered set of at most schema.MaxTags tags.
// The zero value is empty and ready to use. Methods never mutate the
// receiver's backing array, so copies of a TagSet are independent.
type TagSet struct {
	tags []string
}

// NewTagSet builds a set from tags, skipping blanks and duplicates and
// stopping at the limit.
func NewTagSet(tags ...string) TagSet {
	var ts TagSet
	for _, t := range tags {
		if next, err := ts.Add(t); err == nil {
			ts = next
		}
	}
	return ts
}

// Add returns a set with tag appended. Surrounding space is trimmed.
func (ts TagSet) Add(tag string) (TagSet, error) {
	tag = strings.TrimSpace(tag)
	switch {
	case tag == "":
		return ts, ErrBlankTag
	case slices.Contains(ts.tags, tag):
		return ts, ErrDuplicateTag
	case len(ts.tags) >= schema.MaxTags:
		return ts, ErrTagLimit
	}
	return TagSet{tags: append(slices.Clip(ts.tags), tag)}, nil
}

// Remove returns a set without the first tag equal to name.
func (ts TagSet) Remove(name string) TagSet {
	i := slices.Index(ts.tags, name)
	if i < 0 {
		return ts
	}
	return TagSet{tags: slices.Delete(slices.Clone(ts.tags), i, i+1)}
}

// Full reports whether no more tags can be added.
func (ts TagSet) Full() bool { return len(ts.tags) >= schema.MaxTags }

// Len returns the number of tags.
func (ts TagSet) Len() int { return len(ts.tags) }

// Slice returns a copy of the tags in insertion order.
func (ts TagSet) Slice() []string {
	out := make([]string, len(ts.tags))
	copy(out, ts.tags)
	return out
}
