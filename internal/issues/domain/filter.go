package domain

import (
	"net/url"
	"time"
)

// Filter holds equality constraints for listing issues. A nil field is
// unconstrained. Invalid marks a filter with an unparseable value; such a
// filter matches nothing.
type Filter struct {
	ID         *string
	IssueTitle *string
	IssueText  *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
	CreatedOn  *time.Time
	UpdatedOn  *time.Time

	Invalid bool
}

// ParseFilter reads the known issue fields out of query values. Empty values
// and unknown keys are ignored.
func ParseFilter(q url.Values) Filter {
	var f Filter
	f.ID = stringParam(q, "_id")
	f.IssueTitle = stringParam(q, "issue_title")
	f.IssueText = stringParam(q, "issue_text")
	f.CreatedBy = stringParam(q, "created_by")
	f.AssignedTo = stringParam(q, "assigned_to")
	f.StatusText = stringParam(q, "status_text")

	switch q.Get("open") {
	case "":
	case "true":
		f.Open = boolPtr(true)
	case "false":
		f.Open = boolPtr(false)
	default:
		f.Invalid = true
	}
	f.CreatedOn = timeParam(q, "created_on", &f.Invalid)
	f.UpdatedOn = timeParam(q, "updated_on", &f.Invalid)
	return f
}

func stringParam(q url.Values, key string) *string {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func boolPtr(b bool) *bool { return &b }

func timeParam(q url.Values, key string, invalid *bool) *time.Time {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	// Stored instants carry milliseconds only, so finer values never match.
	if err != nil || t.Nanosecond()%int(time.Millisecond) != 0 {
		*invalid = true
		return nil
	}
	return &t
}

// Matches reports whether the issue satisfies every constraint.
func (f Filter) Matches(i Issue) bool {
	if f.Invalid {
		return false
	}
	return eqString(f.ID, i.ID) &&
		eqString(f.IssueTitle, i.IssueTitle) &&
		eqString(f.IssueText, i.IssueText) &&
		eqString(f.CreatedBy, i.CreatedBy) &&
		eqString(f.AssignedTo, i.AssignedTo) &&
		eqString(f.StatusText, i.StatusText) &&
		(f.Open == nil || *f.Open == i.Open) &&
		eqTime(f.CreatedOn, i.CreatedOn) &&
		eqTime(f.UpdatedOn, i.UpdatedOn)
}

func eqString(want *string, got string) bool {
	return want == nil || *want == got
}

func eqTime(want *time.Time, got time.Time) bool {
	return want == nil || want.Equal(got)
}
