package domain

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIssue() Issue {
	created := Timestamp(time.Date(2024, 5, 1, 10, 30, 0, 123456789, time.UTC))
	return Issue{
		ID:         "abc",
		IssueTitle: "New Title",
		IssueText:  "Issue Text",
		CreatedBy:  "Paul",
		AssignedTo: "John",
		StatusText: "Pending",
		Open:       true,
		CreatedOn:  created,
		UpdatedOn:  created,
	}
}

func TestParseFilter(t *testing.T) {
	t.Run("ignores empty and unknown keys", func(t *testing.T) {
		f := ParseFilter(url.Values{"assigned_to": {""}, "colour": {"red"}})
		assert.Nil(t, f.AssignedTo)
		assert.False(t, f.Invalid)
		assert.True(t, f.Matches(sampleIssue()))
	})

	t.Run("parses open strictly", func(t *testing.T) {
		f := ParseFilter(url.Values{"open": {"false"}})
		require.NotNil(t, f.Open)
		assert.False(t, *f.Open)

		f = ParseFilter(url.Values{"open": {"1"}})
		assert.True(t, f.Invalid)
		assert.Nil(t, f.Open)
	})

	t.Run("rejects sub-millisecond timestamps", func(t *testing.T) {
		f := ParseFilter(url.Values{"updated_on": {"2024-05-01T10:30:00.123456Z"}})
		assert.True(t, f.Invalid)
		assert.Nil(t, f.UpdatedOn)

		f = ParseFilter(url.Values{"updated_on": {"2024-05-01T10:30:00.123Z"}})
		assert.False(t, f.Invalid)
		require.NotNil(t, f.UpdatedOn)
	})

	t.Run("rejects malformed timestamps", func(t *testing.T) {
		f := ParseFilter(url.Values{"created_on": {"yesterday"}})
		assert.True(t, f.Invalid)
		assert.False(t, f.Matches(sampleIssue()))
	})
}

func TestFilterMatches(t *testing.T) {
	issue := sampleIssue()

	cases := []struct {
		name  string
		query url.Values
		want  bool
	}{
		{"no filters", url.Values{}, true},
		{"single field", url.Values{"created_by": {"Paul"}}, true},
		{"multiple fields", url.Values{"created_by": {"Paul"}, "assigned_to": {"John"}, "status_text": {"Pending"}}, true},
		{"one field differs", url.Values{"created_by": {"Paul"}, "assigned_to": {"Sara"}}, false},
		{"no partial match", url.Values{"issue_title": {"New"}}, false},
		{"case sensitive", url.Values{"created_by": {"paul"}}, false},
		{"open true", url.Values{"open": {"true"}}, true},
		{"open false", url.Values{"open": {"false"}}, false},
		{"by id", url.Values{"_id": {"abc"}}, true},
		{"created_on exact", url.Values{"created_on": {issue.CreatedOn.Format(time.RFC3339Nano)}}, true},
		{"created_on other zone", url.Values{"created_on": {issue.CreatedOn.In(time.FixedZone("X", 3600)).Format(time.RFC3339Nano)}}, true},
		{"updated_on differs", url.Values{"updated_on": {issue.UpdatedOn.Add(time.Second).Format(time.RFC3339Nano)}}, false},
		{"created_on finer than stored", url.Values{"created_on": {issue.CreatedOn.Add(123 * time.Microsecond).Format(time.RFC3339Nano)}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseFilter(tc.query).Matches(issue))
		})
	}
}

func TestPatchApply(t *testing.T) {
	issue := sampleIssue()
	now := issue.UpdatedOn.Add(time.Minute)

	status := "Finished"
	empty := ""
	closed := false
	p := Patch{StatusText: &status, IssueTitle: &empty, Open: &closed}

	require.False(t, p.IsEmpty())
	p.Apply(&issue, now)

	assert.Equal(t, "Finished", issue.StatusText)
	assert.Equal(t, "New Title", issue.IssueTitle, "empty strings never overwrite")
	assert.False(t, issue.Open)
	assert.Equal(t, now, issue.UpdatedOn)
	assert.Equal(t, "John", issue.AssignedTo)
	assert.True(t, Patch{}.IsEmpty())

	p = Patch{AssignedTo: &empty, StatusText: &empty}
	p.Apply(&issue, now)
	assert.Equal(t, "", issue.AssignedTo)
	assert.Equal(t, "", issue.StatusText)
}

func TestPatchNormalize(t *testing.T) {
	empty := ""
	text := "Updated issue text"
	p := Patch{IssueTitle: &empty, CreatedBy: &empty, IssueText: &text}.Normalize()

	assert.Nil(t, p.IssueTitle)
	assert.Nil(t, p.CreatedBy)
	require.NotNil(t, p.IssueText)
	assert.Equal(t, text, *p.IssueText)
	assert.True(t, Patch{IssueTitle: &empty}.Normalize().IsEmpty())

	cleared := Patch{AssignedTo: &empty, StatusText: &empty}.Normalize()
	assert.False(t, cleared.IsEmpty())
	require.NotNil(t, cleared.AssignedTo)
	assert.Equal(t, "", *cleared.AssignedTo)
}
