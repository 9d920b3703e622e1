package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery(t *testing.T) {
	query, err := url.ParseQuery("filter[status]=open&filter[equipment_id]=abc&sort[due_date]=asc&limit=10&offset=20&search=mower")
	assert.NoError(t, err)

	f := ParseFilterFromQuery(query)
	assert.Equal(t, "open", f.Filter["status"])
	assert.Equal(t, "abc", f.Filter["equipment_id"])
	assert.Equal(t, "asc", f.Sort["due_date"])
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
	assert.Equal(t, "mower", f.Search)
}

func TestParseFilterDefaults(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{})
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.Empty(t, f.Filter)
}

func TestParseFilterClampsLimit(t *testing.T) {
	query := url.Values{"limit": []string{"99999"}}
	f := ParseFilterFromQuery(query)
	assert.Equal(t, MaxLimit, f.Limit)

	query = url.Values{"limit": []string{"-5"}}
	f = ParseFilterFromQuery(query)
	assert.Equal(t, DefaultLimit, f.Limit)
}
