package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQueryDefaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.True(t, filter.WithPagination)
}

func TestParseFilterFromQueryFullGrammar(t *testing.T) {
	values, err := url.ParseQuery("search=cash&sort[order]=desc&filter[type_account]=A&filter[type_account]=P&limit=10&page=3")
	assert.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "cash", filter.Search)
	assert.Equal(t, "desc", filter.Sort["order"])
	assert.Equal(t, "A,P", filter.Filter["type_account"])
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 20, filter.Offset)
}

func TestParseFilterFromQueryLimitCap(t *testing.T) {
	values := url.Values{"limit": {"99999"}}

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, MaxLimit, filter.Limit)
}

func TestParseFilterFromQueryInvalidSortDirection(t *testing.T) {
	values, err := url.ParseQuery("sort[order]=sideways")
	assert.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Empty(t, filter.Sort)
}

func TestParseFilterFromQueryWithoutPagination(t *testing.T) {
	values := url.Values{"withPagination": {"false"}}

	filter := ParseFilterFromQuery(values)

	assert.False(t, filter.WithPagination)
}
