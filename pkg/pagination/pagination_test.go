// Copyright (c) 2026 LinkUp. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkup-app/linkup/pkg/pagination"
)

/*
TestFromRequest verifies query parsing and clamping of page and limit.
*/
func TestFromRequest(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, pagination.DefaultLimit},
		{"explicit", "page=3&limit=50", 3, 50},
		{"negative page", "page=-2", 1, pagination.DefaultLimit},
		{"zero limit", "limit=0", 1, pagination.DefaultLimit},
		{"excessive limit", "limit=5000", 1, pagination.DefaultLimit},
		{"garbage", "page=abc&limit=xyz", 1, pagination.DefaultLimit},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/?"+testCase.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, testCase.wantPage, params.Page)
			assert.Equal(t, testCase.wantLimit, params.Limit)
		})
	}
}

/*
TestOffset verifies the SQL offset derivation.
*/
func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total page computation including partial final pages.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 20, 41)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 41, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, pagination.NewMeta(1, 0, 10).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).TotalPages)
}
