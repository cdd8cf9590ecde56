package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query        string
		page, perPag int
	}{
		{"", 1, 10},
		{"?page=3&per_page=25", 3, 25},
		{"?page=-1&per_page=500", 1, 10},
		{"?page=abc", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/x"+tt.query, nil)
			page, size := GetPaginationParams(c)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.perPag, size)
		})
	}
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, Meta{Total: 21, CurrentPage: 2, PerPage: 10, TotalPage: 3}, NewMeta(21, 2, 10))
	assert.Equal(t, 0, NewMeta(0, 1, 10).TotalPage)
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("budi-ani"))
	assert.True(t, IsSlug("a1"))
	assert.False(t, IsSlug("Budi-Ani"))
	assert.False(t, IsSlug("budi--ani"))
	assert.False(t, IsSlug("-budi"))
	assert.False(t, IsSlug("budi ani"))
	assert.False(t, IsSlug(""))
}

func TestIsOpaqueID(t *testing.T) {
	assert.True(t, IsOpaqueID(uuid.NewString()))
	assert.False(t, IsOpaqueID("budi-ani"))
}

func TestRandomSuffix(t *testing.T) {
	re := regexp.MustCompile(`^[a-z0-9]{4}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, RandomSuffix(4))
	}
}
