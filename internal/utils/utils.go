package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetPaginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}

// Meta describes one page of a listing.
type Meta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

func NewMeta(total int64, page, pageSize int) Meta {
	return Meta{
		Total:       total,
		CurrentPage: page,
		PerPage:     pageSize,
		TotalPage:   int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsSlug reports whether s is a lowercase, dash-separated slug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// IsOpaqueID reports whether identifier is a storage id rather than a human slug.
func IsOpaqueID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomSuffix returns n characters from [a-z0-9].
func RandomSuffix(n int) string {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(suffixAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			idx = big.NewInt(int64(i % len(suffixAlphabet)))
		}
		out[i] = suffixAlphabet[idx.Int64()]
	}
	return string(out)
}
