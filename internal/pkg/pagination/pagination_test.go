package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, 1, 10, 0},
		{"third page", 3, 20, 3, 20, 40},
		{"clamped limit", 1, 500, 1, 100, 0},
		{"negative page", -2, 5, 1, 5, 0},
		{"huge page", math.MaxInt, 100, MaxPage, 100, (MaxPage - 1) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.limit, DefaultLimit, MaxLimit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewWithoutMaxLimit(t *testing.T) {
	p := New(1, math.MaxInt, DefaultLimit, 0)
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestGetMetaHugePage(t *testing.T) {
	meta := GetMeta(New(math.MaxInt, math.MaxInt, DefaultLimit, MaxLimit), 250)
	assert.Equal(t, MaxPage, meta.CurrentPage)
	assert.Equal(t, 3, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(New(2, 10, DefaultLimit, MaxLimit), 21)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(21), meta.TotalRecords)
	assert.True(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)

	last := GetMeta(New(3, 10, DefaultLimit, MaxLimit), 21)
	assert.False(t, last.HasNextPage)

	empty := GetMeta(New(1, 10, DefaultLimit, MaxLimit), 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
}

func TestGetParams(t *testing.T) {
	app := fiber.New()
	var got Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?page=4&limit=25", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 4, got.Page)
	assert.Equal(t, 25, got.Limit)
}
