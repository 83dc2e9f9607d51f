package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, target string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/", DefaultLimit, 0},
		{"explicit", "/?limit=10&offset=30", 10, 30},
		{"limit capped", "/?limit=9999", MaxLimit, 0},
		{"negative offset clamped", "/?offset=-5", DefaultLimit, 0},
		{"garbage ignored", "/?limit=abc&offset=xyz", DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paramsFor(t, tt.target)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestSlice(t *testing.T) {
	p := Params{Limit: 10, Offset: 95}
	from, to := p.Slice(100)
	assert.Equal(t, 95, from)
	assert.Equal(t, 100, to)

	from, to = Params{Limit: 10, Offset: 200}.Slice(100)
	assert.Equal(t, 100, from)
	assert.Equal(t, 100, to)
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	assert.True(t, r.HasMore)

	r = NewResponse([]int{1}, 10, 5, 9)
	assert.False(t, r.HasMore)
}
