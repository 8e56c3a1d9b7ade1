package testkit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopfront/app/models"
)

func TestNewDBIsMigratedAndIsolated(t *testing.T) {
	a := NewDB(t)
	b := NewDB(t)

	require.NoError(t, a.Create(&models.Category{Name: "Books"}).Error)

	var n int64
	require.NoError(t, a.Model(&models.Category{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	require.NoError(t, b.Model(&models.Category{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestDoDecodesEnvelope(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":201,"data":{"id":7}}`))
	})

	resp := Do(t, h, Request{Method: http.MethodPost, Path: "/things", Token: "tok", Body: map[string]int{"n": 1}})
	resp.AssertStatus(t, http.StatusCreated)

	var out struct {
		ID uint `json:"id"`
	}
	resp.Decode(t, &out)
	assert.Equal(t, uint(7), out.ID)

	AssertJSONEqual(t, []byte(`{"data":{"id":7},"status":201}`), resp.Raw)
}
