package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-assistant/internal/core/recipe"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeBackfiller struct {
	metadataLimit int
	imagesLimit   int
	err           error
}

func (f *fakeBackfiller) BackfillMetadata(_ context.Context, limit int) (*recipe.BackfillReport, error) {
	f.metadataLimit = limit
	return &recipe.BackfillReport{Scanned: 2, Updated: 2}, f.err
}

func (f *fakeBackfiller) BackfillImages(_ context.Context, limit int) (*recipe.BackfillReport, error) {
	f.imagesLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return &recipe.BackfillReport{Scanned: 3, Updated: 1, Failed: 2}, nil
}

func setup(b *fakeBackfiller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(b)
	r := gin.New()
	r.POST("/admin/backfill/metadata", h.HandleBackfillMetadata)
	r.POST("/admin/backfill/images", h.HandleBackfillImages)
	return r
}

func TestBackfillLimits(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", recipe.DefaultBackfillLimit},
		{"?limit=25", 25},
		{"?limit=99999", 3000},
		{"?limit=abc", recipe.DefaultBackfillLimit},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			b := &fakeBackfiller{}
			w := httptest.NewRecorder()
			setup(b).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/backfill/metadata"+tt.query, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, b.metadataLimit)
			assert.JSONEq(t, `{"scanned":2,"updated":2,"failed":0}`, w.Body.String())
		})
	}
}

func TestBackfillImages(t *testing.T) {
	b := &fakeBackfiller{}
	w := httptest.NewRecorder()
	setup(b).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/backfill/images?limit=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, b.imagesLimit)
	assert.JSONEq(t, `{"scanned":3,"updated":1,"failed":2}`, w.Body.String())
}

func TestBackfillStoreError(t *testing.T) {
	b := &fakeBackfiller{err: errors.New("database is locked")}
	w := httptest.NewRecorder()
	setup(b).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/backfill/images", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
