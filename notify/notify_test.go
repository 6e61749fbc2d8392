package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookPostsCompletion(t *testing.T) {
	var got CourseCompleted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err := NewWebhook(srv.URL).CourseCompleted(context.Background(), CourseCompleted{UserID: 7, CourseID: 3, CompletedAt: at})
	require.NoError(t, err)

	assert.Equal(t, "course.completed", got.Event)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, uint(3), got.CourseID)
	assert.True(t, at.Equal(got.CompletedAt))
}

func TestWebhookRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).CourseCompleted(context.Background(), CourseCompleted{UserID: 1, CourseID: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWebhookClientErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).CourseCompleted(context.Background(), CourseCompleted{})
	assert.Error(t, err)
}

func TestNewWithoutURLIsNop(t *testing.T) {
	n := New("")
	assert.IsType(t, Nop{}, n)
	assert.NoError(t, n.CourseCompleted(context.Background(), CourseCompleted{}))
}
