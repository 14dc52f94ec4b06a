package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/application/ranking"
	"github.com/ideation/backend/internal/domain/scoring"
	"github.com/ideation/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleRanking() *ranking.Response {
	return &ranking.Response{
		Rows:      []scoring.Row{{PlayerID: uuid.New(), DisplayName: "Ada"}},
		Column:    scoring.ColumnXP,
		Direction: scoring.Descending,
	}
}

func TestRankingHandler_Get(t *testing.T) {
	svc := new(MockRankingService)
	h := NewRankingHandler(svc, nil)
	r := testRouter(uuid.New())
	r.GET("/ranking", h.Get)

	svc.On("Get", mock.Anything, "ideas", "asc").Return(sampleRanking(), nil)
	svc.On("Get", mock.Anything, "height", "").Return(nil, scoring.ErrUnknownColumn)

	w := doJSON(r, http.MethodGet, "/ranking?sort=ideas&dir=asc", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada")

	w = doJSON(r, http.MethodGet, "/ranking?sort=height", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidInput)
}

func TestRankingHandler_Stream(t *testing.T) {
	svc := new(MockRankingService)
	feed := ranking.NewBroadcaster()
	h := NewRankingHandler(svc, feed, WithStreamHeartbeat(time.Hour))
	r := testRouter(uuid.New())
	r.GET("/ranking/stream", h.Stream)

	calls := make(chan struct{}, 4)
	svc.On("Get", mock.Anything, "", "").Return(sampleRanking(), nil).Run(func(mock.Arguments) {
		calls <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/ranking/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	<-calls
	require.Eventually(t, func() bool { return feed.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	feed.Notify()
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("stream did not refresh after a change")
	}
	cancel()
	<-done

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.Equal(t, 2, strings.Count(body, "event: ranking"))
	assert.Contains(t, body, "id: 2")
	assert.Equal(t, 0, feed.Subscribers())
}

func TestRankingHandler_Stream_Limits(t *testing.T) {
	t.Run("no feed", func(t *testing.T) {
		h := NewRankingHandler(new(MockRankingService), nil)
		r := testRouter(uuid.New())
		r.GET("/ranking/stream", h.Stream)
		w := doJSON(r, http.MethodGet, "/ranking/stream", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("max clients", func(t *testing.T) {
		feed := ranking.NewBroadcaster()
		_, unsubscribe := feed.Subscribe()
		defer unsubscribe()
		h := NewRankingHandler(new(MockRankingService), feed, WithStreamMaxClients(1))
		r := testRouter(uuid.New())
		r.GET("/ranking/stream", h.Stream)
		w := doJSON(r, http.MethodGet, "/ranking/stream", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("bad sort answers json", func(t *testing.T) {
		svc := new(MockRankingService)
		svc.On("Get", mock.Anything, "", "sideways").Return(nil, scoring.ErrUnknownDirection)
		h := NewRankingHandler(svc, ranking.NewBroadcaster())
		r := testRouter(uuid.New())
		r.GET("/ranking/stream", h.Stream)
		w := doJSON(r, http.MethodGet, "/ranking/stream?dir=sideways", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	})
}
