package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/application/ranking"
	"github.com/ideation/backend/internal/domain/scoring"
	"github.com/ideation/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	defaultStreamHeartbeat  = 30 * time.Second
	defaultStreamMaxClients = 1000
)

// streamEvent is one server-sent event
type streamEvent struct {
	Event string
	ID    string
	Data  string
}

// RankingHandler serves the ranking table and its live stream
type RankingHandler struct {
	BaseHandler
	ranking    RankingService
	feed       RankingFeed
	logger     *zap.Logger
	heartbeat  time.Duration
	maxClients int
}

// RankingOption configures a RankingHandler
type RankingOption func(*RankingHandler)

// WithRankingLogger sets the logger
func WithRankingLogger(logger *zap.Logger) RankingOption {
	return func(h *RankingHandler) {
		h.logger = logger
	}
}

// WithStreamHeartbeat sets the interval of keep-alive events
func WithStreamHeartbeat(interval time.Duration) RankingOption {
	return func(h *RankingHandler) {
		h.heartbeat = interval
	}
}

// WithStreamMaxClients caps concurrent stream subscribers. Zero disables the cap.
func WithStreamMaxClients(n int) RankingOption {
	return func(h *RankingHandler) {
		h.maxClients = n
	}
}

// NewRankingHandler creates a new ranking handler. feed may be nil, in which
// case the stream endpoint answers 503.
func NewRankingHandler(svc RankingService, feed RankingFeed, opts ...RankingOption) *RankingHandler {
	h := &RankingHandler{
		ranking:    svc,
		feed:       feed,
		logger:     zap.NewNop(),
		heartbeat:  defaultStreamHeartbeat,
		maxClients: defaultStreamMaxClients,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Get godoc
// @Summary      Player ranking
// @Description  Per-player ideas, comments, evaluations and XP with a totals footer
// @Tags         ranking
// @Produce      json
// @Param        sort query string false "Column" Enums(name, team, ideas, comments, inspired, evaluations, streak, xp) default(xp)
// @Param        dir  query string false "Direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=ranking.Response}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ranking [get]
func (h *RankingHandler) Get(c *gin.Context) {
	resp, err := h.ranking.Get(c.Request.Context(), c.Query("sort"), c.Query("dir"))
	if err != nil {
		h.rankingError(c, err)
		return
	}
	h.Success(c, resp)
}

// Stream godoc
// @Summary      Live ranking via SSE
// @Description  Sends a "ranking" event with the full table on connect and after every change. EventSource clients pass the token as access_token.
// @Tags         ranking
// @Produce      text/event-stream
// @Param        sort         query string false "Column" Enums(name, team, ideas, comments, inspired, evaluations, streak, xp)
// @Param        dir          query string false "Direction" Enums(asc, desc)
// @Param        access_token query string false "Access token"
// @Success      200 {string} string "SSE stream"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ranking/stream [get]
func (h *RankingHandler) Stream(c *gin.Context) {
	if h.feed == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Live ranking is not available")
		return
	}
	if h.maxClients > 0 && h.feed.Subscribers() >= h.maxClients {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Maximum number of stream connections reached")
		return
	}

	column, direction := c.Query("sort"), c.Query("dir")
	ctx := c.Request.Context()

	// resolve once before switching to the event stream so a bad sort key
	// gets a normal error response
	first, err := h.ranking.Get(ctx, column, direction)
	if err != nil {
		h.rankingError(c, err)
		return
	}

	changes, cancel := h.feed.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	clientID := uuid.NewString()
	h.logger.Info("Ranking stream connected", zap.String("client_id", clientID))
	defer h.logger.Info("Ranking stream disconnected", zap.String("client_id", clientID))

	writeEvent(c.Writer, streamEvent{
		Event: "connected",
		Data:  fmt.Sprintf(`{"client_id":%q,"timestamp":%d}`, clientID, time.Now().Unix()),
	})
	var seq uint64
	h.sendRanking(c.Writer, &seq, first)
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			resp, err := h.ranking.Get(ctx, column, direction)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				h.logger.Warn("Ranking stream refresh failed", zap.String("client_id", clientID), zap.Error(err))
				continue
			}
			h.sendRanking(c.Writer, &seq, resp)
			c.Writer.Flush()
		case <-heartbeat.C:
			writeEvent(c.Writer, streamEvent{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		}
	}
}

func (h *RankingHandler) rankingError(c *gin.Context, err error) {
	if errors.Is(err, scoring.ErrUnknownColumn) || errors.Is(err, scoring.ErrUnknownDirection) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}
	h.HandleError(c, err)
}

func (h *RankingHandler) sendRanking(w io.Writer, seq *uint64, resp *ranking.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("Failed to marshal ranking event", zap.Error(err))
		return
	}
	*seq++
	writeEvent(w, streamEvent{Event: "ranking", ID: fmt.Sprint(*seq), Data: string(data)})
}

func writeEvent(w io.Writer, e streamEvent) {
	if e.Event != "" {
		fmt.Fprintf(w, "event: %s\n", e.Event)
	}
	if e.ID != "" {
		fmt.Fprintf(w, "id: %s\n", e.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", e.Data)
}
