package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"storyforge/internal/jobstore"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
	watchPollEvery   = time.Second
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// WatchHandler streams job snapshots over a websocket until the job reaches
// a terminal status. The store is the single source of truth; the stream is
// a poll of it, so watchers survive server-side pipeline restarts.
type WatchHandler struct {
	jobs *jobstore.Store
}

func NewWatchHandler(jobs *jobstore.Store) *WatchHandler {
	return &WatchHandler{jobs: jobs}
}

func (h *WatchHandler) HandleWatchWS(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimSpace(r.URL.Query().Get("job_id"))
	if jobID == "" {
		http.Error(w, "job_id is required", http.StatusBadRequest)
		return
	}
	if _, ok := h.jobs.Get(jobID); !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	// Read pump exists only to process pong frames and notice the peer
	// going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(v any) bool {
		if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
			return false
		}
		return conn.WriteJSON(v) == nil
	}

	poll := time.NewTicker(watchPollEvery)
	defer poll.Stop()
	ping := time.NewTicker(watchWSPingEvery)
	defer ping.Stop()

	var lastUpdated time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-poll.C:
			job, ok := h.jobs.Get(jobID)
			if !ok {
				return
			}
			if !job.UpdatedAt.After(lastUpdated) {
				continue
			}
			lastUpdated = job.UpdatedAt
			if !send(viewOf(job)) {
				return
			}
			if job.Status == jobstore.StatusCompleted || job.Status == jobstore.StatusFailed {
				return
			}
		}
	}
}
