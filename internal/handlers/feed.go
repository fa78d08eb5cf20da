package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"blog_app/internal/logger"
	"blog_app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMsgSize      = 1 << 12 // 4 KB
	defaultInterval = 5 * time.Second
	maxInterval     = 60 * time.Second

	frameTypePosts = "posts"
	frameTypeError = "error"
)

// wsEnvelope is the frame written to feed clients.
type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: sameOrigin,
}

// sameOrigin accepts requests without an Origin header or whose Origin host
// matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// intervalParam reads one query parameter into a tick duration.
type intervalParam struct {
	key   string
	parse func(string) (time.Duration, error)
}

// intervalParams are tried in order; the first valid one wins.
var intervalParams = []intervalParam{
	{key: "interval", parse: time.ParseDuration},
	{key: "interval_ms", parse: func(s string) (time.Duration, error) {
		v, err := strconv.Atoi(s)
		return time.Duration(v) * time.Millisecond, err
	}},
}

// parseInterval picks the tick from ?interval=2s or ?interval_ms=2000, within
// (0, maxInterval], falling back to the handler's configured tick.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	for _, p := range intervalParams {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		if d, err := p.parse(raw); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	return h.feedInterval
}

// @Summary      Live post feed
// @Description  WebSocket. Sends {"type":"posts","data":[...]} on connect and every interval.
// @Tags         posts
// @Param        interval     query  string  false  "Tick, Go duration (e.g. 2s)"
// @Param        interval_ms  query  int     false  "Tick in milliseconds"
// @Router       /ws/feed [get]
// @Security     CookieAuth
func (h *Handler) feedConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}

	fc := &feedClient{conn: conn, posts: h.services.Posts, log: h.log}
	if u := currentUser(c); u != nil {
		fc.userID = u.ID
	}
	fc.serve(c.Request.Context(), interval)
}

// feedClient is one websocket subscriber of the post list.
type feedClient struct {
	conn   *websocket.Conn
	posts  service.Posts
	log    *logger.Logger
	userID int64
}

// serve pushes the post list now and on every tick until the peer goes away,
// a write fails or ctx ends. The connection is closed on return.
func (fc *feedClient) serve(ctx context.Context, interval time.Duration) {
	defer func() { _ = fc.conn.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go fc.watchPeer(cancel)

	if err := fc.pushPosts(ctx); err != nil {
		fc.logEnd("initial_push", err)
		return
	}

	ticks := time.NewTicker(interval)
	defer ticks.Stop()
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case <-pings.C:
			err = fc.write(websocket.PingMessage, nil)
		case <-ticks.C:
			err = fc.pushPosts(ctx)
		}
		if err != nil {
			fc.logEnd("write", err)
			return
		}
	}
}

// watchPeer reads until the peer closes or stops answering pings, then
// cancels the serve loop. Reading is also what runs the pong handler.
func (fc *feedClient) watchPeer(cancel context.CancelFunc) {
	defer cancel()

	fc.conn.SetReadLimit(maxMsgSize)
	_ = fc.conn.SetReadDeadline(time.Now().Add(pongWait))
	fc.conn.SetPongHandler(func(string) error {
		return fc.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := fc.conn.NextReader(); err != nil {
			fc.logEnd("peer_closed", err)
			return
		}
	}
}

// pushPosts sends the current list. When loading fails the client gets an
// error frame and the returned error ends the stream.
func (fc *feedClient) pushPosts(ctx context.Context) error {
	posts, err := fc.posts.List(ctx)
	if err != nil {
		if fc.log != nil {
			fc.log.Errorw("ws_list_posts_failed", "user_id", fc.userID, "err", err)
		}
		_ = fc.writeJSON(wsEnvelope{Type: frameTypeError, Error: "failed to load posts"})
		return err
	}
	return fc.writeJSON(wsEnvelope{Type: frameTypePosts, Data: toPostsOut(posts)})
}

func (fc *feedClient) write(messageType int, data []byte) error {
	_ = fc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return fc.conn.WriteMessage(messageType, data)
}

func (fc *feedClient) writeJSON(v any) error {
	_ = fc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return fc.conn.WriteJSON(v)
}

func (fc *feedClient) logEnd(stage string, err error) {
	if fc.log != nil {
		fc.log.Infow("ws_feed_closed", "stage", stage, "user_id", fc.userID, "err", err)
	}
}
