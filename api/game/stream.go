package gameapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-roads/api/i"
	"github.com/beka-birhanu/vinom-roads/api/identity"
	"github.com/beka-birhanu/vinom-roads/infrastruture/token"
	service_i "github.com/beka-birhanu/vinom-roads/service/i"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Stream pushes the caller's map state over a websocket after every tick.
type Stream struct {
	world    i.World
	logger   service_i.Logger
	upgrader websocket.Upgrader
	subs     map[chan struct{}]struct{}
	sync.Mutex
}

// NewStream creates a Stream fed by the ticks of clock.
func NewStream(world i.World, clock i.Clock, logger service_i.Logger) *Stream {
	s := &Stream{
		world:  world,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs: make(map[chan struct{}]struct{}),
	}
	clock.OnTick(s.notify)
	return s
}

// notify wakes every subscriber. A subscriber still busy with the previous
// tick gets a single pending wake-up.
func (s *Stream) notify() {
	s.Lock()
	defer s.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Stream) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.Lock()
	s.subs[ch] = struct{}{}
	s.Unlock()
	return ch
}

func (s *Stream) unsubscribe(ch chan struct{}) {
	s.Lock()
	delete(s.subs, ch)
	s.Unlock()
}

// Serve upgrades the request and streams state until the client leaves or the
// player retires. The token comes from the Authorization header or the token
// query parameter.
func (s *Stream) Serve(ctx *gin.Context) {
	tok, ok := identity.BearerToken(ctx.GetHeader("Authorization"))
	if !ok {
		tok = ctx.Query("token")
		if !token.IsWellFormed(tok) {
			abort(ctx, http.StatusUnauthorized, i.CodeInvalidToken, "Player token is required")
			return
		}
	}
	if _, ok := s.world.MapIDForToken(tok); !ok {
		abort(ctx, http.StatusUnauthorized, i.CodeUnknownToken, "Player token has not been found")
		return
	}

	conn, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("stream upgrade: %s", err))
		return
	}
	defer conn.Close()

	wake := s.subscribe()
	defer s.unsubscribe(wake)

	// The reader only watches for the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !s.push(conn, tok) {
		return
	}
	for {
		select {
		case <-gone:
			return
		case <-wake:
			if !s.push(conn, tok) {
				return
			}
		}
	}
}

func (s *Stream) push(conn *websocket.Conn, tok string) bool {
	state, err := s.world.State(tok)
	if err != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "player retired")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		return false
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(newStateResponse(state)); err != nil {
		return false
	}
	return true
}
