package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"couplecall/internal/usecase"
	"couplecall/internal/usecase/broker"
	"couplecall/pkg/logger"
	"couplecall/pkg/signal"
)

// EventCall is the websocket event carrying an entity.CallEvent.
const EventCall = "call"

type watchRoutes struct {
	s   usecase.Signaling
	hub *broker.Hub
	u   *websocket.Upgrader
	l   logger.Interface
}

func newWatchRoutes(handler *gin.RouterGroup, s usecase.Signaling, hub *broker.Hub, u *websocket.Upgrader, l logger.Interface) {
	r := &watchRoutes{s, hub, u, l}

	handler.GET("/call/watch", r.watch)
}

// @Summary     Watch the call
// @Description Websocket pushing {"event":"call","data":CallEvent} after every write to the couple's call.
// @Description Events only hint that the record changed; clients still read it with GET /call.
// @ID          watch
// @Tags  	    call
// @Param       X-User-ID header string true "authenticated user id"
// @Success     101
// @Failure     401 {object} response
// @Failure     403 {object} response
// @Router      /call/watch [get]
func (r *watchRoutes) watch(c *gin.Context) {
	id, err := r.s.Identity(c.Request.Context(), userID(c))
	if err != nil {
		signalingError(c, r.l, err, "watch")

		return
	}

	conn, err := r.u.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already answered the client.
		r.l.Debug(err, "http - v1 - watch - upgrade")

		return
	}

	sub := r.hub.Subscribe(id.CoupleID)
	defer sub.Close()

	sig := signal.New(conn)
	defer sig.Close()

	_watchers.Inc()
	defer _watchers.Dec()

	go func() {
		if err := sig.WriteLoop(); err != nil {
			r.l.Debug(err, "http - v1 - watch - write")
		}
	}()

	go func() {
		if err := sig.ReadLoop(); err != nil {
			r.l.Debug(err, "http - v1 - watch - read")
		}
	}()

	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return
			}

			if err := sig.SendObject(EventCall, ev); err != nil {
				return
			}

		case <-sig.Done():
			return
		}
	}
}
