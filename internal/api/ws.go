package api

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"product-catalog-admin/internal/listing"
)

const wsWriteTimeout = 5 * time.Second

// Message types exchanged over /ws.
const (
	MessageSearch  = "search"  // client: a keystroke in the search box
	MessageFlush   = "flush"   // client: apply the search now
	MessageChanged = "changed" // server: the view changed, refetch it
)

// wsMessage is one frame on the events socket.
type wsMessage struct {
	Type string `json:"type"`
	Q    string `json:"q,omitempty"`
}

// Events upgrades to a websocket. Search keystrokes flow in and are
// debounced by the session controller; a "changed" frame flows out after
// every state change.
func (h *HTTPHandler) Events(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r)

	// The socket is long lived; drop the server's per-request write deadline.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.CloseNow()

	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.readEvents(ctx, cancel, ws, ctrl)

	for {
		select {
		case <-ctx.Done():
			ws.Close(websocket.StatusNormalClosure, "")
			return
		case _, ok := <-updates:
			if !ok {
				ws.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(wctx, ws, wsMessage{Type: MessageChanged})
			wcancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}

func (h *HTTPHandler) readEvents(ctx context.Context, done context.CancelFunc, ws *websocket.Conn, ctrl *listing.Controller) {
	defer done()
	for {
		var msg wsMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			return
		}
		switch msg.Type {
		case MessageSearch:
			ctrl.SetSearch(msg.Q)
		case MessageFlush:
			ctrl.FlushSearch()
		default:
			h.log.Debug().Str("type", msg.Type).Msg("ignoring websocket message")
		}
	}
}
