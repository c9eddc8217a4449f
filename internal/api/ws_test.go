package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents_SearchKeystrokeNotifiesChange(t *testing.T) {
	ms := new(MockCatalogStore)
	expectLoad(ms, testCatalog(3))
	router, _ := newTestRouter(ms)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c := &testClient{t: t, router: router}
	c.waitLoaded()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http")+"/ws", &websocket.DialOptions{
		HTTPHeader: http.Header{"Cookie": {c.cookie.String()}},
	})
	require.NoError(t, err)
	defer ws.CloseNow()

	require.NoError(t, wsjson.Write(ctx, ws, wsMessage{Type: MessageSearch, Q: "widget"}))

	var msg wsMessage
	require.NoError(t, wsjson.Read(ctx, ws, &msg))
	assert.Equal(t, MessageChanged, msg.Type)
	assert.Equal(t, "widget", c.view().SearchTerm)

	require.NoError(t, wsjson.Write(ctx, ws, wsMessage{Type: MessageFlush}))
	require.NoError(t, wsjson.Read(ctx, ws, &msg))
	assert.Equal(t, "widget", c.view().DebouncedSearchTerm)

	ws.Close(websocket.StatusNormalClosure, "")
}
