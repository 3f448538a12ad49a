package providers

import (
	"strings"

	"github.com/CardinalApps/cardinal-web-server/src/hub"
	"github.com/CardinalApps/cardinal-web-server/src/types"
	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
)

var upgrader = websocket.FastHTTPUpgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients connect from the desktop shell and from browsers on the local
	// network; origin checks are the hosting environment's concern.
	CheckOrigin: func(*fasthttp.RequestCtx) bool { return true },
}

// WebSocketHandler returns a raw fasthttp handler for WebSocket upgrades.
// Register this on the fasthttp server for the "/ws" path and its subpaths;
// the request path reaches the profile resolver, so a browser connecting to
// /ws/music is recognized as the music web app.
func (p *Provider) WebSocketHandler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		upgrade := string(ctx.Request.Header.Peek("Upgrade"))
		if !strings.EqualFold(upgrade, "websocket") {
			ctx.SetStatusCode(fasthttp.StatusUpgradeRequired)
			ctx.SetBodyString(`{"error":"upgrade_required","message":"WebSocket upgrade required"}`)
			return
		}

		// Capture handshake metadata before the upgrade takes over the ctx.
		meta := types.ConnMeta{
			RemoteAddr: ctx.RemoteAddr().String(),
			UserAgent:  string(ctx.Request.Header.UserAgent()),
			Path:       string(ctx.Path()),
		}

		err := upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
			c := p.hub.OnNewSocket(&fasthttpConn{conn}, meta)
			c.ReadPump()
		})
		if err != nil {
			p.logger.Error().Err(err).Msg("websocket upgrade failed")
		}
	}
}

// Hub returns the hub behind this provider.
func (p *Provider) Hub() *hub.Hub { return p.hub }

// fasthttpConn wraps fasthttp/websocket.Conn to satisfy types.Conn.
type fasthttpConn struct {
	conn *websocket.Conn
}

func (f *fasthttpConn) ReadMessage() ([]byte, error) {
	_, data, err := f.conn.ReadMessage()
	return data, err
}

func (f *fasthttpConn) WriteJSON(v any) error { return f.conn.WriteJSON(v) }
func (f *fasthttpConn) Close() error          { return f.conn.Close() }
