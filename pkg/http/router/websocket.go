package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gobwas/ws"
	"github.com/lintang-b-s/navigatorx-ar/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-ar/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/navigatorx-ar/pkg/http/server"
	"github.com/mailru/easygo/netpoll"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// handleWebsocket serves pose frames on config.WebsocketPort until ctx is done.
func (api *API) handleWebsocket(ctx context.Context, config http_server.Config,
	sessionService controllers.SessionService,
) error {
	viper.SetDefault("WEBSOCKET_POOL_SIZE", 128)
	viper.SetDefault("WEBSOCKET_POOL_QUEUE", 64)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", config.WebsocketPort))
	if err != nil {
		return err
	}
	api.log.Info(fmt.Sprintf("scene websocket API run on port %d", config.WebsocketPort))

	acceptDesc, err := netpoll.HandleListener(ln, netpoll.EventRead|netpoll.EventOneShot)
	if err != nil {
		ln.Close()
		return err
	}

	api.poller, err = netpoll.New(nil)
	if err != nil {
		ln.Close()
		return err
	}

	api.pool = concurrent.NewPool(viper.GetInt("WEBSOCKET_POOL_SIZE"), viper.GetInt("WEBSOCKET_POOL_QUEUE"))
	api.hub = controllers.NewHub(sessionService, api.log)

	api.pool.Spawn(8)
	// accept carries the result of the next Accept().
	accept := make(chan error, 1)

	api.poller.Start(acceptDesc, func(netpoll.Event) {
		// the listener is registered one-shot; re-arm it once this connection is handled.
		defer api.poller.Resume(acceptDesc)
		err := api.pool.ScheduleTimeout(time.Millisecond, func() {
			conn, err := ln.Accept()
			if err != nil {
				accept <- err
				return
			}

			accept <- nil
			api.handle(conn)
		})
		if err == nil {
			err = <-accept
		}
		if err != nil {
			var ne net.Error
			switch {
			case errors.Is(err, concurrent.ErrPoolClosed), errors.Is(err, net.ErrClosed):
				return
			case errors.Is(err, concurrent.ErrScheduleTimeout), errors.As(err, &ne) && ne.Timeout():
				// pool saturated: cool down before accepting again.
				delay := 5 * time.Millisecond
				api.log.Sugar().Infof("accept error: %v; retrying in %s", err, delay)
				time.Sleep(delay)
			default:
				api.log.Error("accept error", zap.Error(err))
			}
		}
	})

	<-ctx.Done()

	api.poller.Stop(acceptDesc)
	ln.Close()
	api.hub.RemoveAllUser()
	api.pool.Close()

	api.log.Info("websocket server stopped")
	return nil
}

/*
handle. upgrade conn and register it with the poller. every readable event schedules
one frame on the pool, so idle connections hold no goroutine.
ref: https://sergey.kamardin.org/articles/million-websocket-and-go/
*/
func (api *API) handle(conn net.Conn) {
	hs, err := upgrade(conn)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("connection", nameConn(conn)))
		conn.Close()
		return
	}

	api.log.Info("established websocket connection", zap.String("connection", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	user := api.hub.Register(conn)

	desc, err := netpoll.HandleRead(conn)
	if err != nil {
		api.log.Error("register connection", zap.Error(err))
		api.hub.Remove(user)
		return
	}

	api.poller.Start(desc, func(ev netpoll.Event) {
		if ev&(netpoll.EventReadHup|netpoll.EventHup) != 0 {
			api.log.Info("user disconnected from websocket server", zap.Uint("user", user.ID()))
			api.poller.Stop(desc)
			api.hub.Remove(user)
			return
		}

		err := api.pool.Schedule(func() {
			if err := user.HandleFrame(); err != nil {
				api.log.Info("closing websocket connection", zap.Uint("user", user.ID()), zap.Error(err))
				api.poller.Stop(desc)
				api.hub.Remove(user)
			}
		})
		if err != nil {
			api.poller.Stop(desc)
			api.hub.Remove(user)
		}
	})
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}

// handshakeReader hands out one byte per Read so the upgrader's line reader
// never buffers past the end of the request; frames sent in the same packet
// stay on the socket for the poller.
type handshakeReader struct {
	r io.Reader
}

func (h handshakeReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return h.r.Read(p)
}

func upgrade(conn net.Conn) (ws.Handshake, error) {
	rw := struct {
		io.Reader
		io.Writer
	}{handshakeReader{conn}, conn}
	return ws.Upgrade(rw)
}
