package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/realtime"
	"github.com/pawprint-social/backend/internal/services"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// RealtimeHandler streams chat messages and notification changes over
// websockets. A subscription lives exactly as long as its connection.
type RealtimeHandler struct {
	chat          services.ChatService
	notifications services.NotificationService
	upgrader      websocket.Upgrader
}

func NewRealtimeHandler(chat services.ChatService, notifications services.NotificationService) *RealtimeHandler {
	return &RealtimeHandler{
		chat:          chat,
		notifications: notifications,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *RealtimeHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/ws/rooms/:id", h.StreamRoom)
	g.GET("/ws/notifications", h.StreamNotifications)
}

// StreamRoom pushes message.created events of one room
func (h *RealtimeHandler) StreamRoom(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	roomID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	// membership is checked before the upgrade so errors stay plain HTTP
	if _, err := h.chat.Room(c.Request().Context(), actor, roomID); err != nil {
		return httpError(c, err)
	}

	return h.stream(c, func(send func(realtime.Event)) (func(), error) {
		return h.chat.Subscribe(c.Request().Context(), actor, roomID, send)
	})
}

// StreamNotifications pushes notification.created and notification.count
// events for the acting identity
func (h *RealtimeHandler) StreamNotifications(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	return h.stream(c, func(send func(realtime.Event)) (func(), error) {
		return h.notifications.Subscribe(actor, send)
	})
}

func (h *RealtimeHandler) stream(c echo.Context, subscribe func(send func(realtime.Event)) (func(), error)) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already replied
		return nil
	}
	defer conn.Close()

	var writeMu sync.Mutex
	write := func(fn func() error) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return fn()
	}

	cancel, err := subscribe(func(ev realtime.Event) {
		if err := write(func() error { return conn.WriteJSON(ev) }); err != nil {
			c.Logger().Debugj(log.JSON{"event": "ws_write_failed", "subject": ev.Subject, "error": err.Error()})
		}
	})
	if err != nil {
		c.Logger().Errorj(log.JSON{"event": "ws_subscribe_failed", "path": c.Path(), "error": err.Error()})
		_ = write(func() error {
			return conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription unavailable"))
		})
		return nil
	}
	defer cancel()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := write(func() error { return conn.WriteMessage(websocket.PingMessage, nil) }); err != nil {
					return
				}
			}
		}
	}()
	defer close(done)

	// clients only send pongs and close frames; reading drives both
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
