package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// ChatHandler handles chat rooms and messages
type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/chat/rooms", h.OpenRoom)
	g.GET("/chat/rooms", h.GetRooms)
	g.GET("/chat/rooms/:id/messages", h.GetMessages)
	g.POST("/chat/rooms/:id/messages", h.SendMessage)
}

// OpenRoom returns the room shared with the given party, creating it if
// this pair has never chatted
func (h *ChatHandler) OpenRoom(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req models.OpenRoomRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	otherID, err := uuid.Parse(req.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	other := models.Actor{Kind: models.ActorKind(req.Kind), ID: otherID}

	room, err := h.chat.GetOrCreateRoom(c.Request().Context(), actor, other)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, room.View())
}

func (h *ChatHandler) GetRooms(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	rooms, err := h.chat.Rooms(c.Request().Context(), actor)
	if err != nil {
		return httpError(c, err)
	}
	views := make([]models.ChatRoomView, 0, len(rooms))
	for i := range rooms {
		views = append(views, rooms[i].View())
	}
	return ok(c, echo.Map{"rooms": views})
}

// GetMessages returns the latest messages in store order
func (h *ChatHandler) GetMessages(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	roomID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	messages, err := h.chat.Messages(c.Request().Context(), actor, roomID, limit)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"messages": messages})
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	roomID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.chat.SendMessage(c.Request().Context(), actor, roomID, req)
	if err != nil {
		return httpError(c, err)
	}
	return created(c, msg)
}
