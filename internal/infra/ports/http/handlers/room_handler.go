package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/domain/models"
	"github.com/qrave1/markcollab/internal/infra/ports/http/dto"
	"github.com/qrave1/markcollab/internal/infra/ports/http/views"
	"github.com/qrave1/markcollab/internal/usecase"
)

type RoomHandler struct {
	roomUsecase usecase.RoomUsecase

	hubPath string
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase, hubPath string) *RoomHandler {
	return &RoomHandler{
		roomUsecase: roomUsecase,
		hubPath:     hubPath,
	}
}

func (h *RoomHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, views.Index, nil)
}

// RoomPage принимает код как из пути, так и из query-параметра code
func (h *RoomHandler) RoomPage(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		code = c.QueryParam("code")
	}

	if code == "" {
		return c.Redirect(http.StatusFound, "/")
	}

	code = strings.ToUpper(code)

	_, err := h.roomUsecase.GetRoom(c.Request().Context(), code)
	if errors.Is(err, models.ErrRoomNotFound) {
		return c.Redirect(http.StatusFound, "/")
	}

	if err != nil {
		slog.Error("get room", slog.Any(constant.Error, err), slog.String(constant.RoomCode, code))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to get room"})
	}

	return c.Render(http.StatusOK, views.Room, views.RoomData{RoomCode: code, HubPath: h.hubPath})
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	room, err := h.roomUsecase.CreateRoom(c.Request().Context())
	if err != nil {
		slog.Error("create room", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to create room"})
	}

	return c.JSON(http.StatusOK, dto.CreateRoomResponse{RoomCode: room.Code})
}
