package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/application/metric"
	"github.com/qrave1/markcollab/internal/domain/events"
	"github.com/qrave1/markcollab/internal/domain/models"
	"github.com/qrave1/markcollab/internal/domain/validation"
	"github.com/qrave1/markcollab/internal/infra/adapters/memory"
)

// DiagramUsecase realtime-рассылка изменений документа участникам комнаты
type DiagramUsecase interface {
	HandleJoin(ctx context.Context, connID uuid.UUID, event events.JoinEvent) error
	HandleUpdate(ctx context.Context, connID uuid.UUID, event events.UpdateEvent) error
	HandleReset(ctx context.Context, connID uuid.UUID, event events.ResetEvent) error
	HandleDisconnect(ctx context.Context, connID uuid.UUID)
	HandlePing(ctx context.Context, connID uuid.UUID) error
}

type diagramUsecase struct {
	roomUsecase RoomUsecase

	groupRepo  memory.GroupRepository
	wsConnRepo memory.WebsocketConnectionRepository
}

func NewDiagramUsecase(
	roomUsecase RoomUsecase,
	groupRepo memory.GroupRepository,
	wsConnRepo memory.WebsocketConnectionRepository,
) DiagramUsecase {
	return &diagramUsecase{
		roomUsecase: roomUsecase,
		groupRepo:   groupRepo,
		wsConnRepo:  wsConnRepo,
	}
}

func (d *diagramUsecase) HandleJoin(ctx context.Context, connID uuid.UUID, event events.JoinEvent) error {
	if reason := validation.AdmitJoin(event.RoomCode); reason != validation.DropNone {
		d.drop(ctx, connID, events.TypeJoin, reason)
		return nil
	}

	if previous := d.groupRepo.Join(connID, event.RoomCode); previous != "" {
		slog.DebugContext(
			ctx,
			"connection moved between rooms",
			slog.Any(constant.ConnID, connID),
			slog.String("previous_room_code", previous),
		)
	}

	room, err := d.roomUsecase.GetRoom(ctx, event.RoomCode)
	if errors.Is(err, models.ErrRoomNotFound) {
		// в группе остаёмся, но документ не отправляем
		slog.DebugContext(ctx, "join to unknown room", slog.String(constant.RoomCode, event.RoomCode))
		return nil
	}

	if err != nil {
		return fmt.Errorf("get room: %w", err)
	}

	msg, err := events.NewMessage(events.TypeLoadDiagram, events.DiagramEvent{Content: room.Content})
	if err != nil {
		return fmt.Errorf("build load message: %w", err)
	}

	return d.wsConnRepo.Write(connID, msg)
}

func (d *diagramUsecase) HandleUpdate(ctx context.Context, connID uuid.UUID, event events.UpdateEvent) error {
	if reason := validation.AdmitUpdate(event.RoomCode, event.Content); reason != validation.DropNone {
		d.drop(ctx, connID, events.TypeUpdate, reason)
		return nil
	}

	updated, err := d.roomUsecase.UpdateContent(ctx, event.RoomCode, event.Content)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}

	if !updated {
		slog.DebugContext(ctx, "update of unknown room", slog.String(constant.RoomCode, event.RoomCode))
		return nil
	}

	metric.IncrementDiagramChanges(events.TypeUpdate)

	return d.broadcast(ctx, event.RoomCode, event.Content, connID)
}

func (d *diagramUsecase) HandleReset(ctx context.Context, connID uuid.UUID, event events.ResetEvent) error {
	if reason := validation.AdmitReset(event.RoomCode); reason != validation.DropNone {
		d.drop(ctx, connID, events.TypeReset, reason)
		return nil
	}

	reset, err := d.roomUsecase.ResetContent(ctx, event.RoomCode)
	if err != nil {
		return fmt.Errorf("reset content: %w", err)
	}

	if !reset {
		slog.DebugContext(ctx, "reset of unknown room", slog.String(constant.RoomCode, event.RoomCode))
		return nil
	}

	room, err := d.roomUsecase.GetRoom(ctx, event.RoomCode)
	if errors.Is(err, models.ErrRoomNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("get room: %w", err)
	}

	metric.IncrementDiagramChanges(events.TypeReset)

	return d.broadcast(ctx, event.RoomCode, room.Content, uuid.Nil)
}

func (d *diagramUsecase) HandleDisconnect(ctx context.Context, connID uuid.UUID) {
	d.groupRepo.Leave(connID)
	d.wsConnRepo.Remove(connID)

	slog.DebugContext(ctx, "connection left", slog.Any(constant.ConnID, connID))
}

func (d *diagramUsecase) HandlePing(_ context.Context, connID uuid.UUID) error {
	return d.wsConnRepo.Write(connID, events.Message{Type: events.TypePong})
}

// broadcast отправляет DiagramUpdated всем участникам комнаты, кроме except.
// Ошибка записи в чужое соединение не прерывает рассылку.
func (d *diagramUsecase) broadcast(ctx context.Context, roomCode, content string, except uuid.UUID) error {
	msg, err := events.NewMessage(events.TypeDiagramUpdated, events.DiagramEvent{Content: content})
	if err != nil {
		return fmt.Errorf("build update message: %w", err)
	}

	for _, member := range d.groupRepo.Members(roomCode) {
		if member == except {
			continue
		}

		if err := d.wsConnRepo.Write(member, msg); err != nil {
			slog.WarnContext(
				ctx,
				"broadcast to member failed",
				slog.Any(constant.Error, err),
				slog.Any(constant.ConnID, member),
				slog.String(constant.RoomCode, roomCode),
			)
		}
	}

	return nil
}

func (d *diagramUsecase) drop(ctx context.Context, connID uuid.UUID, msgType string, reason validation.DropReason) {
	metric.IncrementDroppedMessages(string(reason))

	slog.DebugContext(
		ctx,
		"realtime message dropped",
		slog.Any(constant.ConnID, connID),
		slog.String(constant.Type, msgType),
		slog.String(constant.Reason, string(reason)),
	)
}
