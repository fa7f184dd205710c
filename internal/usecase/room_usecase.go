package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/application/metric"
	"github.com/qrave1/markcollab/internal/domain/models"
	"github.com/qrave1/markcollab/internal/domain/roomcode"
)

// RoomRepository хранилище комнат
type RoomRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	// Create сохраняет комнату и заполняет room.ID.
	// Занятый код возвращает models.ErrDuplicateRoomCode.
	Create(ctx context.Context, room *models.Room) error
	GetByCode(ctx context.Context, code string) (*models.Room, error)
	// Update сохраняет content и last_modified
	Update(ctx context.Context, room *models.Room) error
}

type RoomUsecase interface {
	CreateRoom(ctx context.Context) (*models.Room, error)
	GetRoom(ctx context.Context, code string) (*models.Room, error)
	UpdateContent(ctx context.Context, code, content string) (bool, error)
	ResetContent(ctx context.Context, code string) (bool, error)
}

type roomUsecase struct {
	roomRepo  RoomRepository
	generator *roomcode.Generator

	now func() time.Time
}

func NewRoomUsecase(roomRepo RoomRepository, generator *roomcode.Generator) RoomUsecase {
	if generator == nil {
		generator = roomcode.NewGenerator(nil)
	}

	return &roomUsecase{
		roomRepo:  roomRepo,
		generator: generator,
		now:       time.Now,
	}
}

func (uc *roomUsecase) CreateRoom(ctx context.Context) (*models.Room, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		code := uc.generator.Generate()

		exists, err := uc.roomRepo.Exists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check room code: %w", err)
		}

		if exists {
			slog.Debug("room code collision", slog.String(constant.RoomCode, code))
			continue
		}

		room := models.NewRoom(code, uc.now().UTC())

		err = uc.roomRepo.Create(ctx, room)
		if errors.Is(err, models.ErrDuplicateRoomCode) {
			// код заняли между проверкой и вставкой
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("create room: %w", err)
		}

		metric.IncrementRoomsCreated()

		slog.Info("room created", slog.String(constant.RoomCode, code))

		return room, nil
	}
}

func (uc *roomUsecase) GetRoom(ctx context.Context, code string) (*models.Room, error) {
	room, err := uc.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get room by code: %w", err)
	}

	return room, nil
}

func (uc *roomUsecase) UpdateContent(ctx context.Context, code, content string) (bool, error) {
	return uc.apply(ctx, code, func(room *models.Room, now time.Time) {
		room.SetContent(content, now)
	})
}

func (uc *roomUsecase) ResetContent(ctx context.Context, code string) (bool, error) {
	return uc.apply(ctx, code, func(room *models.Room, now time.Time) {
		room.Reset(now)
	})
}

func (uc *roomUsecase) apply(ctx context.Context, code string, change func(*models.Room, time.Time)) (bool, error) {
	room, err := uc.roomRepo.GetByCode(ctx, code)
	if errors.Is(err, models.ErrRoomNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("get room by code: %w", err)
	}

	change(room, uc.now().UTC())

	err = uc.roomRepo.Update(ctx, room)
	if errors.Is(err, models.ErrRoomNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("update room: %w", err)
	}

	return true, nil
}
