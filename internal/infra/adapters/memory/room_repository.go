package memory

import (
	"context"
	"sync"

	"github.com/qrave1/markcollab/internal/domain/models"
)

// RoomRepository хранит комнаты в памяти процесса.
// Используется, когда строка подключения к базе не задана.
type RoomRepository struct {
	// rooms хранит map[code]room
	rooms  map[string]models.Room
	nextID int64

	mu sync.RWMutex
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{
		rooms: make(map[string]models.Room),
	}
}

func (r *RoomRepository) Exists(_ context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[code]
	return ok, nil
}

func (r *RoomRepository) Create(_ context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.Code]; ok {
		return models.ErrDuplicateRoomCode
	}

	r.nextID++
	room.ID = r.nextID

	r.rooms[room.Code] = *room

	return nil
}

func (r *RoomRepository) GetByCode(_ context.Context, code string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, models.ErrRoomNotFound
	}

	return &room, nil
}

func (r *RoomRepository) Update(_ context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rooms[room.Code]
	if !ok {
		return models.ErrRoomNotFound
	}

	stored.Content = room.Content
	stored.LastModified = room.LastModified

	r.rooms[room.Code] = stored

	return nil
}
