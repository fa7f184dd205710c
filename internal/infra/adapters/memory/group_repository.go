package memory

import (
	"sync"

	"github.com/google/uuid"
)

// GroupRepository членство соединений в комнатах.
// Соединение состоит не более чем в одной комнате.
type GroupRepository interface {
	// Join добавляет соединение в комнату и возвращает код комнаты,
	// из которой оно было удалено (пустая строка, если такой не было)
	Join(connID uuid.UUID, roomCode string) (previous string)
	Leave(connID uuid.UUID)

	Members(roomCode string) []uuid.UUID
	RoomOf(connID uuid.UUID) (string, bool)
}

type groupRepository struct {
	// groups хранит map[room_code]set[conn_id]
	groups map[string]map[uuid.UUID]struct{}
	// rooms обратный индекс map[conn_id]room_code
	rooms map[uuid.UUID]string

	mu sync.RWMutex
}

func NewGroupRepository() GroupRepository {
	return &groupRepository{
		groups: make(map[string]map[uuid.UUID]struct{}),
		rooms:  make(map[uuid.UUID]string),
	}
}

func (g *groupRepository) Join(connID uuid.UUID, roomCode string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	previous, ok := g.rooms[connID]
	if ok && previous == roomCode {
		return ""
	}

	if ok {
		g.removeLocked(connID, previous)
	}

	members, exists := g.groups[roomCode]
	if !exists {
		members = make(map[uuid.UUID]struct{})
		g.groups[roomCode] = members
	}

	members[connID] = struct{}{}
	g.rooms[connID] = roomCode

	return previous
}

func (g *groupRepository) Leave(connID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	roomCode, ok := g.rooms[connID]
	if !ok {
		return
	}

	g.removeLocked(connID, roomCode)
}

func (g *groupRepository) removeLocked(connID uuid.UUID, roomCode string) {
	delete(g.rooms, connID)

	members := g.groups[roomCode]
	delete(members, connID)

	if len(members) == 0 {
		delete(g.groups, roomCode)
	}
}

func (g *groupRepository) Members(roomCode string) []uuid.UUID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	members := g.groups[roomCode]

	connIDs := make([]uuid.UUID, 0, len(members))
	for connID := range members {
		connIDs = append(connIDs, connID)
	}

	return connIDs
}

func (g *groupRepository) RoomOf(connID uuid.UUID) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	roomCode, ok := g.rooms[connID]
	return roomCode, ok
}
