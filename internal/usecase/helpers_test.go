package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qrave1/markcollab/internal/domain/events"
	"github.com/qrave1/markcollab/internal/domain/models"
	"github.com/qrave1/markcollab/internal/domain/roomcode"
	"github.com/qrave1/markcollab/internal/infra/adapters/memory"
)

var (
	_ RoomRepository    = (*memory.RoomRepository)(nil)
	_ SessionRepository = (*memory.SessionRepository)(nil)
	_ WindowCounter     = (*memory.WindowCounter)(nil)
)

// sequence отдаёт заданные индексы по кругу
func sequence(indexes ...int) roomcode.IndexSource {
	var (
		mu sync.Mutex
		i  int
	)

	return roomcode.IndexSourceFunc(func(int) int {
		mu.Lock()
		defer mu.Unlock()

		v := indexes[i%len(indexes)]
		i++
		return v
	})
}

// capturingSender запоминает отправленные кадры
type capturingSender struct {
	mu     sync.Mutex
	frames []events.Message
}

func (s *capturingSender) WriteJSON(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var msg events.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames = append(s.frames, msg)
	return nil
}

func (s *capturingSender) Frames() []events.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]events.Message(nil), s.frames...)
}

func decodeDiagram(t *testing.T, msg events.Message) string {
	t.Helper()

	var event events.DiagramEvent
	require.NoError(t, json.Unmarshal(msg.Data, &event))

	return event.Content
}

// stubRoomRepository позволяет подменить отдельные методы хранилища
type stubRoomRepository struct {
	*memory.RoomRepository

	existsErr error
	createErr []error
	getErr    error
	updateErr error
}

func newStubRoomRepository() *stubRoomRepository {
	return &stubRoomRepository{RoomRepository: memory.NewRoomRepository()}
}

func (s *stubRoomRepository) Exists(ctx context.Context, code string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}

	return s.RoomRepository.Exists(ctx, code)
}

func (s *stubRoomRepository) Create(ctx context.Context, room *models.Room) error {
	if len(s.createErr) > 0 {
		err := s.createErr[0]
		s.createErr = s.createErr[1:]
		return err
	}

	return s.RoomRepository.Create(ctx, room)
}

func (s *stubRoomRepository) GetByCode(ctx context.Context, code string) (*models.Room, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}

	return s.RoomRepository.GetByCode(ctx, code)
}

func (s *stubRoomRepository) Update(ctx context.Context, room *models.Room) error {
	if s.updateErr != nil {
		return s.updateErr
	}

	return s.RoomRepository.Update(ctx, room)
}
