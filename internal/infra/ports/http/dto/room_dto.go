package dto

type CreateRoomResponse struct {
	RoomCode string `json:"roomCode"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
