package constant

// Ключи атрибутов slog
const (
	Error     = "error"
	RoomCode  = "room_code"
	ConnID    = "conn_id"
	ClientIP  = "client_ip"
	SessionID = "session_id"
	Reason    = "reason"
	Type      = "type"
)
