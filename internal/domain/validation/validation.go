package validation

import (
	"unicode/utf8"

	"github.com/qrave1/markcollab/internal/domain/roomcode"
)

// MaxContentLength максимальная длина документа в символах
const MaxContentLength = 1_000_000

// DropReason причина, по которой realtime-операция отброшена.
// Клиенту не сообщается, используется только в логах и метриках.
type DropReason string

const (
	DropNone            DropReason = ""
	DropInvalidRoomCode DropReason = "invalid_room_code"
	DropContentTooLong  DropReason = "content_too_long"
)

func IsValidRoomCode(code string) bool {
	if code == "" || len(code) > roomcode.MaxLength {
		return false
	}

	for _, r := range code {
		if !roomcode.Contains(r) {
			return false
		}
	}

	return true
}

func ExceedsMaxContentLength(content string) bool {
	// каждый символ занимает минимум один байт
	if len(content) <= MaxContentLength {
		return false
	}

	return utf8.RuneCountInString(content) > MaxContentLength
}

func AdmitJoin(code string) DropReason {
	if !IsValidRoomCode(code) {
		return DropInvalidRoomCode
	}

	return DropNone
}

func AdmitUpdate(code, content string) DropReason {
	if !IsValidRoomCode(code) {
		return DropInvalidRoomCode
	}

	if ExceedsMaxContentLength(content) {
		return DropContentTooLong
	}

	return DropNone
}

func AdmitReset(code string) DropReason {
	return AdmitJoin(code)
}
