package models

import (
	"errors"
	"time"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrDuplicateRoomCode = errors.New("room code already exists")
)

// DefaultContent документ, с которым создаётся комната и к которому она сбрасывается
const DefaultContent = "# Welcome to Collaborative Markdown Editor\n" +
	"\n" +
	"This is a **real-time collaborative** markdown editor with *Mermaid diagram* support!\n" +
	"\n" +
	"## Features\n" +
	"- Write in **markdown** syntax\n" +
	"- Collaborate with others in real-time\n" +
	"- Embed Mermaid diagrams\n" +
	"\n" +
	"## Example Diagram\n" +
	"\n" +
	"```mermaid\n" +
	"graph TD\n" +
	"    A[Start Editing] --> B[Write Markdown]\n" +
	"    B --> C[Add Diagrams]\n" +
	"    C --> D[Collaborate]\n" +
	"    D --> E[Share Your Work]\n" +
	"```\n" +
	"\n" +
	"## Try it out!\n" +
	"Start editing this document and see changes sync across all connected users."

type Room struct {
	ID           int64     `json:"-" db:"id"`
	Code         string    `json:"roomCode" db:"code"`
	Content      string    `json:"content" db:"content"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	LastModified time.Time `json:"lastModified" db:"last_modified"`
}

func NewRoom(code string, now time.Time) *Room {
	return &Room{
		Code:         code,
		Content:      DefaultContent,
		CreatedAt:    now,
		LastModified: now,
	}
}

// SetContent заменяет содержимое целиком (last-write-wins)
func (r *Room) SetContent(content string, now time.Time) {
	r.Content = content
	r.LastModified = now
}

func (r *Room) Reset(now time.Time) {
	r.SetContent(DefaultContent, now)
}
