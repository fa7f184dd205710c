package roomcode

import (
	"math/rand/v2"
	"strings"
)

const (
	// Alphabet без легко путаемых символов (0/O, 1/I)
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// Length длина сгенерированного кода
	Length = 8

	// MaxLength верхняя граница длины кода, вводимого вручную
	MaxLength = 10
)

// IndexSource источник случайных индексов в диапазоне [0, bound)
type IndexSource interface {
	NextIndex(bound int) int
}

type IndexSourceFunc func(bound int) int

func (f IndexSourceFunc) NextIndex(bound int) int { return f(bound) }

// RandomSource использует глобальный генератор math/rand/v2,
// который засевается случайно при старте процесса
var RandomSource IndexSource = IndexSourceFunc(rand.IntN)

type Generator struct {
	source IndexSource
}

func NewGenerator(source IndexSource) *Generator {
	if source == nil {
		source = RandomSource
	}

	return &Generator{source: source}
}

func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(Length)

	for range Length {
		b.WriteByte(Alphabet[g.source.NextIndex(len(Alphabet))])
	}

	return b.String()
}

// Contains сообщает, входит ли символ в алфавит кодов
func Contains(r rune) bool {
	return strings.ContainsRune(Alphabet, r)
}
