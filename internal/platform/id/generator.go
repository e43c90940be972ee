package id

import "github.com/google/uuid"

// Generator creates canonical entity IDs.
type Generator interface {
	NewID() string
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Static returns the same IDs in order. Test helper.
type Static struct {
	IDs  []string
	next int
}

func (s *Static) NewID() string {
	if s.next >= len(s.IDs) {
		return uuid.NewString()
	}
	id := s.IDs[s.next]
	s.next++
	return id
}
