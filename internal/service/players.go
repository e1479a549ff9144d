package service

import (
	"github.com/fortuna/courtside/internal/query"
	"github.com/fortuna/courtside/internal/store"
)

// PlayerService resolves free-text names against the loaded directory
type PlayerService struct {
	directory query.PlayerDirectory
}

// NewPlayerService creates a new player service
func NewPlayerService(directory query.PlayerDirectory) *PlayerService {
	return &PlayerService{directory: directory}
}

// Resolve applies the same resolution rules the interpreter uses
func (s *PlayerService) Resolve(name string) (store.Player, bool) {
	return query.ResolvePlayer(name, s.directory.Players())
}

// Count returns the number of directory entries
func (s *PlayerService) Count() int {
	return len(s.directory.Players())
}
