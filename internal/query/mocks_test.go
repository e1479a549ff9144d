package query

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fortuna/courtside/internal/store"
)

type GameLogProviderMock struct {
	mock.Mock
}

func (o *GameLogProviderMock) GameLog(ctx context.Context, player store.Player, season string) ([]store.GameRow, error) {
	args := o.Called(ctx, player, season)
	games, _ := args.Get(0).([]store.GameRow)
	return games, args.Error(1)
}

type staticDirectory []store.Player

func (d staticDirectory) Players() []store.Player {
	return d
}

var testDirectory = staticDirectory{
	{ID: "201142", FullName: "Kevin Durant"},
	{ID: "201939", FullName: "Stephen Curry"},
	{ID: "2544", FullName: "LeBron James"},
	{ID: "203999", FullName: "Nikola Jokić"},
	{ID: "1629029", FullName: "Luka Dončić"},
	{ID: "203507", FullName: "Giannis Antetokounmpo"},
	{ID: "1628983", FullName: "Shai Gilgeous-Alexander"},
	{ID: "1630169", FullName: "Seth Curry"},
}
