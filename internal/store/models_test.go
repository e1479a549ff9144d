package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchup(t *testing.T) {
	tests := []struct {
		matchup  string
		team     string
		opponent string
		home     bool
	}{
		{"GSW vs. LAL", "GSW", "LAL", true},
		{"GSW @ LAL", "GSW", "LAL", false},
		{" MIL  @ BOS ", "MIL", "BOS", false},
	}

	for _, tt := range tests {
		t.Run(tt.matchup, func(t *testing.T) {
			team, opp, home, err := ParseMatchup(tt.matchup)
			require.NoError(t, err)
			assert.Equal(t, tt.team, team)
			assert.Equal(t, tt.opponent, opp)
			assert.Equal(t, tt.home, home)

			// Round trip through the builder keeps the home/away reading
			row := GameRow{Matchup: Matchup(team, opp, home)}
			assert.Equal(t, tt.home, row.Location() == LocationHome)
		})
	}

	for _, bad := range []string{"", "GSW", "GSW vs. ", "@ LAL"} {
		_, _, _, err := ParseMatchup(bad)
		assert.Error(t, err, bad)
	}
}
