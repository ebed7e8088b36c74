package memory

import (
	"strings"

	"github.com/riskibarqy/survivor-pool/internal/domain/team"
)

var nflTeamNames = []string{
	"49ers", "Bears", "Bengals", "Bills", "Broncos", "Browns", "Buccaneers", "Cardinals",
	"Chargers", "Chiefs", "Colts", "Commanders", "Cowboys", "Dolphins", "Eagles", "Falcons",
	"Giants", "Jaguars", "Jets", "Lions", "Packers", "Panthers", "Patriots", "Raiders",
	"Rams", "Ravens", "Saints", "Seahawks", "Steelers", "Texans", "Titans", "Vikings",
}

// SeedTeams returns the default season roster.
func SeedTeams() []team.Team {
	out := make([]team.Team, 0, len(nflTeamNames))
	for _, name := range nflTeamNames {
		out = append(out, team.Team{ID: "nfl-" + strings.ToLower(name), Name: name})
	}
	return out
}
