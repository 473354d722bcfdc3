package models

import "github.com/Dosada05/groupcup/brackets"

// KnockoutView is the knockout stage as returned to clients. Affected lists
// the matches downstream of the one a score update changed.
type KnockoutView struct {
	TournamentID int                 `json:"tournament_id"`
	Bracket      *brackets.Bracket   `json:"bracket"`
	Champion     *string             `json:"champion,omitempty"`
	GroupDone    bool                `json:"group_complete"`
	Affected     []brackets.MatchRef `json:"affected,omitempty"`
}

// StandingsView is the group table sorted by points then goal difference,
// together with the schedule split into rounds.
type StandingsView struct {
	TournamentID int                 `json:"tournament_id"`
	Standings    []brackets.Standing `json:"standings"`
	Rounds       [][]brackets.Match  `json:"rounds"`
}

// ScoreInput is the body of a score update.
type ScoreInput struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}
