package models

type Team struct {
	ID           int    `json:"id" db:"team_id"`
	Name         string `json:"name" db:"team_name"`
	CoachName    string `json:"coach_name" db:"coach_name"`
	GroupName    string `json:"group_name" db:"group_name"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
}
