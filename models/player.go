package models

type Player struct {
	ID       int    `json:"id" db:"player_id"`
	Name     string `json:"name" db:"player_name"`
	Position string `json:"position" db:"position"`
	TeamID   int    `json:"team_id" db:"team_id"`
}
