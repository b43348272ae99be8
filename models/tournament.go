package models

// Tournament представляет одно издание турнира (например, "2018 Russia").
// Winner и RunnerUp заполняются после финала, до этого NULL.
type Tournament struct {
	ID          int     `json:"id" db:"tournament_id"`
	Year        int     `json:"year" db:"year"`
	HostCountry string  `json:"host_country" db:"host_country"`
	Winner      *string `json:"winner,omitempty" db:"winner"`
	RunnerUp    *string `json:"runner_up,omitempty" db:"runner_up"`
}
