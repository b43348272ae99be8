package models

// Match хранит результат одной игры. Date остаётся свободным текстом:
// исходный файл данных пишет дату как TEXT, и схема должна оставаться
// совместимой с уже существующими файлами.
type Match struct {
	ID           int    `json:"id" db:"match_id"`
	Date         string `json:"date" db:"date"`
	Stage        string `json:"stage" db:"stage"`
	Team1ID      int    `json:"team1_id" db:"team1_id"`
	Team2ID      int    `json:"team2_id" db:"team2_id"`
	Team1Score   int    `json:"team1_score" db:"team1_score"`
	Team2Score   int    `json:"team2_score" db:"team2_score"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
}
