package models

// EventType — открытое множество меток; известные значения ниже, но
// хранится любая строка.
type EventType string

const (
	EventTypeGoal         EventType = "Goal"
	EventTypeAssist       EventType = "Assist"
	EventTypeSave         EventType = "Save"
	EventTypeShotOnTarget EventType = "Shot on target"
)

// Event — событие внутри матча. Minute больше 90 — добавленное время,
// это валидное значение.
type Event struct {
	ID       int       `json:"id" db:"event_id"`
	MatchID  int       `json:"match_id" db:"match_id"`
	PlayerID int       `json:"player_id" db:"player_id"`
	Minute   int       `json:"minute" db:"minute"`
	Type     EventType `json:"event_type" db:"event_type"`
}
