package models

// Типы строк и серий, которые слой статистики отдаёт презентации.
// Таблица + серия для графика повторяют формы исходных отчётов
// (bar/pie/scatter), но не привязаны к конкретному чарт-тулкиту.

// StandingRow — строка турнирной таблицы.
type StandingRow struct {
	TeamID       int    `json:"team_id"`
	TeamName     string `json:"team_name"`
	Points       int    `json:"points"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

// ScorerRow — строка таблицы бомбардиров.
type ScorerRow struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Goals      int    `json:"goals"`
}

// GoalTotalRow — суммарные голы команды за турнир (без очков).
type GoalTotalRow struct {
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	Goals    int    `json:"goals"`
}

// TimelineRow — событие матча с уже разрешённым именем игрока.
type TimelineRow struct {
	Minute     int       `json:"minute"`
	PlayerName string    `json:"player_name"`
	EventType  EventType `json:"event_type"`
}

// ChartSeries — пары label/value для столбчатых и круговых диаграмм.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// ScatterPoint — точка для диаграммы рассеяния событий матча.
type ScatterPoint struct {
	PlayerName string    `json:"player_name"`
	Minute     int       `json:"minute"`
	EventType  EventType `json:"event_type"`
}

type StandingsReport struct {
	Rows        []StandingRow `json:"rows"`
	PointsChart ChartSeries   `json:"points_chart"`
}

type TopScorersReport struct {
	Rows       []ScorerRow `json:"rows"`
	GoalsChart ChartSeries `json:"goals_chart"`
}

type GoalTotalsReport struct {
	Rows       []GoalTotalRow `json:"rows"`
	GoalsChart ChartSeries    `json:"goals_chart"`
}

type TimelineReport struct {
	Rows    []TimelineRow  `json:"rows"`
	Scatter []ScatterPoint `json:"scatter"`
}
