// Package stats содержит агрегации над снапшотами данных турнира:
// турнирная таблица, бомбардиры, суммарные голы команд и таймлайн матча.
// Все функции чистые: читают переданные срезы, ничего не мутируют и не
// ходят в хранилище. Снапшот считается согласованным; висячая ссылка —
// ошибка данных, и она возвращается, а не замалчивается.
package stats

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-analyser/models"
)

var (
	// ErrUnknownTeam: матч ссылается на команду, которой нет в переданном
	// списке (например, матч чужого турнира).
	ErrUnknownTeam = errors.New("match references team not present in snapshot")

	// ErrUnknownPlayer: событие ссылается на игрока, которого нет в
	// переданном списке.
	ErrUnknownPlayer = errors.New("event references player not present in snapshot")
)

// Очки за исход матча.
const (
	pointsWin  = 3
	pointsDraw = 1
)

// TeamLine — накопленные показатели одной команды.
type TeamLine struct {
	Points       int
	GoalsFor     int
	GoalsAgainst int
}

// ComputeStandings считает очки и голы каждой команды по списку матчей.
// Каждая команда из teams присутствует в результате, даже если не сыграла
// ни одного матча (нулевая строка). Матч, ссылающийся на команду вне
// teams, — ошибка: молчаливый пропуск прятал бы перепутанные турниры.
func ComputeStandings(teams []models.Team, matches []models.Match) (map[int]TeamLine, error) {
	lines := make(map[int]TeamLine, len(teams))
	for _, t := range teams {
		lines[t.ID] = TeamLine{}
	}

	for _, m := range matches {
		t1, ok := lines[m.Team1ID]
		if !ok {
			return nil, fmt.Errorf("%w: team %d in match %d", ErrUnknownTeam, m.Team1ID, m.ID)
		}
		t2, ok := lines[m.Team2ID]
		if !ok {
			return nil, fmt.Errorf("%w: team %d in match %d", ErrUnknownTeam, m.Team2ID, m.ID)
		}

		t1.GoalsFor += m.Team1Score
		t1.GoalsAgainst += m.Team2Score
		t2.GoalsFor += m.Team2Score
		t2.GoalsAgainst += m.Team1Score

		switch {
		case m.Team1Score > m.Team2Score:
			t1.Points += pointsWin
		case m.Team1Score < m.Team2Score:
			t2.Points += pointsWin
		default:
			t1.Points += pointsDraw
			t2.Points += pointsDraw
		}

		lines[m.Team1ID] = t1
		lines[m.Team2ID] = t2
	}

	return lines, nil
}

// ComputeGoalTotals — тот же проход по матчам, но накапливаются только
// забитые голы, без очков и пропущенных.
func ComputeGoalTotals(teams []models.Team, matches []models.Match) (map[int]int, error) {
	totals := make(map[int]int, len(teams))
	for _, t := range teams {
		totals[t.ID] = 0
	}

	for _, m := range matches {
		if _, ok := totals[m.Team1ID]; !ok {
			return nil, fmt.Errorf("%w: team %d in match %d", ErrUnknownTeam, m.Team1ID, m.ID)
		}
		if _, ok := totals[m.Team2ID]; !ok {
			return nil, fmt.Errorf("%w: team %d in match %d", ErrUnknownTeam, m.Team2ID, m.ID)
		}
		totals[m.Team1ID] += m.Team1Score
		totals[m.Team2ID] += m.Team2Score
	}

	return totals, nil
}
