package stats

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-analyser/models"
)

// ScorerEntry — игрок и количество его голов (всегда >= 1).
type ScorerEntry struct {
	Player models.Player
	Goals  int
}

// ComputeTopScorers считает голы по игрокам для заданного набора матчей.
// Учитываются только события с типом "Goal"; остальные типы в зачёт не
// идут. Игроки без голов в результат не попадают, пустой набор событий
// даёт пустой срез. Гол игрока, отсутствующего в players, — ошибка
// целостности данных.
//
// Результат отсортирован по убыванию голов, при равенстве — по
// возрастанию id игрока. Порядок детерминированный в отличие от
// порядка обхода словаря.
func ComputeTopScorers(matchIDs []int, events []models.Event, players []models.Player) ([]ScorerEntry, error) {
	inSet := make(map[int]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		inSet[id] = struct{}{}
	}

	byID := make(map[int]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	counts := make(map[int]int)
	for _, e := range events {
		if e.Type != models.EventTypeGoal {
			continue
		}
		if _, ok := inSet[e.MatchID]; !ok {
			continue
		}
		if _, ok := byID[e.PlayerID]; !ok {
			return nil, fmt.Errorf("%w: player %d in event %d", ErrUnknownPlayer, e.PlayerID, e.ID)
		}
		counts[e.PlayerID]++
	}

	entries := make([]ScorerEntry, 0, len(counts))
	for playerID, goals := range counts {
		entries = append(entries, ScorerEntry{Player: byID[playerID], Goals: goals})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Goals != entries[j].Goals {
			return entries[i].Goals > entries[j].Goals
		}
		return entries[i].Player.ID < entries[j].Player.ID
	})

	return entries, nil
}
