package stats

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-analyser/models"
)

// TimelineEntry — событие матча с именем игрока вместо id.
type TimelineEntry struct {
	Minute     int
	PlayerName string
	EventType  models.EventType
}

// BuildTimeline собирает хронологию одного матча: события matchID с
// разрешёнными именами игроков, отсортированные по минуте. Сортировка
// стабильная, события одной минуты сохраняют порядок чтения из
// хранилища. Событие с неизвестным игроком — ошибка целостности.
func BuildTimeline(matchID int, events []models.Event, players []models.Player) ([]TimelineEntry, error) {
	byID := make(map[int]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	entries := make([]TimelineEntry, 0, len(events))
	for _, e := range events {
		if e.MatchID != matchID {
			continue
		}
		player, ok := byID[e.PlayerID]
		if !ok {
			return nil, fmt.Errorf("%w: player %d in event %d", ErrUnknownPlayer, e.PlayerID, e.ID)
		}
		entries = append(entries, TimelineEntry{
			Minute:     e.Minute,
			PlayerName: player.Name,
			EventType:  e.Type,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Minute < entries[j].Minute
	})

	return entries, nil
}
