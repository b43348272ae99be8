package stats

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Dosada05/tournament-analyser/models"
)

func player(id int, name string) models.Player {
	return models.Player{ID: id, Name: name, TeamID: 1}
}

func event(id, matchID, playerID, minute int, typ models.EventType) models.Event {
	return models.Event{ID: id, MatchID: matchID, PlayerID: playerID, Minute: minute, Type: typ}
}

func TestComputeTopScorers(t *testing.T) {
	players := []models.Player{player(1, "Villa"), player(2, "Casillas"), player(3, "Sneijder")}

	tests := []struct {
		name     string
		matchIDs []int
		events   []models.Event
		want     []ScorerEntry
	}{
		{
			name:     "only goal events count",
			matchIDs: []int{10},
			events: []models.Event{
				event(1, 10, 1, 28, models.EventTypeGoal),
				event(2, 10, 2, 44, models.EventTypeSave),
			},
			want: []ScorerEntry{{Player: player(1, "Villa"), Goals: 1}},
		},
		{
			name:     "events outside match set are ignored",
			matchIDs: []int{10},
			events: []models.Event{
				event(1, 10, 1, 28, models.EventTypeGoal),
				event(2, 11, 3, 15, models.EventTypeGoal),
			},
			want: []ScorerEntry{{Player: player(1, "Villa"), Goals: 1}},
		},
		{
			name:     "sorted by goals descending then player id",
			matchIDs: []int{10, 11},
			events: []models.Event{
				event(1, 10, 3, 5, models.EventTypeGoal),
				event(2, 10, 1, 20, models.EventTypeGoal),
				event(3, 11, 1, 73, models.EventTypeGoal),
				event(4, 11, 2, 80, models.EventTypeGoal),
			},
			want: []ScorerEntry{
				{Player: player(1, "Villa"), Goals: 2},
				{Player: player(2, "Casillas"), Goals: 1},
				{Player: player(3, "Sneijder"), Goals: 1},
			},
		},
		{
			name:     "no qualifying events yields empty result",
			matchIDs: []int{10},
			events: []models.Event{
				event(1, 10, 1, 12, models.EventTypeAssist),
				event(2, 10, 2, 60, models.EventTypeShotOnTarget),
			},
			want: []ScorerEntry{},
		},
		{
			name:     "no events at all",
			matchIDs: []int{10},
			events:   nil,
			want:     []ScorerEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTopScorers(tt.matchIDs, tt.events, players)
			if err != nil {
				t.Fatalf("ComputeTopScorers: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeTopScorersDanglingPlayer(t *testing.T) {
	players := []models.Player{player(1, "Villa")}
	events := []models.Event{event(1, 10, 42, 30, models.EventTypeGoal)}

	_, err := ComputeTopScorers([]int{10}, events, players)
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
}

func TestComputeTopScorersIdempotent(t *testing.T) {
	players := []models.Player{player(1, "Villa"), player(2, "Casillas")}
	events := []models.Event{
		event(1, 10, 1, 10, models.EventTypeGoal),
		event(2, 10, 2, 20, models.EventTypeGoal),
		event(3, 10, 1, 30, models.EventTypeGoal),
	}

	first, err := ComputeTopScorers([]int{10}, events, players)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := ComputeTopScorers([]int{10}, events, players)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated call diverged: %+v vs %+v", first, second)
	}
}
