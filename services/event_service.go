package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/tournament-analyser/live"
	"github.com/Dosada05/tournament-analyser/models"
	"github.com/Dosada05/tournament-analyser/repositories"
)

type CreateEventInput struct {
	MatchID  int              `json:"match_id"`
	PlayerID int              `json:"player_id"`
	Minute   int              `json:"minute"`
	Type     models.EventType `json:"event_type"`
}

type UpdateEventInput struct {
	Minute *int              `json:"minute"`
	Type   *models.EventType `json:"event_type"`
}

type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	ListEventsByMatch(ctx context.Context, matchID int) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, id int, input UpdateEventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int) error
}

type eventService struct {
	eventRepo repositories.EventRepository
	matchRepo repositories.MatchRepository
	hub       LiveBroadcaster
}

func NewEventService(
	eventRepo repositories.EventRepository,
	matchRepo repositories.MatchRepository,
	hub LiveBroadcaster,
) EventService {
	return &eventService{eventRepo: eventRepo, matchRepo: matchRepo, hub: hub}
}

// notify ищет турнир через матч события: комнаты хаба привязаны к
// турнирам, а событие знает только свой матч.
func (s *eventService) notify(ctx context.Context, matchID, eventID int) {
	if s.hub == nil {
		return
	}
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return
	}
	s.hub.BroadcastToRoom(tournamentRoom(match.TournamentID), live.MessageEventUpdated, eventID)
}

func (s *eventService) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(string(input.Type)) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrEventTypeRequired)
	}
	// Минуты больше 90 валидны (добавленное время), отрицательные — нет.
	if input.Minute < 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrEventNegativeMinute)
	}

	event := &models.Event{
		MatchID:  input.MatchID,
		PlayerID: input.PlayerID,
		Minute:   input.Minute,
		Type:     input.Type,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventReferenceInvalid) {
			return nil, fmt.Errorf("%w: match or player", ErrReferencedRowMissing)
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.notify(ctx, event.MatchID, event.ID)
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEventsByMatch(ctx context.Context, matchID int) ([]*models.Event, error) {
	events, err := s.eventRepo.ListByMatch(ctx, &matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for match %d: %w", matchID, err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int, input UpdateEventInput) (*models.Event, error) {
	if input.Minute != nil && *input.Minute < 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrEventNegativeMinute)
	}
	if input.Type != nil && strings.TrimSpace(string(*input.Type)) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrEventTypeRequired)
	}

	upd := repositories.EventUpdate{
		Minute: input.Minute,
		Type:   input.Type,
	}

	err := s.eventRepo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventUpdateIsEmpty):
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrUpdateHasNoFields)
		case errors.Is(err, repositories.ErrEventNotFound):
			return nil, ErrEventNotFound
		default:
			return nil, fmt.Errorf("failed to update event %d: %w", id, err)
		}
	}

	event, err := s.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, event.MatchID, event.ID)
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int) error {
	event, err := s.GetEventByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}

	s.notify(ctx, event.MatchID, event.ID)
	return nil
}
