package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed          = errors.New("validation failed")
	ErrTournamentYearRequired    = errors.New("tournament year is required")
	ErrTournamentHostRequired    = errors.New("tournament host country is required")
	ErrTeamNameRequired          = errors.New("team name is required")
	ErrTeamCoachRequired         = errors.New("team coach name is required")
	ErrTeamGroupRequired         = errors.New("team group name is required")
	ErrPlayerNameRequired        = errors.New("player name is required")
	ErrPlayerPositionRequired    = errors.New("player position is required")
	ErrMatchDateRequired         = errors.New("match date is required")
	ErrMatchStageRequired        = errors.New("match stage is required")
	ErrMatchSameTeam             = errors.New("match teams must differ")
	ErrMatchNegativeScore        = errors.New("match score must be non-negative")
	ErrEventTypeRequired         = errors.New("event type is required")
	ErrEventNegativeMinute       = errors.New("event minute must be non-negative")
	ErrUpdateHasNoFields         = errors.New("no fields provided for update")

	// Нарушения ссылочной целостности при записи
	ErrReferencedRowMissing = errors.New("referenced row does not exist")
	ErrRowStillReferenced   = errors.New("row is still referenced by child rows")

	// Ошибки, специфичные для сущностей
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrEventNotFound      = errors.New("event not found")

	// Ошибка целостности снапшота при агрегации: висячая ссылка должна
	// всплыть, а не превратиться в нулевую строку.
	ErrSnapshotInconsistent = errors.New("snapshot contains dangling references")
)
