package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/groupcup/brackets"
	"github.com/Dosada05/groupcup/repositories"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	ErrTournamentNotFound = errors.New("tournament not found")

	// Ошибки валидации
	ErrValidationFailed   = errors.New("validation failed")
	ErrNotEnoughPlayers   = fmt.Errorf("%w: at least 2 players are required", ErrValidationFailed)
	ErrInvalidPlayerNames = fmt.Errorf("%w: invalid player list", ErrValidationFailed)
	ErrScoreRequired      = fmt.Errorf("%w: both scores are required", ErrValidationFailed)

	// Состояние турнира не позволяет выполнить операцию
	ErrPlayersNotKnown     = errors.New("match participants are not decided yet")
	ErrKnockoutUnavailable = errors.New("knockout bracket is not available")
	ErrArchiveUnavailable  = errors.New("archive storage is not configured")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid username or password")
	ErrAuthenticationFailed   = errors.New("authentication failed")
)

// translateError maps repository and engine errors onto service errors,
// keeping the original in the chain.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%w: %w", ErrTournamentNotFound, err)
	case errors.Is(err, brackets.ErrPrecondition):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	case errors.Is(err, brackets.ErrPlayersUnknown):
		return fmt.Errorf("%w: %w", ErrPlayersNotKnown, err)
	case errors.Is(err, brackets.ErrNoBracket):
		return fmt.Errorf("%w: %w", ErrKnockoutUnavailable, err)
	}
	return err
}
