package dispatch

import (
	"encoding/json"
	"log/slog"
)

// userCreatedContent is the subset of a user.created event we log.
type userCreatedContent struct {
	Payload struct {
		AccountID string `json:"account_id"`
		Object    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"object"`
	} `json:"payload"`
}

// UserCreatedHandler returns the handler for user.created events. It only
// logs the new user; downstream processing hooks in here.
func UserCreatedHandler(logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ev Event) error {
		var c userCreatedContent
		// Payload details are optional.
		_ = json.Unmarshal(ev.Content, &c)

		logger.Info("a new user was created",
			"account_id", c.Payload.AccountID,
			"user_id", c.Payload.Object.ID,
			"email", c.Payload.Object.Email,
		)
		return nil
	}
}
