package dashboard

import (
	"context"

	"go.uber.org/zap"
)

const (
	// MessageTokenNotSaved is returned when login succeeded but the token could not be stored.
	MessageTokenNotSaved = "Logged in, but the session could not be saved."
)

// Login exchanges credentials for a token and stores it.
func (controller *Controller) Login(ctx context.Context, email string, password string) Outcome {
	token, result := controller.client.Login(ctx, email, password)
	if !result.Success {
		return failedOutcome(result)
	}
	if saveErr := controller.tokenStore.SetToken(ctx, token); saveErr != nil {
		controller.logger.Error(logEventSaveToken, zap.Error(saveErr))
		return Outcome{Message: MessageTokenNotSaved}
	}
	return Outcome{Success: true, Message: result.Message}
}

// Signup creates an account. It does not sign the user in.
func (controller *Controller) Signup(ctx context.Context, email string, password string) Outcome {
	result := controller.client.Signup(ctx, email, password)
	if !result.Success {
		return failedOutcome(result)
	}
	return Outcome{Success: true, Message: result.Message}
}

// Logout clears the stored token and sends the user to the login page.
func (controller *Controller) Logout(ctx context.Context) {
	if clearErr := controller.tokenStore.ClearToken(ctx); clearErr != nil {
		controller.logger.Error(logEventClearToken, zap.Error(clearErr))
	}
	if controller.navigator != nil {
		controller.navigator.Navigate(ctx, DestinationLogin, 0)
	}
}
