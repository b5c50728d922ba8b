package notifications

import "context"

type ActivationInput struct {
	Email string
	Name  string
	Token string
}

// ActivationPath is where the emailed link points to.
func (in ActivationInput) ActivationPath() string {
	return "/api/v1/auth/activate/" + in.Token
}

type Notifier interface {
	SendActivation(ctx context.Context, input ActivationInput) error
}
