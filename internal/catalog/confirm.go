package catalog

import "context"

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Approve is a Confirmer that always answers yes.
var Approve Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Decline is a Confirmer that always answers no.
var Decline Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
