// Package moderation models the pending/published/rejected lifecycle of a
// blog and gates which actions a viewer may take on it.
package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/models"
)

const (
	EventApprove = "approve"
	EventReject  = "reject"
	EventEdit    = "edit"
)

var allStatuses = []string{
	string(models.StatusPending),
	string(models.StatusPublished),
	string(models.StatusRejected),
}

func newMachine(status models.Status) *fsm.FSM {
	return fsm.NewFSM(
		string(status),
		fsm.Events{
			{Name: EventApprove, Src: []string{string(models.StatusPending)}, Dst: string(models.StatusPublished)},
			{Name: EventReject, Src: []string{string(models.StatusPending)}, Dst: string(models.StatusRejected)},
			{Name: EventEdit, Src: allStatuses, Dst: string(models.StatusPending)},
		},
		fsm.Callbacks{},
	)
}

// Can reports whether event is legal from status.
func Can(status models.Status, event string) bool {
	return newMachine(status).Can(event)
}

// Next returns the status event leads to from status. An edit of a
// pending blog stays pending.
func Next(ctx context.Context, status models.Status, event string) (models.Status, error) {
	m := newMachine(status)

	if err := m.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return status, &apperrors.ValidationError{
				Field:   "status",
				Message: fmt.Sprintf("Cannot %s a %s blog", event, status),
			}
		}
	}

	return models.Status(m.Current()), nil
}
