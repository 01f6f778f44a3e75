package smtgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/smtgo/internal/session"
	"github.com/hupe1980/smtgo/model"
)

// CreateSession registers weight overrides and returns the new session's
// id. Overrides are validated against the feature list and copied; nothing
// is registered when validation fails.
func (e *Engine) CreateSession(overrides model.Weights) (id model.SessionID, err error) {
	defer func() {
		e.opts.metricsCollector.RecordSessionCreate(err)
	}()

	snap, err := e.acquire()
	if err != nil {
		return model.NoSession, err
	}
	defer snap.decRef()

	if err := snap.model.Registry.Validate(overrides); err != nil {
		return model.NoSession, translateError(err)
	}

	id = e.sessions.Create(overrides)

	// Dispose may have cleared the table between acquire and Create.
	if e.State() != Ready {
		_ = e.sessions.Destroy(id)
		return model.NoSession, ErrNotReady
	}

	e.opts.logger.WithSession(id).Debug("session created", "overrides", len(overrides))
	return id, nil
}

// DestroySession removes a live session. Destroying an id that is not live,
// including one destroyed before, fails with *SessionInvalidError.
func (e *Engine) DestroySession(id model.SessionID) (err error) {
	defer func() {
		e.opts.metricsCollector.RecordSessionDestroy(err)
	}()

	if e.State() != Ready {
		return sessionNotReady(id)
	}

	if err := e.sessions.Destroy(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return &SessionInvalidError{Session: id}
		}
		return err
	}

	e.opts.logger.WithSession(id).Debug("session destroyed")
	return nil
}

// SessionCount returns the number of live sessions.
func (e *Engine) SessionCount() int {
	return e.sessions.Len()
}

// sessionNotReady is returned for operations naming a session on an engine
// that is not Ready. It matches both ErrNotReady and ErrSessionInvalid.
func sessionNotReady(id model.SessionID) error {
	return fmt.Errorf("%w: %w", ErrNotReady, &SessionInvalidError{Session: id})
}
