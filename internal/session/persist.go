package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/johnwards/niyog/internal/store"
)

// Settings keys, kept compatible with the browser flags.
const (
	KeyRole        = "userRole"
	KeyName        = "userName"
	KeyPage        = "currentPage"
	KeySelectedJob = "selectedJob"
)

// Load reads the persisted session. A missing role flag yields the
// signed-out state.
func Load(ctx context.Context, s store.SettingsStore) (State, error) {
	role, err := get(ctx, s, KeyRole)
	if err != nil {
		return State{}, err
	}
	if role == "" {
		return Initial(), nil
	}
	name, err := get(ctx, s, KeyName)
	if err != nil {
		return State{}, err
	}
	view, err := Resolve(role, name)
	if err != nil {
		return State{}, err
	}

	st := Reduce(Initial(), SignedIn{View: view})
	page, err := get(ctx, s, KeyPage)
	if err != nil {
		return State{}, err
	}
	job, err := get(ctx, s, KeySelectedJob)
	if err != nil {
		return State{}, err
	}
	if page != "" {
		st = Reduce(st, Navigated{Page: Page(page), JobID: job})
	} else if job != "" {
		st = Reduce(st, JobSelected{JobID: job})
	}
	return st, nil
}

// Save persists a signed-in state. Saving a signed-out state clears the
// stored flags.
func Save(ctx context.Context, s store.SettingsStore, st State) error {
	if !st.SignedIn() {
		return Clear(ctx, s)
	}
	values := []struct{ key, value string }{
		{KeyRole, string(st.View.Role())},
		{KeyName, st.View.Name()},
		{KeyPage, string(st.Page)},
		{KeySelectedJob, st.SelectedJob},
	}
	for _, kv := range values {
		if kv.value == "" {
			if err := s.Delete(ctx, kv.key); err != nil {
				return fmt.Errorf("save %s: %w", kv.key, err)
			}
			continue
		}
		if err := s.Set(ctx, kv.key, kv.value); err != nil {
			return fmt.Errorf("save %s: %w", kv.key, err)
		}
	}
	return nil
}

// Clear removes every persisted session flag.
func Clear(ctx context.Context, s store.SettingsStore) error {
	for _, key := range []string{KeyRole, KeyName, KeyPage, KeySelectedJob} {
		if err := s.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

func get(ctx context.Context, s store.SettingsStore, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	return v, err
}
