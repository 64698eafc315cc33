package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnwards/niyog/internal/database"
	"github.com/johnwards/niyog/internal/session"
	"github.com/johnwards/niyog/internal/store"
	"github.com/johnwards/niyog/internal/testhelpers"
)

func TestResolve(t *testing.T) {
	v, err := session.Resolve("jobseeker", "Asha")
	require.NoError(t, err)
	require.Equal(t, session.JobSeekerView{DisplayName: "Asha"}, v)
	require.Len(t, v.Pages(), 4)

	v, err = session.Resolve("employer", "Globex HR")
	require.NoError(t, err)
	require.Equal(t, session.RoleEmployer, v.Role())
	require.Equal(t, []session.Page{session.PageDashboard}, v.Pages())

	_, err = session.Resolve("admin", "")
	require.ErrorIs(t, err, session.ErrUnknownRole)
}

func TestReduce(t *testing.T) {
	seeker := session.JobSeekerView{DisplayName: "Asha"}
	st := session.Initial()

	ignored := session.Reduce(st, session.Navigated{Page: session.PageProfile})
	require.Equal(t, st, ignored, "navigation while signed out is ignored")

	st = session.Reduce(st, session.SignedIn{View: seeker})
	require.True(t, st.SignedIn())
	require.Equal(t, session.PageDashboard, st.Page)

	st = session.Reduce(st, session.Navigated{Page: session.PageInterview, JobID: "4"})
	require.Equal(t, session.PageInterview, st.Page)
	require.Equal(t, "4", st.SelectedJob)

	st = session.Reduce(st, session.Navigated{Page: "settings"})
	require.Equal(t, session.PageDashboard, st.Page, "unknown pages fall back to the dashboard")
	require.Equal(t, "4", st.SelectedJob)

	st = session.Reduce(st, session.JobSelected{JobID: "2"})
	require.Equal(t, "2", st.SelectedJob)

	st = session.Reduce(st, session.SignedOut{})
	require.Equal(t, session.Initial(), st)
}

func TestReduceEmployerPages(t *testing.T) {
	st := session.Reduce(session.Initial(), session.SignedIn{View: session.EmployerView{DisplayName: "HR"}})
	st = session.Reduce(st, session.Navigated{Page: session.PageApply})
	require.Equal(t, session.PageDashboard, st.Page)
}

func TestReduceDoesNotMutate(t *testing.T) {
	st := session.Reduce(session.Initial(), session.SignedIn{View: session.JobSeekerView{}})
	before := st
	_ = session.Reduce(st, session.Navigated{Page: session.PageProfile, JobID: "1"})
	require.Equal(t, before, st)
}

func TestStateJSON(t *testing.T) {
	out, err := json.Marshal(session.Initial())
	require.NoError(t, err)
	require.JSONEq(t, `{"signedIn":false,"page":"dashboard","pages":[]}`, string(out))

	st := session.Reduce(session.Initial(), session.SignedIn{View: session.EmployerView{DisplayName: "HR"}})
	out, err = json.Marshal(st)
	require.NoError(t, err)
	require.JSONEq(t, `{"signedIn":true,"role":"employer","name":"HR","page":"dashboard","pages":["dashboard"]}`, string(out))
}

func setupSettings(t *testing.T) store.SettingsStore {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	require.NoError(t, database.Migrate(context.Background(), db))
	return store.NewSQLiteSettingsStore(db)
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()
	s := setupSettings(t)

	st, err := session.Load(ctx, s)
	require.NoError(t, err)
	require.False(t, st.SignedIn())

	st = session.Reduce(st, session.SignedIn{View: session.JobSeekerView{DisplayName: "Asha"}})
	st = session.Reduce(st, session.Navigated{Page: session.PageProfile, JobID: "3"})
	require.NoError(t, session.Save(ctx, s, st))

	loaded, err := session.Load(ctx, s)
	require.NoError(t, err)
	require.Equal(t, st, loaded)

	role, err := s.Get(ctx, session.KeyRole)
	require.NoError(t, err)
	require.Equal(t, "jobseeker", role)

	require.NoError(t, session.Clear(ctx, s))
	loaded, err = session.Load(ctx, s)
	require.NoError(t, err)
	require.Equal(t, session.Initial(), loaded)
}

func TestLoadUnknownRole(t *testing.T) {
	ctx := context.Background()
	s := setupSettings(t)
	require.NoError(t, s.Set(ctx, session.KeyRole, "admin"))

	_, err := session.Load(ctx, s)
	require.ErrorIs(t, err, session.ErrUnknownRole)
}

// failingDeletes is a settings store whose Delete always fails.
type failingDeletes struct {
	store.SettingsStore
}

var errDeleteFailed = errors.New("delete failed")

func (failingDeletes) Delete(context.Context, string) error {
	return errDeleteFailed
}

func TestSaveWrapsDeleteError(t *testing.T) {
	ctx := context.Background()
	s := failingDeletes{setupSettings(t)}

	// No selected job, so Save deletes that flag.
	st := session.Reduce(session.Initial(), session.SignedIn{View: session.JobSeekerView{DisplayName: "Asha"}})
	err := session.Save(ctx, s, st)
	require.ErrorIs(t, err, errDeleteFailed)
	require.EqualError(t, err, "save "+session.KeySelectedJob+": delete failed")
}
