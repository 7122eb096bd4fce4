package lifeevents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/daybook/internal/notify"
	"github.com/christopherklint97/daybook/internal/remote/remotetest"
)

type recorder struct {
	messages []string
}

func (r *recorder) Notify(_, message string) {
	r.messages = append(r.messages, message)
}

func newTestService(t *testing.T) (*Service, *remotetest.Backend, *recorder) {
	t.Helper()
	backend := remotetest.New()
	rec := &recorder{}
	svc, err := NewService(backend, "user-1", notify.Multi{rec}, nil)
	require.NoError(t, err)
	return svc, backend, rec
}

func titles(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func TestLoad_OrdersByDate(t *testing.T) {
	svc, backend, _ := newTestService(t)
	require.NoError(t, backend.Seed(Table,
		Event{ID: "1", UserID: "user-1", Title: "Moved to Lisbon", EventDate: "2021-09-01"},
		Event{ID: "2", UserID: "user-1", Title: "Graduated", EventDate: "2015-06-12"},
		Event{ID: "3", UserID: "other", Title: "Not mine", EventDate: "2010-01-01"},
	))

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, []string{"Graduated", "Moved to Lisbon"}, titles(svc.List()))
}

func TestAdd_InsertsInDateOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, Input{Title: "New job", EventDate: "2023-02-01"})
	require.NoError(t, err)
	e, err := svc.Add(ctx, Input{Title: "First marathon", EventDate: "2019-10-13"})
	require.NoError(t, err)

	assert.Equal(t, "user-1", e.UserID)
	assert.Equal(t, []string{"First marathon", "New job"}, titles(svc.List()))

	d, err := e.Date(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.October, d.Month())
}

func TestAdd_Validation(t *testing.T) {
	svc, backend, _ := newTestService(t)

	_, err := svc.Add(context.Background(), Input{Title: "", EventDate: "2020-01-01"})
	assert.Error(t, err)
	_, err = svc.Add(context.Background(), Input{Title: "x", EventDate: "01/02/2020"})
	assert.Error(t, err)

	assert.Empty(t, backend.Calls)
}

func TestAdd_FailureNotifies(t *testing.T) {
	svc, backend, rec := newTestService(t)
	backend.Err = errors.New("offline")

	_, err := svc.Add(context.Background(), Input{Title: "x", EventDate: "2020-01-01"})
	require.Error(t, err)
	assert.Empty(t, svc.List())
	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "Could not add life event")
}

func TestUpdate_Resorts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	a, err := svc.Add(ctx, Input{Title: "A", EventDate: "2020-01-01"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, Input{Title: "B", EventDate: "2021-01-01"})
	require.NoError(t, err)

	date := "2022-05-05"
	_, err = svc.Update(ctx, a.ID, Patch{EventDate: &date})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A"}, titles(svc.List()))
}

func TestUpdate_UnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)
	title := "x"
	_, err := svc.Update(context.Background(), "missing", Patch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()
	a, err := svc.Add(ctx, Input{Title: "A", EventDate: "2020-01-01"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Empty(t, svc.List())
	assert.Empty(t, backend.Rows(Table))

	require.NoError(t, svc.Delete(ctx, "missing"))
}

func TestByYear(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for _, in := range []Input{
		{Title: "C", EventDate: "2021-03-01"},
		{Title: "A", EventDate: "2020-01-01"},
		{Title: "B", EventDate: "2020-07-01"},
	} {
		_, err := svc.Add(ctx, in)
		require.NoError(t, err)
	}

	groups := svc.ByYear()
	require.Len(t, groups, 2)
	assert.Equal(t, 2020, groups[0].Year)
	assert.Equal(t, []string{"A", "B"}, titles(groups[0].Events))
	assert.Equal(t, 2021, groups[1].Year)
}
