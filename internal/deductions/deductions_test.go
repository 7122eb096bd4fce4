package deductions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	svc, err := NewService(backend, "user-1", rec, nil)
	require.NoError(t, err)
	return svc, backend, rec
}

func TestNewService_RequiresUser(t *testing.T) {
	_, err := NewService(remotetest.New(), "", nil, nil)
	assert.ErrorContains(t, err, "user id is required")

	_, err = NewService(nil, "u", nil, nil)
	assert.ErrorContains(t, err, "backend is required")
}

func TestAnnualized(t *testing.T) {
	assert.Equal(t, 6000.0, Deduction{Type: TypeMonthly, Amount: 500}.Annualized())
	assert.Equal(t, 2500.0, Deduction{Type: TypeAnnual, Amount: 2500}.Annualized())
}

func TestSum_MonthlyFederal(t *testing.T) {
	totals := Sum([]Deduction{{Type: TypeMonthly, Amount: 500, ReducesFederal: true}})
	assert.Equal(t, 6000.0, totals.Federal)
	assert.Zero(t, totals.State)
	assert.Zero(t, totals.FICA)
	assert.Equal(t, 6000.0, totals.Total)
}

func TestSum_SplitsByTax(t *testing.T) {
	totals := Sum([]Deduction{
		{Type: TypeMonthly, Amount: 100, ReducesFederal: true, ReducesState: true, ReducesFICA: true},
		{Type: TypeAnnual, Amount: 7000, ReducesFederal: true, ReducesState: true},
		{Type: TypeAnnual, Amount: 300},
	})
	assert.Equal(t, 8200.0, totals.Federal)
	assert.Equal(t, 8200.0, totals.State)
	assert.Equal(t, 1200.0, totals.FICA)
	assert.Equal(t, 8500.0, totals.Total)
}

func TestLoad_OnlyCurrentUser(t *testing.T) {
	svc, backend, _ := newTestService(t)
	require.NoError(t, backend.Seed(Table,
		Deduction{ID: "a", UserID: "user-1", Name: "401k", Type: TypeMonthly, Amount: 500, ReducesFederal: true},
		Deduction{ID: "b", UserID: "someone-else", Name: "HSA", Type: TypeAnnual, Amount: 3000},
	))

	require.NoError(t, svc.Load(context.Background()))

	items := svc.List()
	require.Len(t, items, 1)
	assert.Equal(t, "401k", items[0].Name)
	assert.Equal(t, 6000.0, svc.Totals().Federal)
}

func TestAdd_AppendsAfterConfirmation(t *testing.T) {
	svc, backend, _ := newTestService(t)

	d, err := svc.Add(context.Background(), Input{Name: "HSA", Type: TypeAnnual, Amount: 3850, ReducesFederal: true, ReducesFICA: true})
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "user-1", d.UserID)
	require.Len(t, svc.List(), 1)
	assert.Equal(t, 3850.0, svc.Totals().FICA)

	rows := backend.Rows(Table)
	require.Len(t, rows, 1)
	assert.Equal(t, "user-1", rows[0]["user_id"])
}

func TestAdd_InvalidInputNeverReachesBackend(t *testing.T) {
	svc, backend, rec := newTestService(t)

	_, err := svc.Add(context.Background(), Input{Name: "x", Type: "weekly", Amount: 10})
	require.Error(t, err)

	_, err = svc.Add(context.Background(), Input{Type: TypeAnnual, Amount: 10})
	require.Error(t, err)

	_, err = svc.Add(context.Background(), Input{Name: "x", Type: TypeAnnual, Amount: -5})
	require.Error(t, err)

	assert.Empty(t, backend.Calls)
	assert.Empty(t, rec.messages)
}

func TestInputValidate_ZeroAmountAllowed(t *testing.T) {
	in := Input{Name: "Placeholder", Type: TypeMonthly, Amount: 0}
	require.NoError(t, in.Validate())
}

func TestAdd_FailureLeavesStateAndNotifies(t *testing.T) {
	svc, backend, rec := newTestService(t)
	backend.Err = errors.New("network down")

	_, err := svc.Add(context.Background(), Input{Name: "HSA", Type: TypeAnnual, Amount: 100})
	require.Error(t, err)
	assert.ErrorContains(t, err, "network down")

	assert.Empty(t, svc.List())
	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "Could not add deduction")
}

func TestUpdate_ReplacesRow(t *testing.T) {
	svc, _, _ := newTestService(t)
	d, err := svc.Add(context.Background(), Input{Name: "Gym", Type: TypeAnnual, Amount: 600})
	require.NoError(t, err)

	monthly := TypeMonthly
	amount := 50.0
	updated, err := svc.Update(context.Background(), d.ID, Patch{Type: &monthly, Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, TypeMonthly, updated.Type)
	assert.Equal(t, "Gym", updated.Name)
	got, ok := svc.Get(d.ID)
	require.True(t, ok)
	assert.Equal(t, 600.0, got.Annualized())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestUpdate_UnknownID(t *testing.T) {
	svc, backend, _ := newTestService(t)

	name := "x"
	_, err := svc.Update(context.Background(), "nope", Patch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, backend.Calls)
}

func TestUpdate_FailureKeepsOldValue(t *testing.T) {
	svc, backend, rec := newTestService(t)
	d, err := svc.Add(context.Background(), Input{Name: "Gym", Type: TypeAnnual, Amount: 600})
	require.NoError(t, err)

	backend.Err = errors.New("timeout")
	name := "Pool"
	_, err = svc.Update(context.Background(), d.ID, Patch{Name: &name})
	require.Error(t, err)

	got, _ := svc.Get(d.ID)
	assert.Equal(t, "Gym", got.Name)
	assert.Len(t, rec.messages, 1)
}

func TestDelete(t *testing.T) {
	svc, backend, _ := newTestService(t)
	a, err := svc.Add(context.Background(), Input{Name: "A", Type: TypeAnnual, Amount: 1})
	require.NoError(t, err)
	b, err := svc.Add(context.Background(), Input{Name: "B", Type: TypeAnnual, Amount: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), a.ID))

	items := svc.List()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Len(t, backend.Rows(Table), 1)
}

func TestDelete_FailureKeepsRow(t *testing.T) {
	svc, backend, _ := newTestService(t)
	a, err := svc.Add(context.Background(), Input{Name: "A", Type: TypeAnnual, Amount: 1})
	require.NoError(t, err)

	backend.Err = errors.New("boom")
	require.Error(t, svc.Delete(context.Background(), a.ID))
	assert.Len(t, svc.List(), 1)
}
