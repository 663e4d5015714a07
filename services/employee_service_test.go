package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/ws"
)

func TestEmployeeService_CreateValid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, errs, err := f.employees.Create(ctx, validForm(" Ada ", "Lovelace"), f.localizer)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.NotZero(t, e.ID)
	require.Equal(t, "Ada", e.FirstName)

	all, err := f.repo.GetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Employee{*e}, all)
	require.Equal(t, []string{ws.OpEmployeeCreate}, f.hub.ops())
}

func TestEmployeeService_CreateInvalidReturnsLocalizedErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := models.EmployeeForm{Email: "bad", Phone: "abc123"}
	e, errs, err := f.employees.Create(ctx, form, f.localizer)
	require.ErrorIs(t, err, pkg.ErrValidation)
	require.Nil(t, e)
	require.Len(t, errs, 8)
	require.Equal(t, "Email address is not valid", errs["email"])
	require.Equal(t, "Phone number must contain only digits", errs["phone"])
	require.Equal(t, "First name is required", errs["firstName"])

	all, err := f.repo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
	require.Empty(t, f.hub.ops())
}

func TestEmployeeService_UpdatePreservesID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := f.addN(t, 2)

	form := validForm("Grace", "Hopper")
	form.Position = "Junior"
	updated, errs, err := f.employees.Update(ctx, ids[0], form, f.localizer)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Equal(t, ids[0], updated.ID)

	got, err := f.employees.Get(ctx, ids[0])
	require.NoError(t, err)
	require.Equal(t, "Grace", got.FirstName)
	require.Equal(t, models.PositionJunior, got.Position)
	require.Contains(t, f.hub.ops(), ws.OpEmployeeUpdate)
}

func TestEmployeeService_UpdateAndDeleteMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.employees.Update(ctx, 99, validForm("A", "B"), f.localizer)
	require.ErrorIs(t, err, pkg.ErrNotFound)

	err = f.employees.Delete(ctx, 99)
	require.ErrorIs(t, err, pkg.ErrNotFound)
	require.Empty(t, f.hub.ops())
}

func TestEmployeeService_DeleteBroadcastsID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := f.addN(t, 1)

	require.NoError(t, f.employees.Delete(ctx, ids[0]))
	last := f.hub.events[len(f.hub.events)-1]
	require.Equal(t, ws.OpEmployeeDelete, last.Op)
	require.Equal(t, ws.EmployeeDeleteData{ID: ids[0]}, last.Data)
}

func TestEmployeeService_ListPaginatesByViewMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addN(t, 20)

	list, err := f.employees.List(ctx, ListQuery{Page: 1, ViewMode: models.ViewModeList})
	require.NoError(t, err)
	require.Len(t, list.Items, 12)
	require.Equal(t, 12, list.PageSize)
	require.Equal(t, 2, list.PageCount)
	require.Equal(t, 20, list.Total)

	card, err := f.employees.List(ctx, ListQuery{Page: 2, ViewMode: models.ViewModeCard})
	require.NoError(t, err)
	require.Len(t, card.Items, 5)
	require.Equal(t, 15, card.PageSize)

	// Aralık dışı sayfa boş, hata değil
	empty, err := f.employees.List(ctx, ListQuery{Page: 9, ViewMode: models.ViewModeList})
	require.NoError(t, err)
	require.Empty(t, empty.Items)
	require.Equal(t, 9, empty.Page)
}

func TestEmployeeService_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.employees.Create(ctx, validForm("Ada", "Lovelace"), f.localizer)
	require.NoError(t, err)
	other := validForm("Alan", "Turing")
	other.Department = "Analytics"
	_, _, err = f.employees.Create(ctx, other, f.localizer)
	require.NoError(t, err)

	page, err := f.employees.List(ctx, ListQuery{Query: "ANALYTICS"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Alan", page.Items[0].FirstName)
	require.Equal(t, models.ViewModeList, page.ViewMode)
	require.Equal(t, 1, page.Page)
}

func TestEmployeeService_SeedOnlyIntoEmptyStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seed := `[
		{"id": 1, "firstName": "Ada", "lastName": "Lovelace", "dateOfBirth": "1990-12-10",
		 "employmentDate": "2020-01-15", "phone": "5551234567", "email": "ada@example.com",
		 "department": "Tech", "position": "Senior"},
		{"id": 2, "firstName": "", "lastName": "Missing"}
	]`

	n, err := f.employees.Seed(ctx, strings.NewReader(seed))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	all, err := f.repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "5551234567", all[0].PhoneNumber)

	n, err = f.employees.Seed(ctx, strings.NewReader(seed))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestEmployeeService_SeedRejectsMalformedJSON(t *testing.T) {
	f := newFixture(t)
	_, err := f.employees.Seed(context.Background(), strings.NewReader(`{not json`))
	require.Error(t, err)
}
