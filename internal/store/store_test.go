package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/costeo/internal/db"
	"github.com/Simplici0/costeo/internal/ledger"
	"github.com/Simplici0/costeo/internal/migrations"
	"github.com/Simplici0/costeo/internal/reports"
	"github.com/Simplici0/costeo/internal/settings"
	"github.com/Simplici0/costeo/internal/stats"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := migrations.Up(context.Background(), database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return New(database)
}

func TestSettingsDefaultThenSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), got)

	want := settings.Settings{Currency: "$", Decimals: 0, GlovoCommission: 25}
	require.NoError(t, s.SaveSettings(ctx, want))
	require.NoError(t, s.SaveSettings(ctx, want))

	got, err = s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.ErrorIs(t, s.SaveSettings(ctx, settings.Settings{Currency: "€", GlovoCommission: 150}), settings.ErrInvalid)
}

func TestIngredientLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	harina, err := s.AddIngredient(ctx, ledger.Ingredient{Name: "harina", Unit: ledger.UnitKg, PricePerUnit: 0.9})
	require.NoError(t, err)
	assert.Equal(t, "HARINA", harina.Name)

	_, err = s.AddIngredient(ctx, ledger.Ingredient{Name: "Harina", Unit: ledger.UnitKg})
	require.ErrorIs(t, err, ledger.ErrDuplicateName)

	cerveza, err := s.AddIngredient(ctx, ledger.Ingredient{Name: "cerveza", Unit: ledger.UnitUd, PricePerUnit: 0.6, DefaultSalePrice: 3})
	require.NoError(t, err)

	toggled, err := s.ToggleIngredientVisibility(ctx, cerveza.ID)
	require.NoError(t, err)
	assert.True(t, toggled.ShowInSales)

	harina.PricePerUnit = 1.1
	harina.Unit = "litro"
	updated, err := s.UpdateIngredient(ctx, harina)
	require.NoError(t, err)
	assert.Equal(t, ledger.UnitL, updated.Unit)

	cerveza.Name = "HARINA"
	_, err = s.UpdateIngredient(ctx, cerveza)
	require.ErrorIs(t, err, ledger.ErrDuplicateName)

	l, err := s.Ledger(ctx)
	require.NoError(t, err)
	require.Len(t, l, 2)
	assert.Equal(t, "HARINA", l[0].Name)
	assert.Equal(t, 1.1, l[0].PricePerUnit)
	assert.Equal(t, "CERVEZA", l[1].Name)
	assert.True(t, l[1].ShowInSales)

	require.NoError(t, s.DeleteIngredient(ctx, harina.ID))
	require.ErrorIs(t, s.DeleteIngredient(ctx, harina.ID), ErrNotFound)
	_, err = s.ToggleIngredientVisibility(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddAfterDeleteKeepsAppendOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	var ids []string
	for _, name := range []string{"A", "B", "C", "D"} {
		ing, err := s.AddIngredient(ctx, ledger.Ingredient{Name: name, Unit: ledger.UnitKg})
		require.NoError(t, err)
		ids = append(ids, ing.ID)
	}
	require.NoError(t, s.DeleteIngredient(ctx, ids[0]))
	require.NoError(t, s.DeleteIngredient(ctx, ids[1]))
	_, err := s.AddIngredient(ctx, ledger.Ingredient{Name: "E", Unit: ledger.UnitKg})
	require.NoError(t, err)

	l, err := s.Ledger(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D", "E"}, []string{l[0].Name, l[1].Name, l[2].Name})
}

func TestImportIngredientsMerges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	flour, err := s.AddIngredient(ctx, ledger.Ingredient{Name: "FLOUR", Unit: ledger.UnitKg, PricePerUnit: 1.20})
	require.NoError(t, err)

	ms, err := s.ImportIngredients(ctx, []ledger.Ingredient{
		ledger.NewIngredient("flour", ledger.UnitKg, 1.50, 0, false),
		ledger.NewIngredient("sugar", ledger.UnitKg, 0.8, 0, false),
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.MergeStats{Updated: 1, Added: 1}, ms)

	l, err := s.Ledger(ctx)
	require.NoError(t, err)
	require.Len(t, l, 2)
	assert.Equal(t, flour.ID, l[0].ID)
	assert.Equal(t, 1.50, l[0].PricePerUnit)
	assert.Equal(t, "SUGAR", l[1].Name)
}

func TestReplaceLedger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.AddIngredient(ctx, ledger.Ingredient{Name: "FLOUR", Unit: ledger.UnitKg, PricePerUnit: 1.20})
	require.NoError(t, err)

	replaced, err := s.ReplaceLedger(ctx, ledger.Ledger{
		{Name: "sugar", Unit: ledger.UnitKg, PricePerUnit: 0.8},
		{Name: "milk", Unit: "litros", PricePerUnit: 0.9},
	})
	require.NoError(t, err)
	require.Len(t, replaced, 2)
	assert.NotEmpty(t, replaced[0].ID)

	l, err := s.Ledger(ctx)
	require.NoError(t, err)
	assert.Equal(t, replaced, l)
	assert.Equal(t, "SUGAR", l[0].Name)
	assert.Equal(t, ledger.UnitL, l[1].Unit)

	_, err = s.ReplaceLedger(ctx, ledger.Ledger{{Name: "salt"}, {Name: "SALT"}})
	require.ErrorIs(t, err, ledger.ErrDuplicateName)
	l, err = s.Ledger(ctx)
	require.NoError(t, err)
	assert.Len(t, l, 2)
}

func TestProductLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.CreateProduct(ctx, stats.Product{
		Name:      "Margherita",
		SalePrice: 11,
		IsActive:  true,
		Ingredients: []ledger.RecipeLine{
			{IngredientName: "MASA", Amount: 1, Unit: ledger.UnitUd},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, p.Number)

	second, err := s.CreateProduct(ctx, stats.Product{Name: "Sin receta", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)

	p.IsActive = false
	_, err = s.UpdateProduct(ctx, p)
	require.NoError(t, err)

	got, err := s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, p.Ingredients, got.Ingredients)

	all, err := s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotNil(t, all[1].Ingredients)
	assert.Len(t, stats.Active(all), 1)

	_, err = s.CreateProduct(ctx, stats.Product{Name: " "})
	require.ErrorIs(t, err, ErrInvalidProduct)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	_, err = s.Product(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdateProduct(ctx, p)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTicketsKeepOrderAndNumbers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	madrid := time.FixedZone("CEST", 2*60*60)
	first, err := s.CreateTicket(ctx, reports.Ticket{
		Date:       time.Date(2024, 6, 15, 21, 30, 0, 0, madrid),
		Items:      []reports.TicketItem{{Name: "Margherita", Quantity: 2}},
		TotalVenta: 22, TotalCosto: 4, TotalProfit: 16,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.TicketNumber)

	second, err := s.CreateTicket(ctx, reports.Ticket{
		Date:    time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC),
		IsGlovo: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.TicketNumber)

	all, err := s.Tickets(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.True(t, all[0].Date.Equal(first.Date))
	assert.Equal(t, 2, all[0].Items[0].Quantity)
	assert.True(t, all[1].IsGlovo)
	assert.InDelta(t, 16, all[0].TotalProfit, 1e-9)

	require.NoError(t, s.DeleteTicket(ctx, first.ID))
	require.ErrorIs(t, s.DeleteTicket(ctx, first.ID), ErrNotFound)

	third, err := s.CreateTicket(ctx, reports.Ticket{Date: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, 3, third.TicketNumber)
}
