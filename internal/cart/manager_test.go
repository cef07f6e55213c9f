package cart

import (
	"context"
	"testing"

	"github.com/glintwash/glintwash-client/pkg/api"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/types"
	"github.com/shopspring/decimal"
)

type stubUsers struct {
	user *types.User
}

func (s *stubUsers) CurrentUser() *types.User { return s.user }

type stubCartAPI struct {
	rows []types.CartItemDTO

	createCalls int
	updateCalls int
	deleteCalls int
	listCalls   int

	createErr error
	updateErr error
	deleteErr map[int64]error

	nextRowID int64
}

func (s *stubCartAPI) CartByUser(ctx context.Context, userID int64) ([]types.CartItemDTO, error) {
	s.listCalls++
	return s.rows, nil
}

func (s *stubCartAPI) CartCreate(ctx context.Context, req api.CartCreateRequest) (*types.CartItemDTO, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextRowID++
	row := types.CartItemDTO{
		ID:        s.nextRowID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		IsActive:  true,
	}
	s.rows = append(s.rows, row)
	return &row, nil
}

func (s *stubCartAPI) CartUpdate(ctx context.Context, cartItemID int64, req api.CartUpdateRequest) (*types.CartItemDTO, error) {
	s.updateCalls++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for i := range s.rows {
		if s.rows[i].ID == cartItemID {
			s.rows[i].Quantity = req.Quantity
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

func (s *stubCartAPI) CartDelete(ctx context.Context, cartItemID int64) error {
	s.deleteCalls++
	if err := s.deleteErr[cartItemID]; err != nil {
		return err
	}
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.ID != cartItemID {
			kept = append(kept, row)
		}
	}
	s.rows = kept
	return nil
}

func newTestManager(t *testing.T, stub *stubCartAPI, users *stubUsers) *Manager {
	t.Helper()
	manager, err := NewManager(Params{API: stub, Users: users})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func sampleProduct(id int64) types.Product {
	return types.Product{
		ID:       id,
		Name:     "Wax Polish",
		Price:    decimal.NewFromFloat(12.50),
		Category: "detailing",
		IsActive: true,
	}
}

func TestAddSameProductTwiceMergesIntoOneLine(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{}
	manager := newTestManager(t, stub, &stubUsers{user: &types.User{ID: 1}})
	ctx := context.Background()

	if err := manager.Add(ctx, sampleProduct(10)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := manager.Add(ctx, sampleProduct(10)); err != nil {
		t.Fatalf("second add: %v", err)
	}

	items := manager.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
	if stub.createCalls != 1 || stub.updateCalls != 1 {
		t.Fatalf("expected 1 create + 1 update, got %d creates %d updates", stub.createCalls, stub.updateCalls)
	}
	if !manager.IsOpen() {
		t.Fatal("add must open the cart")
	}
}

func TestUnauthenticatedAddIsRejectedWithoutNetwork(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{}
	manager := newTestManager(t, stub, &stubUsers{})

	err := manager.Add(context.Background(), sampleProduct(10))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.createCalls+stub.updateCalls+stub.listCalls != 0 {
		t.Fatal("no network call may be issued")
	}
	if len(manager.Items()) != 0 {
		t.Fatal("cart must stay empty")
	}
}

func TestUpdateQuantityZeroDelegatesToRemove(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{}
	manager := newTestManager(t, stub, &stubUsers{user: &types.User{ID: 1}})
	ctx := context.Background()

	if err := manager.Add(ctx, sampleProduct(10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := manager.UpdateQuantity(ctx, 10, 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}

	if len(manager.Items()) != 0 {
		t.Fatal("line must be removed")
	}
	if stub.deleteCalls != 1 {
		t.Fatalf("expected one remote delete, got %d", stub.deleteCalls)
	}
}

func TestUpdateQuantityMirrorsOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{}
	manager := newTestManager(t, stub, &stubUsers{user: &types.User{ID: 1}})
	ctx := context.Background()

	if err := manager.Add(ctx, sampleProduct(10)); err != nil {
		t.Fatalf("add: %v", err)
	}

	stub.updateErr = pkgerrors.New(pkgerrors.CodeDependency, "boom")
	if err := manager.UpdateQuantity(ctx, 10, 5); err == nil {
		t.Fatal("expected error")
	}

	items := manager.Items()
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("local state must match server truth after resync, got %+v", items)
	}
	if stub.listCalls == 0 {
		t.Fatal("failed update must trigger a resync fetch")
	}
}

func TestRemovePrunesLocallyEvenWhenRemoteFails(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{deleteErr: map[int64]error{}}
	manager := newTestManager(t, stub, &stubUsers{user: &types.User{ID: 1}})
	ctx := context.Background()

	if err := manager.Add(ctx, sampleProduct(10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	stub.deleteErr[1] = pkgerrors.New(pkgerrors.CodeDependency, "remote down")

	if err := manager.Remove(ctx, 10); err != nil {
		t.Fatalf("remove must not surface remote failure: %v", err)
	}
	if len(manager.Items()) != 0 {
		t.Fatal("local line must be pruned regardless of remote outcome")
	}
}

func TestClearIsBestEffort(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{deleteErr: map[int64]error{}}
	manager := newTestManager(t, stub, &stubUsers{user: &types.User{ID: 1}})
	ctx := context.Background()

	if err := manager.Add(ctx, sampleProduct(10)); err != nil {
		t.Fatalf("add 10: %v", err)
	}
	if err := manager.Add(ctx, sampleProduct(11)); err != nil {
		t.Fatalf("add 11: %v", err)
	}
	stub.deleteErr[2] = pkgerrors.New(pkgerrors.CodeDependency, "remote down")

	if err := manager.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(manager.Items()) != 0 {
		t.Fatal("cart must be empty after best-effort clear")
	}
	if stub.deleteCalls != 2 {
		t.Fatalf("every synced line gets a delete, got %d", stub.deleteCalls)
	}
}

func TestRefreshFiltersInactiveRows(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{rows: []types.CartItemDTO{
		{ID: 1, ProductID: 10, Quantity: 1, IsActive: true},
		{ID: 2, ProductID: 11, Quantity: 3, IsActive: false},
	}}
	manager := newTestManager(t, stub, &stubUsers{user: &types.User{ID: 1}})

	if err := manager.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	items := manager.Items()
	if len(items) != 1 || items[0].ProductID != 10 {
		t.Fatalf("inactive rows must be filtered, got %+v", items)
	}
}

func TestTotals(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{rows: []types.CartItemDTO{
		{ID: 1, ProductID: 10, Price: decimal.NewFromFloat(12.50), Quantity: 2, IsActive: true},
		{ID: 2, ProductID: 11, Price: decimal.NewFromFloat(3.25), Quantity: 1, IsActive: true},
	}}
	manager := newTestManager(t, stub, &stubUsers{user: &types.User{ID: 1}})

	if err := manager.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := manager.TotalItems(); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}
	want := decimal.NewFromFloat(28.25)
	if !manager.TotalPrice().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, manager.TotalPrice())
	}
}
