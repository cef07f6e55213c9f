package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/glintwash/glintwash-client/pkg/api"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/logger"
	"github.com/glintwash/glintwash-client/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

type cartAPI interface {
	CartByUser(ctx context.Context, userID int64) ([]types.CartItemDTO, error)
	CartCreate(ctx context.Context, req api.CartCreateRequest) (*types.CartItemDTO, error)
	CartUpdate(ctx context.Context, cartItemID int64, req api.CartUpdateRequest) (*types.CartItemDTO, error)
	CartDelete(ctx context.Context, cartItemID int64) error
}

type userSource interface {
	CurrentUser() *types.User
}

// Manager owns the local cart lines and keeps them synchronized with the
// per-user remote cart collection. Local state holds at most one line per
// product id; the merge rule in Add enforces that against the server too.
type Manager struct {
	api   cartAPI
	users userSource
	logg  *logger.Logger

	mu    sync.Mutex
	items []types.CartItem
	open  bool
}

// Params bundles the dependencies required to build the cart manager.
type Params struct {
	API    cartAPI
	Users  userSource
	Logger *logger.Logger
}

// NewManager constructs the cart manager.
func NewManager(params Params) (*Manager, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user source is required")
	}
	return &Manager{
		api:   params.API,
		users: params.Users,
		logg:  params.Logger,
	}, nil
}

// Add puts one unit of the product into the cart. An existing line for the
// same product id turns into a single remote quantity update, never a second
// create. Either path opens the cart panel.
func (m *Manager) Add(ctx context.Context, product types.Product) error {
	user := m.users.CurrentUser()
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to add to cart")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := m.findLocked(product.ID); existing != nil && existing.CartItemID != nil {
		row, err := m.api.CartUpdate(ctx, *existing.CartItemID, api.CartUpdateRequest{
			Quantity: existing.Quantity + 1,
		})
		if err != nil {
			m.resyncLocked(ctx, user.ID, err)
			return err
		}
		existing.Quantity = row.Quantity
		m.open = true
		return nil
	}

	row, err := m.api.CartCreate(ctx, api.CartCreateRequest{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	})
	if err != nil {
		m.resyncLocked(ctx, user.ID, err)
		return err
	}

	item := row.ToDomain()
	// The server row is authoritative, but a sparse response must not wipe
	// the product snapshot the caller already has.
	if item.Name == "" {
		item.Name = product.Name
	}
	if item.Price.IsZero() {
		item.Price = product.Price
	}
	if item.Image == "" {
		item.Image = product.Image
	}
	if item.Category == "" {
		item.Category = product.Category
	}
	m.items = append(m.items, item)
	m.open = true
	return nil
}

// UpdateQuantity pushes a new quantity for the product's line. A target of
// zero or less is a removal. Local state only changes after the server
// confirms.
func (m *Manager) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return m.Remove(ctx, productID)
	}

	user := m.users.CurrentUser()
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to update cart")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.findLocked(productID)
	if existing == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}
	if existing.CartItemID == nil {
		m.resyncLocked(ctx, user.ID, nil)
		return pkgerrors.New(pkgerrors.CodeConflict, "cart line is not synced yet")
	}

	row, err := m.api.CartUpdate(ctx, *existing.CartItemID, api.CartUpdateRequest{Quantity: quantity})
	if err != nil {
		m.resyncLocked(ctx, user.ID, err)
		return err
	}
	existing.Quantity = row.Quantity
	return nil
}

// Remove deletes the product's line. The remote row is deleted when its id
// is known; the local line goes away regardless of the remote outcome, with
// failures only logged.
func (m *Manager) Remove(ctx context.Context, productID int64) error {
	user := m.users.CurrentUser()
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to update cart")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.findLocked(productID)
	if existing == nil {
		return nil
	}
	if existing.CartItemID != nil {
		if err := m.api.CartDelete(ctx, *existing.CartItemID); err != nil && m.logg != nil {
			m.logg.Error(ctx, "remote cart delete failed, pruning local line anyway", err)
		}
	}
	m.deleteLocked(productID)
	return nil
}

// Clear removes every synced line remotely in one parallel batch and resets
// local state even when part of the batch fails. Best effort by contract.
func (m *Manager) Clear(ctx context.Context) error {
	user := m.users.CurrentUser()
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to update cart")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	group := new(errgroup.Group)
	var batchMu sync.Mutex
	var batchErr error
	for _, item := range m.items {
		if item.CartItemID == nil {
			continue
		}
		cartItemID := *item.CartItemID
		group.Go(func() error {
			if err := m.api.CartDelete(ctx, cartItemID); err != nil {
				batchMu.Lock()
				batchErr = multierr.Append(batchErr, err)
				batchMu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	if batchErr != nil && m.logg != nil {
		m.logg.Error(ctx, "cart clear left remote rows behind", batchErr)
	}
	m.items = nil
	return nil
}

// Refresh replaces local state with the server's active rows. This is the
// single recovery path for any drift between local and remote state.
func (m *Manager) Refresh(ctx context.Context) error {
	user := m.users.CurrentUser()
	if user == nil {
		m.mu.Lock()
		m.items = nil
		m.mu.Unlock()
		return nil
	}

	rows, err := m.api.CartByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	items := make([]types.CartItem, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		items = append(items, row.ToDomain())
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
	return nil
}

// Items returns a copy of the current lines.
func (m *Manager) Items() []types.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]types.CartItem, len(m.items))
	copy(items, m.items)
	return items
}

// TotalPrice sums price times quantity across all lines.
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, item := range m.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalItems sums the quantities across all lines.
func (m *Manager) TotalItems() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, item := range m.items {
		total += item.Quantity
	}
	return total
}

func (m *Manager) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
}

func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Manager) findLocked(productID int64) *types.CartItem {
	for i := range m.items {
		if m.items[i].ProductID == productID {
			return &m.items[i]
		}
	}
	return nil
}

func (m *Manager) deleteLocked(productID int64) {
	kept := m.items[:0]
	for _, item := range m.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	m.items = kept
}

// resyncLocked refetches the remote cart after a failed mutation so local
// state converges back to server truth.
func (m *Manager) resyncLocked(ctx context.Context, userID int64, cause error) {
	if cause != nil && m.logg != nil {
		m.logg.Error(ctx, "cart mutation failed, resyncing from server", cause)
	}
	rows, err := m.api.CartByUser(ctx, userID)
	if err != nil {
		if m.logg != nil {
			m.logg.Error(ctx, "cart resync failed", err)
		}
		return
	}
	items := make([]types.CartItem, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		items = append(items, row.ToDomain())
	}
	m.items = items
}
