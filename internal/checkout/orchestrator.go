package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glintwash/glintwash-client/pkg/api"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/logger"
	"github.com/glintwash/glintwash-client/pkg/session"
	"github.com/glintwash/glintwash-client/pkg/types"
)

type orderAPI interface {
	OrderCreate(ctx context.Context, req api.OrderCreateRequest) (*types.OrderDTO, error)
	OrdersByUser(ctx context.Context, userID int64) ([]types.OrderDTO, error)
}

type productSource interface {
	Products(ctx context.Context) ([]types.Product, error)
}

type cartSource interface {
	Items() []types.CartItem
	Clear(ctx context.Context) error
}

type userSource interface {
	CurrentUser() *types.User
}

type branchSource interface {
	SelectedBranch() *types.Branch
}

// Orchestrator turns the current cart into an order. The stock check is a
// pre-flight read only; nothing is reserved, so a concurrent checkout can
// still win the last unit. The fixed API contract offers no reservation
// call to close that window.
type Orchestrator struct {
	api     orderAPI
	catalog productSource
	cart    cartSource
	users   userSource
	branch  branchSource
	store   session.Store
	logg    *logger.Logger
}

// Params bundles the dependencies required to build the orchestrator.
type Params struct {
	API     orderAPI
	Catalog productSource
	Cart    cartSource
	Users   userSource
	Branch  branchSource
	Store   session.Store
	Logger  *logger.Logger
}

// NewOrchestrator constructs the checkout orchestrator.
func NewOrchestrator(params Params) (*Orchestrator, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart source is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user source is required")
	}
	if params.Branch == nil {
		return nil, fmt.Errorf("branch source is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Orchestrator{
		api:     params.API,
		catalog: params.Catalog,
		cart:    params.Cart,
		users:   params.Users,
		branch:  params.Branch,
		store:   params.Store,
		logg:    params.Logger,
	}, nil
}

// PlaceOrder validates stock against the live catalog, submits the order,
// mirrors it into local history and clears the cart. Any failure leaves
// cart and session exactly as they were.
func (o *Orchestrator) PlaceOrder(ctx context.Context) (*types.Order, error) {
	user := o.users.CurrentUser()
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to place an order")
	}
	branch := o.branch.SelectedBranch()
	if branch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select a branch before placing an order")
	}
	items := o.cart.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	products, err := o.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]types.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("%s is no longer available", item.Name))
		}
		available := product.StockAt(branch.ID)
		if available == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeStock,
				fmt.Sprintf("%s is out of stock at %s", product.Name, branch.Name))
		}
		if available < item.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeStock,
				fmt.Sprintf("only %d of %s available at %s", available, product.Name, branch.Name))
		}
	}

	req := api.OrderCreateRequest{
		UserID:   user.ID,
		BranchID: branch.ID,
		Products: make([]api.OrderProductRequest, 0, len(items)),
	}
	for _, item := range items {
		req.Products = append(req.Products, api.OrderProductRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	dto, err := o.api.OrderCreate(ctx, req)
	if err != nil {
		return nil, err
	}

	order := o.mirrorOrder(*dto, items)
	if err := o.appendHistory(ctx, order); err != nil {
		o.warn(ctx, "persisting order history failed", err)
	}
	if err := o.cart.Clear(ctx); err != nil {
		o.warn(ctx, "clearing cart after checkout failed", err)
	}
	return &order, nil
}

// mirrorOrder builds the local Order from the server response, filling any
// fields the backend leaves sparse from the cart snapshot.
func (o *Orchestrator) mirrorOrder(dto types.OrderDTO, items []types.CartItem) types.Order {
	order := dto.ToDomain()
	if len(order.Items) == 0 {
		order.Items = make([]types.OrderItem, 0, len(items))
		for _, item := range items {
			order.Items = append(order.Items, types.OrderItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}
	}
	if order.Total.IsZero() {
		for _, item := range items {
			order.Total = order.Total.Add(item.Subtotal())
		}
	}
	if order.Date.IsZero() {
		order.Date = time.Now()
	}
	return order
}

// History returns the locally mirrored order list.
func (o *Orchestrator) History(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	err := session.LoadJSON(ctx, o.store, session.KeyOrders, &orders)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// SyncHistory replaces the local mirror with the server's order list; status
// transitions only ever arrive through this fetch.
func (o *Orchestrator) SyncHistory(ctx context.Context) ([]types.Order, error) {
	user := o.users.CurrentUser()
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	rows, err := o.api.OrdersByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	orders := make([]types.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.ToDomain())
	}
	if err := session.SaveJSON(ctx, o.store, session.KeyOrders, orders); err != nil {
		o.warn(ctx, "persisting order history failed", err)
	}
	return orders, nil
}

func (o *Orchestrator) appendHistory(ctx context.Context, order types.Order) error {
	orders, err := o.History(ctx)
	if err != nil {
		return err
	}
	return session.SaveJSON(ctx, o.store, session.KeyOrders, append(orders, order))
}

func (o *Orchestrator) warn(ctx context.Context, msg string, err error) {
	if o.logg == nil {
		return
	}
	o.logg.Error(ctx, msg, err)
}
