package types

import (
	"time"

	"github.com/glintwash/glintwash-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// User is the normalized identity record owned by the auth manager. UI and
// other managers hold read references only.
type User struct {
	ID         int64
	FirstName  string
	LastName   string
	UserName   string
	Email      string
	Phone      string
	Role       string
	IsVerified bool
	VerifiedAt *time.Time
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CartItem is one product line inside the user's active cart. CartItemID is
// the server-side row id and stays nil until the first successful sync.
type CartItem struct {
	ProductID  int64
	CartItemID *int64
	Name       string
	Price      decimal.Decimal
	Image      string
	Quantity   int
	Category   string
}

// Subtotal is price times quantity.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// OrderItem is the flattened snapshot of a cart line at checkout time.
type OrderItem struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Order is the local mirror appended right after a successful remote
// order-create call. Status only ever changes server-side.
type Order struct {
	ID     int64
	Date   time.Time
	Items  []OrderItem
	Total  decimal.Decimal
	Status enums.OrderStatus
}

// Review ties a rating and comment to exactly one completed order.
type Review struct {
	ID      int64
	OrderID int64
	Rating  int
	Comment string
	Date    time.Time
}

// Branch is a physical shop location used for pickup selection.
type Branch struct {
	ID       int64
	Name     string
	Address  string
	Phone    string
	IsActive bool
}

// BranchStock is the per-branch inventory count for one product.
type BranchStock struct {
	BranchID int64
	Quantity int
}

// Product is read-only catalog data.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	Image    string
	Category string
	IsActive bool
	Stock    []BranchStock
}

// StockAt returns the available quantity at the given branch, zero when the
// branch has no stock entry.
func (p Product) StockAt(branchID int64) int {
	for _, entry := range p.Stock {
		if entry.BranchID == branchID {
			return entry.Quantity
		}
	}
	return 0
}

// Package is a priced bundle of service inclusions.
type Package struct {
	ID          int64
	Name        string
	ServiceType enums.ServiceType
	Price       decimal.Decimal
	Inclusions  []string
	IsActive    bool
}

// GalleryImage is a single entry of the marketing gallery.
type GalleryImage struct {
	ID      int64
	URL     string
	Caption string
}
