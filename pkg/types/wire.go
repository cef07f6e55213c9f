package types

import (
	"time"

	"github.com/glintwash/glintwash-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// Wire DTOs mirror the backend's snake_case JSON. Translation into the
// Go-cased domain types happens here and nowhere else.

type UserDTO struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	UserName   string  `json:"user_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
	VerifiedAt *string `json:"verified_at"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func (d UserDTO) ToDomain() User {
	return User{
		ID:         d.ID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		UserName:   d.UserName,
		Email:      d.Email,
		Phone:      d.Phone,
		Role:       d.Role,
		IsVerified: d.IsVerified,
		VerifiedAt: parseTimePtr(d.VerifiedAt),
		IsActive:   d.IsActive,
		CreatedAt:  parseTime(d.CreatedAt),
		UpdatedAt:  parseTime(d.UpdatedAt),
	}
}

type CartItemDTO struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Category  string          `json:"category"`
	IsActive  bool            `json:"is_active"`
}

func (d CartItemDTO) ToDomain() CartItem {
	id := d.ID
	return CartItem{
		ProductID:  d.ProductID,
		CartItemID: &id,
		Name:       d.Name,
		Price:      d.Price,
		Image:      d.Image,
		Quantity:   d.Quantity,
		Category:   d.Category,
	}
}

type OrderItemDTO struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderDTO struct {
	ID     int64           `json:"id"`
	Date   string          `json:"date"`
	Items  []OrderItemDTO  `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Status string          `json:"status"`
}

func (d OrderDTO) ToDomain() Order {
	items := make([]OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, OrderItem{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	status, err := enums.ParseOrderStatus(d.Status)
	if err != nil {
		status = enums.OrderStatusPending
	}
	return Order{
		ID:     d.ID,
		Date:   parseTime(d.Date),
		Items:  items,
		Total:  d.Total,
		Status: status,
	}
}

type ReviewDTO struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"order_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

func (d ReviewDTO) ToDomain() Review {
	return Review{
		ID:      d.ID,
		OrderID: d.OrderID,
		Rating:  d.Rating,
		Comment: d.Comment,
		Date:    parseTime(d.Date),
	}
}

type BranchDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

func (d BranchDTO) ToDomain() Branch {
	return Branch{ID: d.ID, Name: d.Name, Address: d.Address, Phone: d.Phone, IsActive: d.IsActive}
}

type BranchStockDTO struct {
	BranchID int64 `json:"branch_id"`
	Quantity int   `json:"quantity"`
}

type ProductDTO struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Price    decimal.Decimal  `json:"price"`
	Image    string           `json:"image"`
	Category string           `json:"category"`
	IsActive bool             `json:"is_active"`
	Stock    []BranchStockDTO `json:"stock"`
}

func (d ProductDTO) ToDomain() Product {
	stock := make([]BranchStock, 0, len(d.Stock))
	for _, entry := range d.Stock {
		stock = append(stock, BranchStock{BranchID: entry.BranchID, Quantity: entry.Quantity})
	}
	return Product{
		ID:       d.ID,
		Name:     d.Name,
		Price:    d.Price,
		Image:    d.Image,
		Category: d.Category,
		IsActive: d.IsActive,
		Stock:    stock,
	}
}

type PackageDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	ServiceType string          `json:"service_type"`
	Price       decimal.Decimal `json:"price"`
	Inclusions  []string        `json:"inclusions"`
	IsActive    bool            `json:"is_active"`
}

func (d PackageDTO) ToDomain() Package {
	serviceType, err := enums.ParseServiceType(d.ServiceType)
	if err != nil {
		serviceType = enums.ServiceTypeCarWash
	}
	return Package{
		ID:          d.ID,
		Name:        d.Name,
		ServiceType: serviceType,
		Price:       d.Price,
		Inclusions:  d.Inclusions,
		IsActive:    d.IsActive,
	}
}

type GalleryImageDTO struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

func (d GalleryImageDTO) ToDomain() GalleryImage {
	return GalleryImage{ID: d.ID, URL: d.URL, Caption: d.Caption}
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseTime(value string) time.Time {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func parseTimePtr(value *string) *time.Time {
	if value == nil {
		return nil
	}
	ts := parseTime(*value)
	if ts.IsZero() {
		return nil
	}
	return &ts
}
