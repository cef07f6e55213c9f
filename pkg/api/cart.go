package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/glintwash/glintwash-client/pkg/types"
)

type CartCreateRequest struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

// CartByUser returns every cart row stored for the user, active or not;
// filtering by is_active is the caller's job.
func (c *Client) CartByUser(ctx context.Context, userID int64) ([]types.CartItemDTO, error) {
	var rows []types.CartItemDTO
	if err := c.do(ctx, "cart", http.MethodGet, fmt.Sprintf("/api/cart/user/%d", userID), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CartCreate(ctx context.Context, req CartCreateRequest) (*types.CartItemDTO, error) {
	var dto types.CartItemDTO
	if err := c.do(ctx, "cart", http.MethodPost, "/api/cart", req, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) CartUpdate(ctx context.Context, cartItemID int64, req CartUpdateRequest) (*types.CartItemDTO, error) {
	var dto types.CartItemDTO
	if err := c.do(ctx, "cart", http.MethodPut, fmt.Sprintf("/api/cart/%d", cartItemID), req, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) CartDelete(ctx context.Context, cartItemID int64) error {
	return c.do(ctx, "cart", http.MethodDelete, fmt.Sprintf("/api/cart/%d", cartItemID), nil, nil)
}
