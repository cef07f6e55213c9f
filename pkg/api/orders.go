package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/glintwash/glintwash-client/pkg/types"
)

type OrderProductRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderCreateRequest is the order payload. Services and extra works ride
// along as empty arrays in the product checkout flow; the backend insists
// the fields are present.
type OrderCreateRequest struct {
	UserID     int64                 `json:"user_id"`
	BranchID   int64                 `json:"branch_id"`
	Products   []OrderProductRequest `json:"products"`
	Services   []int64               `json:"services"`
	ExtraWorks []int64               `json:"extra_works"`
}

func (c *Client) OrderCreate(ctx context.Context, req OrderCreateRequest) (*types.OrderDTO, error) {
	if req.Services == nil {
		req.Services = []int64{}
	}
	if req.ExtraWorks == nil {
		req.ExtraWorks = []int64{}
	}
	var dto types.OrderDTO
	if err := c.do(ctx, "orders", http.MethodPost, "/api/orders", req, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) OrdersByUser(ctx context.Context, userID int64) ([]types.OrderDTO, error) {
	var rows []types.OrderDTO
	if err := c.do(ctx, "orders", http.MethodGet, fmt.Sprintf("/api/orders/user/%d", userID), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
