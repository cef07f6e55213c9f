package reviews

import (
	"context"
	"fmt"

	"github.com/glintwash/glintwash-client/pkg/api"
	"github.com/glintwash/glintwash-client/pkg/enums"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/logger"
	"github.com/glintwash/glintwash-client/pkg/session"
	"github.com/glintwash/glintwash-client/pkg/types"
)

type reviewAPI interface {
	ReviewCreate(ctx context.Context, req api.ReviewCreateRequest) (*types.ReviewDTO, error)
	ReviewUpdate(ctx context.Context, reviewID int64, req api.ReviewUpdateRequest) (*types.ReviewDTO, error)
	ReviewDelete(ctx context.Context, reviewID int64) error
	ReviewsByUser(ctx context.Context, userID int64) ([]types.ReviewDTO, error)
	OrdersByUser(ctx context.Context, userID int64) ([]types.OrderDTO, error)
}

type userSource interface {
	CurrentUser() *types.User
}

// Manager creates, edits and deletes reviews. One review per order, and only
// for orders the backend reports as completed. Both rules are read-before-
// write checks, not atomic against concurrent sessions.
type Manager struct {
	api   reviewAPI
	users userSource
	store session.Store
	logg  *logger.Logger
}

// Params bundles the dependencies required to build the review manager.
type Params struct {
	API    reviewAPI
	Users  userSource
	Store  session.Store
	Logger *logger.Logger
}

// NewManager constructs the review manager.
func NewManager(params Params) (*Manager, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user source is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Manager{
		api:   params.API,
		users: params.Users,
		store: params.Store,
		logg:  params.Logger,
	}, nil
}

// Create submits a review for a completed, not-yet-reviewed order.
func (m *Manager) Create(ctx context.Context, orderID int64, rating int, comment string) (*types.Review, error) {
	user := m.users.CurrentUser()
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to review an order")
	}
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	orders, err := m.api.OrdersByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	var target *types.OrderDTO
	for i := range orders {
		if orders[i].ID == orderID {
			target = &orders[i]
			break
		}
	}
	if target == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if target.Status != enums.OrderStatusCompleted.String() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "only completed orders can be reviewed")
	}

	existing, err := m.api.ReviewsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, review := range existing {
		if review.OrderID == orderID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already has a review")
		}
	}

	dto, err := m.api.ReviewCreate(ctx, api.ReviewCreateRequest{
		UserID:  user.ID,
		OrderID: orderID,
		Rating:  rating,
		Comment: comment,
	})
	if err != nil {
		return nil, err
	}

	review := dto.ToDomain()
	if _, err := m.refresh(ctx, user.ID); err != nil {
		m.warn(ctx, "refreshing reviews after create failed", err)
	}
	return &review, nil
}

// Update edits a review by its own id, then refetches the full list so the
// reviewable-order set stays current.
func (m *Manager) Update(ctx context.Context, reviewID int64, rating int, comment string) error {
	user := m.users.CurrentUser()
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to edit a review")
	}
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := m.api.ReviewUpdate(ctx, reviewID, api.ReviewUpdateRequest{Rating: rating, Comment: comment}); err != nil {
		return err
	}
	if _, err := m.refresh(ctx, user.ID); err != nil {
		m.warn(ctx, "refreshing reviews after update failed", err)
	}
	return nil
}

// Delete removes a review; the order becomes reviewable again afterwards.
func (m *Manager) Delete(ctx context.Context, reviewID int64) error {
	user := m.users.CurrentUser()
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to delete a review")
	}
	if err := m.api.ReviewDelete(ctx, reviewID); err != nil {
		return err
	}
	if _, err := m.refresh(ctx, user.ID); err != nil {
		m.warn(ctx, "refreshing reviews after delete failed", err)
	}
	return nil
}

// Reviews refetches the user's reviews and mirrors them to the store.
func (m *Manager) Reviews(ctx context.Context) ([]types.Review, error) {
	user := m.users.CurrentUser()
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	return m.refresh(ctx, user.ID)
}

// ReviewableOrders derives the completed orders that have no review yet.
func (m *Manager) ReviewableOrders(ctx context.Context) ([]types.Order, error) {
	user := m.users.CurrentUser()
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}

	orders, err := m.api.OrdersByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := m.api.ReviewsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	reviewed := make(map[int64]struct{}, len(reviews))
	for _, review := range reviews {
		reviewed[review.OrderID] = struct{}{}
	}

	reviewable := make([]types.Order, 0, len(orders))
	for _, row := range orders {
		if row.Status != enums.OrderStatusCompleted.String() {
			continue
		}
		if _, ok := reviewed[row.ID]; ok {
			continue
		}
		reviewable = append(reviewable, row.ToDomain())
	}
	return reviewable, nil
}

func (m *Manager) refresh(ctx context.Context, userID int64) ([]types.Review, error) {
	rows, err := m.api.ReviewsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews := make([]types.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.ToDomain())
	}
	if err := session.SaveJSON(ctx, m.store, session.KeyReviews, reviews); err != nil {
		m.warn(ctx, "persisting reviews failed", err)
	}
	return reviews, nil
}

func (m *Manager) warn(ctx context.Context, msg string, err error) {
	if m.logg == nil {
		return
	}
	m.logg.Error(ctx, msg, err)
}
