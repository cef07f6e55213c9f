package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/glintwash/glintwash-client/internal/auth"
	"github.com/glintwash/glintwash-client/internal/cart"
	"github.com/glintwash/glintwash-client/internal/catalog"
	"github.com/glintwash/glintwash-client/internal/checkout"
	"github.com/glintwash/glintwash-client/internal/prefs"
	"github.com/glintwash/glintwash-client/internal/reviews"
	"github.com/glintwash/glintwash-client/pkg/api"
	"github.com/glintwash/glintwash-client/pkg/config"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/logger"
	"github.com/glintwash/glintwash-client/pkg/metrics"
	"github.com/glintwash/glintwash-client/pkg/session"
	"github.com/glintwash/glintwash-client/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const usage = `usage: glintwash <command> [args]

  status                          show session and cart summary
  login <identifier> <password>   authenticate and persist the session
  logout                          clear the persisted session
  products                        list active products
  branches                        list active branches
  branch <id>                     select the branch used at checkout
  cart                            list cart lines
  cart-add <product-id>           add one unit of a product
  cart-set <product-id> <qty>     set a line's quantity (0 removes)
  cart-clear                      empty the cart
  checkout                        place an order from the cart
  orders                          list order history from the backend
  reviews                         list your reviews
  reviewable                      list completed orders without a review
  review <order-id> <rating> [comment...]
`

type app struct {
	auth     *auth.Manager
	prefs    *prefs.Manager
	cart     *cart.Manager
	catalog  *catalog.Service
	checkout *checkout.Orchestrator
	reviews  *reviews.Manager
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "glintwash"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "glintwash",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to open session store", err)
		os.Exit(1)
	}

	var apiMetrics *metrics.APIMetrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		apiMetrics = metrics.NewAPIMetrics(registry)
		router := chi.NewRouter()
		router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Address, router); err != nil {
				logg.Error(ctx, "metrics listener stopped", err)
			}
		}()
	}

	// The token source closes over the auth manager built right after the
	// client; requests issued before login simply go out anonymous.
	var authManager *auth.Manager
	client, err := api.NewClient(cfg.API, api.TokenFunc(func() string {
		if authManager == nil {
			return ""
		}
		return authManager.Token()
	}), logg, apiMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build api client", err)
		os.Exit(1)
	}

	authManager, err = auth.NewManager(auth.Params{API: client, Store: store, Logger: logg})
	if err != nil {
		logg.Error(ctx, "failed to create auth manager", err)
		os.Exit(1)
	}

	prefsManager, err := prefs.NewManager(store)
	if err != nil {
		logg.Error(ctx, "failed to create preferences manager", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(cart.Params{API: client, Users: authManager, Logger: logg})
	if err != nil {
		logg.Error(ctx, "failed to create cart manager", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(client)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	checkoutOrchestrator, err := checkout.NewOrchestrator(checkout.Params{
		API:     client,
		Catalog: catalogService,
		Cart:    cartManager,
		Users:   authManager,
		Branch:  prefsManager,
		Store:   store,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout orchestrator", err)
		os.Exit(1)
	}

	reviewManager, err := reviews.NewManager(reviews.Params{API: client, Users: authManager, Store: store, Logger: logg})
	if err != nil {
		logg.Error(ctx, "failed to create review manager", err)
		os.Exit(1)
	}

	// The cart follows the authenticated user: any identity change triggers
	// a full refetch, the single drift-recovery path.
	authManager.OnUserChange(func(ctx context.Context, user *types.User) {
		if user == nil {
			return
		}
		if err := cartManager.Refresh(ctx); err != nil {
			logg.Error(ctx, "cart refresh after user change failed", err)
		}
	})

	if err := authManager.Hydrate(ctx); err != nil {
		logg.Error(ctx, "session hydrate failed", err)
		os.Exit(1)
	}
	if err := prefsManager.Hydrate(ctx); err != nil {
		logg.Error(ctx, "preferences hydrate failed", err)
		os.Exit(1)
	}
	if authManager.IsAuthenticated() {
		if err := cartManager.Refresh(ctx); err != nil {
			logg.Error(ctx, "initial cart refresh failed", err)
		}
	}

	a := &app{
		auth:     authManager,
		prefs:    prefsManager,
		cart:     cartManager,
		catalog:  catalogService,
		checkout: checkoutOrchestrator,
		reviews:  reviewManager,
	}
	if err := run(ctx, a, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, pkgerrors.PublicMessage(err))
		logg.Error(ctx, "command failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app, args []string) error {
	command := "status"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "status":
		return a.status(ctx)
	case "login":
		if len(args) != 2 {
			return pkgerrors.New(pkgerrors.CodeValidation, "usage: login <identifier> <password>")
		}
		if err := a.auth.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", a.auth.CurrentUser().FullName())
		return nil
	case "logout":
		return a.auth.Logout(ctx)
	case "products":
		products, err := a.catalog.ActiveProducts(ctx)
		if err != nil {
			return err
		}
		for _, product := range products {
			fmt.Printf("%6d  %-30s %s\n", product.ID, product.Name, product.Price.StringFixed(2))
		}
		return nil
	case "branches":
		branches, err := a.catalog.ActiveBranches(ctx)
		if err != nil {
			return err
		}
		for _, branch := range branches {
			fmt.Printf("%6d  %s\n", branch.ID, branch.Name)
		}
		return nil
	case "branch":
		if len(args) != 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "usage: branch <id>")
		}
		return a.selectBranch(ctx, args[0])
	case "cart":
		for _, item := range a.cart.Items() {
			fmt.Printf("%6d  %-30s x%d  %s\n", item.ProductID, item.Name, item.Quantity, item.Subtotal().StringFixed(2))
		}
		fmt.Printf("total: %s\n", a.cart.TotalPrice().StringFixed(2))
		return nil
	case "cart-add":
		if len(args) != 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "usage: cart-add <product-id>")
		}
		return a.addToCart(ctx, args[0])
	case "cart-set":
		if len(args) != 2 {
			return pkgerrors.New(pkgerrors.CodeValidation, "usage: cart-set <product-id> <qty>")
		}
		productID, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a number")
		}
		return a.cart.UpdateQuantity(ctx, productID, quantity)
	case "cart-clear":
		return a.cart.Clear(ctx)
	case "checkout":
		order, err := a.checkout.PlaceOrder(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("order %d placed, total %s\n", order.ID, order.Total.StringFixed(2))
		return nil
	case "orders":
		orders, err := a.checkout.SyncHistory(ctx)
		if err != nil {
			return err
		}
		for _, order := range orders {
			fmt.Printf("%6d  %-10s %s\n", order.ID, order.Status, order.Total.StringFixed(2))
		}
		return nil
	case "reviews":
		userReviews, err := a.reviews.Reviews(ctx)
		if err != nil {
			return err
		}
		for _, review := range userReviews {
			fmt.Printf("%6d  order %d  %d/5  %s\n", review.ID, review.OrderID, review.Rating, review.Comment)
		}
		return nil
	case "reviewable":
		orders, err := a.reviews.ReviewableOrders(ctx)
		if err != nil {
			return err
		}
		for _, order := range orders {
			fmt.Printf("%6d  %s\n", order.ID, order.Total.StringFixed(2))
		}
		return nil
	case "review":
		if len(args) < 2 {
			return pkgerrors.New(pkgerrors.CodeValidation, "usage: review <order-id> <rating> [comment...]")
		}
		orderID, err := parseID(args[0])
		if err != nil {
			return err
		}
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "rating must be a number")
		}
		_, err = a.reviews.Create(ctx, orderID, rating, strings.Join(args[2:], " "))
		return err
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	}
	fmt.Print(usage)
	return pkgerrors.New(pkgerrors.CodeValidation, "unknown command "+command)
}

func (a *app) status(ctx context.Context) error {
	if user := a.auth.CurrentUser(); user != nil {
		fmt.Printf("logged in as %s\n", user.FullName())
	} else {
		fmt.Println("logged out")
	}
	if branch := a.prefs.SelectedBranch(); branch != nil {
		fmt.Printf("branch: %s\n", branch.Name)
	} else {
		fmt.Println("branch: none selected")
	}
	fmt.Printf("cart: %d item(s), total %s\n", a.cart.TotalItems(), a.cart.TotalPrice().StringFixed(2))
	return nil
}

func (a *app) selectBranch(ctx context.Context, raw string) error {
	branchID, err := parseID(raw)
	if err != nil {
		return err
	}
	branches, err := a.catalog.ActiveBranches(ctx)
	if err != nil {
		return err
	}
	for _, branch := range branches {
		if branch.ID == branchID {
			if err := a.prefs.SetSelectedBranch(ctx, branch); err != nil {
				return err
			}
			fmt.Printf("selected branch %s\n", branch.Name)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
}

func (a *app) addToCart(ctx context.Context, raw string) error {
	productID, err := parseID(raw)
	if err != nil {
		return err
	}
	products, err := a.catalog.ActiveProducts(ctx)
	if err != nil {
		return err
	}
	for _, product := range products {
		if product.ID == productID {
			return a.cart.Add(ctx, product)
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "id must be a positive number")
	}
	return id, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		return session.NewRedisStore(ctx, cfg.Redis)
	case config.SessionBackendSQLite:
		return session.NewGormStore(cfg.SQLite)
	default:
		return session.NewFileStore(cfg.Session.Path)
	}
}
