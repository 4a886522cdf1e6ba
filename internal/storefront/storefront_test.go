package storefront_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"neogaming/internal/checkout"
	"neogaming/internal/geo"
	"neogaming/internal/handlers"
	"neogaming/internal/models"
	"neogaming/internal/repositories"
	"neogaming/internal/services"
	"neogaming/internal/storefront"
	"neogaming/internal/weather"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	zap.ReplaceGlobals(zap.NewNop())
	os.Exit(m.Run())
}

// newAPIServer serves the real product and auth handlers over HTTP.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	productService := services.NewProductService(repositories.NewMemoryProductRepository())
	_, err = productService.SeedIfEmpty(models.ExampleProducts())
	require.NoError(t, err)
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), nil).WithCost(bcrypt.MinCost)

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewProductHandler(productService).RegisterRoutes(api)
	handlers.NewAuthHandler(authService).RegisterRoutes(api)

	ts := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, baseURL string, mutate func(*storefront.Config)) *storefront.Client {
	t.Helper()
	cfg := storefront.Config{
		BaseURL: baseURL + "/api",
		Locator: geo.StaticLocator{Err: geo.ErrPermissionDenied},
		Gateway: &checkout.SimulatedGateway{Delay: 10 * time.Millisecond},
		Now:     func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return storefront.New(cfg)
}

type stubWeather struct{ err error }

func (s stubWeather) Current(_ context.Context, p geo.Point) (*weather.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &weather.Report{Location: p, Temperature: 31, City: "Ciudad Juárez"}, nil
}

func TestLoadHome(t *testing.T) {
	ts := newAPIServer(t)
	c := newClient(t, ts.URL, func(cfg *storefront.Config) {
		cfg.Weather = stubWeather{}
		cfg.DisplayLimit = 8
	})

	require.NoError(t, c.LoadHome(context.Background()))

	state := c.State()
	assert.Equal(t, storefront.SourceAPI, state.Source)
	assert.Len(t, state.Products, 8)
	assert.Equal(t, 10, c.Registry().Len())

	require.NotNil(t, state.Location)
	assert.True(t, state.Location.Fallback)
	assert.Equal(t, geo.FallbackLocation, state.Location.Point)
	assert.Contains(t, state.Location.Message, "denied")

	require.NotNil(t, state.Weather)
	assert.Equal(t, geo.FallbackLocation, state.Weather.Location)
	assert.NoError(t, state.WeatherErr)
}

func TestLoadHome_WeatherFailureIsNotFatal(t *testing.T) {
	ts := newAPIServer(t)
	c := newClient(t, ts.URL, func(cfg *storefront.Config) {
		cfg.Weather = stubWeather{err: errors.New("owm down")}
	})

	require.NoError(t, c.LoadHome(context.Background()))
	state := c.State()
	assert.Nil(t, state.Weather)
	assert.Error(t, state.WeatherErr)
}

func TestLoadProducts_FallbackPolicies(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
	}))
	defer broken.Close()

	t.Run("error", func(t *testing.T) {
		c := newClient(t, broken.URL, nil)
		_, err := c.LoadProducts(context.Background())

		var apiErr *storefront.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "Internal server error", apiErr.Message)

		state := c.State()
		assert.Error(t, state.ProductsErr)
		assert.Equal(t, storefront.SourceNone, state.Source)
		assert.Empty(t, state.Products)
	})

	t.Run("examples", func(t *testing.T) {
		c := newClient(t, broken.URL, func(cfg *storefront.Config) { cfg.Fallback = storefront.FallbackExamples })
		products, err := c.LoadProducts(context.Background())
		require.NoError(t, err)
		assert.Len(t, products, len(models.ExampleProducts()))
		assert.Equal(t, storefront.SourceExamples, c.State().Source)

		_, ok := c.Registry().Lookup(1)
		assert.True(t, ok)
	})
}

func TestLoadProducts_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	c := newClient(t, slow.URL, func(cfg *storefront.Config) { cfg.ProductFetchTimeout = 50 * time.Millisecond })
	start := time.Now()
	_, err := c.LoadProducts(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLoadProducts_CoercesPrices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "name": "String Price", "price": "59.99", "category": "RPG"},
			{"id": 2, "name": "Garbage Price", "price": "free!", "category": "RPG"},
			{"id": 3, "name": "Negative", "price": -5, "category": "RPG"}
		]`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, nil)
	products, err := c.LoadProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, 59.99, products[0].Price)
	assert.Equal(t, 0.0, products[1].Price)
	assert.Equal(t, 0.0, products[2].Price)
}

func TestOpenProduct(t *testing.T) {
	ts := newAPIServer(t)
	c := newClient(t, ts.URL, nil)
	_, err := c.LoadProducts(context.Background())
	require.NoError(t, err)

	detail, err := c.OpenProduct(1)
	require.NoError(t, err)
	assert.Equal(t, "59.99 USD", detail.PriceLabel)
	assert.Equal(t, "🔫", detail.CategoryIcon)
	assert.Equal(t, "payment-form-1", detail.PaymentContainerID)
	assert.NotNil(t, c.State().Modal)

	c.CloseProduct()
	assert.Nil(t, c.State().Modal)

	_, err = c.OpenProduct(424242)
	assert.ErrorIs(t, err, checkout.ErrProductNotFound)
}

func TestShowCategory(t *testing.T) {
	ts := newAPIServer(t)
	c := newClient(t, ts.URL, nil)
	_, err := c.LoadProducts(context.Background())
	require.NoError(t, err)

	page := c.ShowCategory("Shooter / FPS")
	assert.False(t, page.Fallback)
	assert.Equal(t, "🔫", page.Icon)
	require.NotEmpty(t, page.Products)
	assert.LessOrEqual(t, len(page.Products), 3)
	for _, p := range page.Products {
		assert.Equal(t, "Shooter / FPS", p.Category)
	}
	assert.Equal(t, storefront.ViewCategory, c.State().View)

	page = c.ShowCategory("Indie / Creativos")
	assert.True(t, page.Fallback)
	require.Len(t, page.Products, 3)
	for _, p := range page.Products {
		assert.Equal(t, "Indie / Creativos", p.Category)
		assert.GreaterOrEqual(t, p.ID, storefront.GeneratedIDBase)
		_, ok := c.Registry().Lookup(p.ID)
		assert.True(t, ok, "generated products must be resolvable for checkout")
	}

	c.ReturnHome()
	assert.Equal(t, storefront.ViewHome, c.State().View)
	assert.Nil(t, c.State().Category)
}

func TestFilterByCategory(t *testing.T) {
	products := models.ExampleProducts()
	for _, category := range []string{"Shooter / FPS", "Deportes / Carreras", "Nope"} {
		got := storefront.FilterByCategory(products, category)
		want := 0
		for _, p := range products {
			if p.Category == category {
				want++
			}
		}
		assert.Len(t, got, want, category)
		for _, p := range got {
			assert.Equal(t, category, p.Category)
		}
	}
}

func TestGenerateCategoryProducts_Deterministic(t *testing.T) {
	a := storefront.GenerateCategoryProducts("Puzzle")
	b := storefront.GenerateCategoryProducts("Puzzle")
	assert.Equal(t, a, b)
	assert.Equal(t, "Puzzle Essentials", a[0].Name)
	assert.NotEqual(t, a[0].ID, storefront.GenerateCategoryProducts("Horror")[0].ID)
}

func TestCheckoutFlow(t *testing.T) {
	ts := newAPIServer(t)
	c := newClient(t, ts.URL, nil)
	ctx := context.Background()

	_, err := c.LoadProducts(ctx)
	require.NoError(t, err)

	userID, err := c.Register(ctx, "neo", "neo@example.com", "matrix")
	require.NoError(t, err)
	_, err = c.Login(ctx, "neo@example.com", "matrix")
	require.NoError(t, err)

	form, err := c.BeginCheckout(1)
	require.NoError(t, err)
	assert.Equal(t, 59.99, form.Amount)
	assert.Equal(t, checkout.FormShown, c.CheckoutState())
	assert.NotNil(t, c.State().Modal)

	conf, err := c.SubmitPayment(ctx, checkout.PaymentForm{CardNumber: "4111111111111111"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(conf.ID, "DEMO_"))
	assert.Equal(t, checkout.Completed, c.CheckoutState())

	state := c.State()
	assert.Equal(t, storefront.ViewSuccess, state.View)
	assert.Nil(t, state.Modal)
	require.NotNil(t, state.LastPurchase)

	history, err := c.PurchaseHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	rec := history[0]
	assert.Equal(t, uint(1), rec.ProductID)
	assert.Equal(t, 59.99, rec.Price)
	assert.False(t, math.IsNaN(rec.Price))
	assert.Equal(t, "USD", rec.Currency)
	assert.Equal(t, conf.ID, rec.TransactionID)
	assert.Equal(t, checkout.StatusCompleted, rec.Status)
	assert.Equal(t, fmt.Sprint(userID), rec.UserID)

	// A second, anonymous purchase appends to the history.
	c.Logout()
	_, err = c.BeginCheckout(2)
	require.NoError(t, err)
	_, err = c.SubmitPayment(ctx, checkout.PaymentForm{})
	require.NoError(t, err)

	history, err = c.PurchaseHistory()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.AnonymousUserID, history[1].UserID)
}

func TestCheckout_CancelAndUnknownProduct(t *testing.T) {
	ts := newAPIServer(t)
	c := newClient(t, ts.URL, nil)
	_, err := c.LoadProducts(context.Background())
	require.NoError(t, err)

	_, err = c.BeginCheckout(3)
	require.NoError(t, err)
	require.NoError(t, c.CancelCheckout())
	assert.Equal(t, checkout.Idle, c.CheckoutState())

	_, err = c.BeginCheckout(999)
	assert.ErrorIs(t, err, checkout.ErrProductNotFound)

	history, err := c.PurchaseHistory()
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAuth(t *testing.T) {
	ts := newAPIServer(t)
	c := newClient(t, ts.URL, nil)
	ctx := context.Background()

	_, err := c.Register(ctx, "trinity", "trinity@example.com", "zion")
	require.NoError(t, err)

	_, err = c.Register(ctx, "other", "trinity@example.com", "zion")
	var apiErr *storefront.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	_, err = c.Login(ctx, "trinity@example.com", "wrong")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	_, ok := c.CurrentUser()
	assert.False(t, ok)

	user, err := c.Login(ctx, "trinity@example.com", "zion")
	require.NoError(t, err)
	assert.Equal(t, "trinity", user.Username)

	current, ok := c.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)

	c.Logout()
	_, ok = c.CurrentUser()
	assert.False(t, ok)
}

func TestDiscovery(t *testing.T) {
	c := storefront.New(storefront.Config{
		Locator: geo.StaticLocator{Point: geo.FallbackLocation},
	})
	ctx := context.Background()

	stores := c.NearbyStores(ctx)
	require.Len(t, stores, 3)
	assert.Equal(t, "GameStop Centro", stores[0].Name)
	assert.Equal(t, 1, stores[0].Rank)
	assert.Equal(t, "🥇", stores[0].Medal)
	assert.False(t, c.State().Location.Fallback)

	_, err := c.SearchPlaces(ctx, "cafe")
	assert.ErrorIs(t, err, storefront.ErrPlacesUnavailable)

	_, err = c.RefreshWeather(ctx)
	assert.ErrorIs(t, err, storefront.ErrWeatherUnavailable)
}

func TestMemoryStorage(t *testing.T) {
	s := storefront.NewMemoryStorage()
	_, ok := s.Get(storefront.KeyUser)
	assert.False(t, ok)

	s.Set(storefront.KeyUser, "x")
	v, ok := s.Get(storefront.KeyUser)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	s.Remove(storefront.KeyUser)
	_, ok = s.Get(storefront.KeyUser)
	assert.False(t, ok)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "59.99 USD", storefront.FormatPrice(59.99))
	assert.Equal(t, "0.00 USD", storefront.FormatPrice(math.NaN()))
	assert.Equal(t, "⚔️", storefront.CategoryIcon("RPG / Fantasía"))
	assert.Equal(t, "🎮", storefront.CategoryIcon("Unknown"))
	assert.NotEmpty(t, storefront.CategoryDescription("Unknown"))
}

func TestCheckout_SignsReceiptWithConfiguredSecret(t *testing.T) {
	ts := newAPIServer(t)
	c := newClient(t, ts.URL, func(cfg *storefront.Config) {
		cfg.Gateway = nil
		cfg.PaymentDelay = 10 * time.Millisecond
		cfg.ReceiptSecret = "storefront-receipts"
	})
	ctx := context.Background()
	_, err := c.LoadProducts(ctx)
	require.NoError(t, err)

	_, err = c.BeginCheckout(1)
	require.NoError(t, err)
	conf, err := c.SubmitPayment(ctx, checkout.PaymentForm{CardNumber: "4242424242424242"})
	require.NoError(t, err)
	require.NotEmpty(t, conf.Receipt)

	claims, err := checkout.NewReceiptSigner("storefront-receipts").Verify(conf.Receipt)
	require.NoError(t, err)
	assert.Equal(t, conf.ID, claims.TransactionID)
	assert.Equal(t, uint(1), claims.ProductID)
	assert.Equal(t, "59.99", claims.Amount)
}

func TestShowCategory_GeneratedProductsNeverReplaceCatalog(t *testing.T) {
	generated := storefront.GenerateCategoryProducts("Racing")
	taken := generated[0].ID

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id": %d, "name": "Real Game", "price": 19.99, "category": "Puzzle"}]`, taken)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, nil)
	_, err := c.LoadProducts(context.Background())
	require.NoError(t, err)

	page := c.ShowCategory("Racing")
	require.True(t, page.Fallback)
	require.Len(t, page.Products, 3)

	catalog := c.Registry().Catalog()
	require.Len(t, catalog, 1)
	assert.Equal(t, "Real Game", catalog[0].Name)
	kept, ok := c.Registry().Lookup(taken)
	require.True(t, ok)
	assert.Equal(t, "Real Game", kept.Name)

	seen := map[uint]bool{}
	for _, p := range page.Products {
		assert.NotEqual(t, taken, p.ID)
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		got, ok := c.Registry().Lookup(p.ID)
		require.True(t, ok)
		assert.Equal(t, p, got)
		assert.Equal(t, "Racing", got.Category)
	}

	// Showing the page again reuses the same products.
	again := c.ShowCategory("Racing")
	assert.Equal(t, page.Products, again.Products)

	_, err = c.BeginCheckout(taken)
	require.NoError(t, err)
	conf, err := c.SubmitPayment(context.Background(), checkout.PaymentForm{})
	require.NoError(t, err)
	assert.Equal(t, "19.99", conf.Amount)
}
