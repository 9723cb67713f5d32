package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/config"
	"github.com/example/neelam/internal/database"
	"github.com/example/neelam/internal/middleware"
	"github.com/example/neelam/internal/models"
	"github.com/example/neelam/internal/routes"
	"github.com/example/neelam/internal/utils"
)

const adminPassword = "correct-horse-battery"

type fakeGateway struct {
	failCreate bool
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if g.failCreate {
		return "", errors.New("gateway down")
	}
	return "order_rzp_test1", nil
}

func (g *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return signature == "valid-signature"
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	cfg     *config.Config
	gateway *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hash, err := utils.HashPassword(adminPassword)
	require.NoError(t, err)

	cfg := &config.Config{
		AdminEmail:        "admin@houseofneelam.com",
		AdminPasswordHash: hash,
		RazorpayKeyID:     "rzp_test_key",
		RazorpayCurrency:  "INR",
	}

	gateway := &fakeGateway{}
	app := routes.NewApp()
	routes.Register(app, db, cfg, gateway)

	return &testEnv{app: app, db: db, cfg: cfg, gateway: gateway}
}

// login seeds a user with the given role and returns a live session
// token for it.
func (env *testEnv) login(t *testing.T, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		Email: utils.NewID("user") + "@example.com",
		Name:  "Test User",
		Role:  role,
	}
	require.NoError(t, env.db.Create(&user).Error)

	token := utils.NewSessionToken()
	require.NoError(t, env.db.Create(&models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}).Error)

	return user, token
}

func (env *testEnv) seedProduct(t *testing.T, name, category string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Category: category,
		Price:    price,
		Stock:    stock,
	}
	require.NoError(t, env.db.Create(&product).Error)
	return product
}

func (env *testEnv) request(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeSlice(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
