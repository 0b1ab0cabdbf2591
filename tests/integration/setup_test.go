package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"esusu/internal/handlers"
	"esusu/internal/logger"
	"esusu/internal/middleware"
	"esusu/internal/models"
	"esusu/internal/services"
	"esusu/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Circle{},
		&models.Member{},
		&models.Transaction{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	notifier := services.NewLedgerNotifier()
	userService := services.NewUserService(db)
	circleService := services.NewCircleService(db)
	ledgerService := services.NewLedgerService(db, notifier)
	rotationService := services.NewRotationService(db)
	poolService := services.NewPoolService(db, rotationService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	circleHandler := handlers.NewCircleHandler(circleService, auditService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, auditService)
	rotationHandler := handlers.NewRotationHandler(rotationService, auditService)
	poolHandler := handlers.NewPoolHandler(poolService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	circles := protected.Group("/circles")
	circles.POST("", circleHandler.CreateCircle)
	circles.GET("", circleHandler.GetUserCircles)
	circles.POST("/join", circleHandler.JoinCircle)
	circles.GET("/:id", circleHandler.GetCircle)
	circles.GET("/:id/start-eligibility", circleHandler.GetStartEligibility)
	circles.POST("/:id/start", circleHandler.StartCircle)
	circles.GET("/:id/eligibility", ledgerHandler.GetEligibility)
	circles.POST("/:id/contributions", ledgerHandler.RecordContribution)
	circles.POST("/:id/payouts", ledgerHandler.RecordPayout)
	circles.GET("/:id/transactions", ledgerHandler.GetCircleTransactions)
	circles.GET("/:id/pool", poolHandler.GetPool)
	circles.GET("/:id/rotation", rotationHandler.GetRotation)
	circles.POST("/:id/rotation/initialize", rotationHandler.InitializeRotation)
	circles.POST("/:id/rotation/advance", rotationHandler.AdvanceRotation)

	transactions := protected.Group("/transactions")
	transactions.POST("/:id/status", ledgerHandler.UpdateTransactionStatus)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts the error code from an error envelope response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// createCircle creates a weekly circle and returns its ID and invite code.
func (app *testApp) createCircle(t *testing.T, token, name string, amount int64) (circleID float64, inviteCode string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"contribution_amount":%d,"frequency":"weekly"}`, name, amount)
	rec := app.request("POST", "/api/v1/circles", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create circle failed: %d %s", rec.Code, rec.Body.String())
	}
	circle := parseJSON(t, rec)["circle"].(map[string]interface{})
	return circle["id"].(float64), circle["invite_code"].(string)
}

// joinCircle joins a circle via its invite code.
func (app *testApp) joinCircle(t *testing.T, token, inviteCode string) {
	t.Helper()
	body := fmt.Sprintf(`{"invite_code":%q}`, inviteCode)
	rec := app.request("POST", "/api/v1/circles/join", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("join circle failed: %d %s", rec.Code, rec.Body.String())
	}
}

// contribute records a contribution and returns the transaction ID.
func (app *testApp) contribute(t *testing.T, token string, circleID float64) float64 {
	t.Helper()
	rec := app.request("POST", fmt.Sprintf("/api/v1/circles/%.0f/contributions", circleID), "", token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("contribution failed: %d %s", rec.Code, rec.Body.String())
	}
	tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
	return tx["id"].(float64)
}

// completeTransaction reports a transaction's payment as completed.
func (app *testApp) completeTransaction(t *testing.T, token string, txID float64) {
	t.Helper()
	rec := app.request("POST", fmt.Sprintf("/api/v1/transactions/%.0f/status", txID),
		`{"status":"completed"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete transaction failed: %d %s", rec.Code, rec.Body.String())
	}
}
