package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"feedback-board-server/models"
	"feedback-board-server/storage"
	"feedback-board-server/utils"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTestDB swaps storage.DB for an in-memory sqlite database with
// the production schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test db: %v", err)
	}
	// In-memory sqlite is per-connection
	sqlDB.SetMaxOpenConns(1)

	storage.PerformMigrations(db)
	storage.DB = db
	return db
}

// buildTestApp wires the same parties as main.go against the test DB.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testrefreshsecret")

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	feedback := app.Party("/api/feedback")
	{
		feedback.Post("/", accessTokenVerifierMiddleware, CreateFeedback)
		feedback.Get("/", GetFeedbacks)
		feedback.Get("/{id:uint}", GetFeedback)
		feedback.Put("/{id:uint}", accessTokenVerifierMiddleware, UpdateFeedback)
		feedback.Delete("/{id:uint}", accessTokenVerifierMiddleware, DeleteFeedback)
		feedback.Post("/{id:uint}/upvote", accessTokenVerifierMiddleware, ToggleUpvote)
	}

	categories := app.Party("/api/categories")
	{
		categories.Get("/", GetCategories)
		categories.Post("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, CreateCategory)
		categories.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, UpdateCategory)
		categories.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, DeleteCategory)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Put("/feedback/{id:uint}/status", AdminUpdateFeedbackStatus)
		admin.Delete("/feedback/{id:uint}", AdminDeleteFeedback)
		admin.Get("/stats", AdminStats)
		admin.Get("/users", AdminListUsers)
	}

	auth := app.Party("/api/auth")
	{
		auth.Post("/signup", Signup)
		auth.Post("/login", Login)
		auth.Get("/me", accessTokenVerifierMiddleware, GetMe)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}
	return app
}

// signTestToken returns a signed access token for the given user
func signTestToken(t *testing.T, user models.User) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, err := signer.Sign(utils.AccessToken{ID: user.ID, Role: user.Role})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return string(token)
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{Name: name, Email: email, Password: string(hashed), Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

func createTestFeedback(t *testing.T, db *gorm.DB, user models.User, category models.Category, title string, rating int) models.Feedback {
	t.Helper()
	feedback := models.Feedback{
		UserID:     user.ID,
		Title:      title,
		Message:    "message for " + title,
		CategoryID: category.ID,
		Rating:     rating,
		Status:     models.StatusOpen,
	}
	if err := db.Create(&feedback).Error; err != nil {
		t.Fatalf("failed to create feedback: %v", err)
	}
	return feedback
}

// doJSON performs a request against the test app. A non-empty token is
// sent as a bearer credential; a non-nil body is JSON-encoded.
func doJSON(t *testing.T, app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func uitoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", resp.Body.String(), err)
	}
}
