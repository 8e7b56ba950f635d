package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Kyz7/teamhub/internal/database"
	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/server"
	"github.com/Kyz7/teamhub/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	assert.NoError(t, err, "Failed to create test database")

	// One shared connection: an in-memory sqlite DB exists per connection, and
	// background goroutines must see the same schema and data.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Organization{},
		&models.Member{},
		&models.Module{},
		&models.ModulePermission{},
		&models.OrganizationModule{},
		&models.CustomRole{},
		&models.RolePermission{},
		&models.MemberModuleRole{},
		&models.TodoList{},
		&models.TodoItem{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

func SetupTestApp(t *testing.T) *fiber.App {
	db := TestDB(t)
	database.DB = db

	err := utils.InitLocalStorage()
	assert.NoError(t, err, "Failed to initialize storage")
	utils.SetStorageMode(true)

	app := server.New(db)
	return app
}

func CreateTestUser(t *testing.T, db *gorm.DB, email, password, globalRole string) *models.User {
	hashedPassword, _ := utils.HashPassword(password)

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: hashedPassword,
		Status:   "active",
		Role:     globalRole,
	}

	err := db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	return user
}

// CreateTestOrganization creates an org plus its owner membership row and
// returns both.
func CreateTestOrganization(t *testing.T, db *gorm.DB, name string, owner *models.User) (*models.Organization, *models.Member) {
	org := &models.Organization{
		Name:    name,
		Slug:    fmt.Sprintf("%s-%d", name, owner.ID),
		OwnerID: owner.ID,
	}
	err := db.Create(org).Error
	assert.NoError(t, err, "Failed to create test organization")

	member := &models.Member{
		UserID:         owner.ID,
		OrganizationID: org.ID,
		Role:           models.MemberRoleOwner,
	}
	err = db.Create(member).Error
	assert.NoError(t, err, "Failed to create owner membership")

	return org, member
}

func AddTestMember(t *testing.T, db *gorm.DB, org *models.Organization, user *models.User, role string) *models.Member {
	member := &models.Member{
		UserID:         user.ID,
		OrganizationID: org.ID,
		Role:           role,
	}
	err := db.Create(member).Error
	assert.NoError(t, err, "Failed to create test member")
	return member
}

// CreateTestModule seeds a module with a small grantable catalog and returns
// it with Permissions preloaded.
func CreateTestModule(t *testing.T, db *gorm.DB, slug string, keys ...[2]string) *models.Module {
	mod := &models.Module{
		Name:     slug,
		Slug:     slug,
		IsActive: true,
	}
	err := db.Create(mod).Error
	assert.NoError(t, err, "Failed to create test module")

	for _, key := range keys {
		perm := models.ModulePermission{
			ModuleID: mod.ID,
			Resource: key[0],
			Action:   key[1],
		}
		err := db.Create(&perm).Error
		assert.NoError(t, err, "Failed to create module permission")
	}

	err = db.Preload("Permissions").First(mod, mod.ID).Error
	assert.NoError(t, err)
	return mod
}

// BindTestModule creates an enabled org-module binding without triggering
// predefined-role provisioning, so tests control role setup explicitly.
func BindTestModule(t *testing.T, db *gorm.DB, org *models.Organization, mod *models.Module) *models.OrganizationModule {
	binding := &models.OrganizationModule{
		OrganizationID: org.ID,
		ModuleID:       mod.ID,
		IsEnabled:      true,
	}
	err := db.Create(binding).Error
	assert.NoError(t, err, "Failed to create org-module binding")
	return binding
}

func GetAuthToken(t *testing.T, userID uint, globalRole string) string {
	token, err := utils.GenerateJWT(userID, globalRole)
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(resp.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotNil(t, result.Error, "Expected error object")
	if result.Error != nil {
		assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
	}
}
