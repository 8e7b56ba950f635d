package auth_test

import (
	"testing"

	"github.com/Kyz7/teamhub/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app := testutils.SetupTestApp(t)

	creds := map[string]string{
		"name":     "Dina",
		"email":    "dina@example.com",
		"password": "password123",
	}

	t.Run("register returns a token pair", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", creds, "")
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data, ok := result.Data.(map[string]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, data["access_token"])
		assert.NotEmpty(t, data["refresh_token"])
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", creds, "")
		require.NoError(t, err)
		assert.Equal(t, 409, resp.Code)
		testutils.AssertError(t, resp, "CONFLICT")
	})

	t.Run("login succeeds with the right password", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/login", map[string]string{
			"email":    creds["email"],
			"password": creds["password"],
		}, "")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		testutils.AssertSuccess(t, resp)
	})

	t.Run("login rejects a wrong password", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/login", map[string]string{
			"email":    creds["email"],
			"password": "wrong-password",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
		testutils.AssertError(t, resp, "UNAUTHORIZED")
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", map[string]string{
			"email": "incomplete@example.com",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})
}
