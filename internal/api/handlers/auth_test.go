package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
		expectedCode   string
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful registration",
			request: map[string]string{
				"email":           "new@example.com",
				"password":        "password123",
				"confirmPassword": "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var data testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &data)
				assert.NotEmpty(t, data.Token)
				assert.Equal(t, "new@example.com", data.User.Email)
				assert.NotEmpty(t, data.User.Username)
			},
		},
		{
			name: "password mismatch",
			request: map[string]string{
				"email":           "mismatch@example.com",
				"password":        "password123",
				"confirmPassword": "password321",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   response.CodeValidation,
		},
		{
			name: "invalid email",
			request: map[string]string{
				"email":           "nope",
				"password":        "password123",
				"confirmPassword": "password123",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   response.CodeValidation,
		},
		{
			name: "unknown field",
			request: map[string]string{
				"email":           "extra@example.com",
				"password":        "password123",
				"confirmPassword": "password123",
				"swipeLimit":      "999",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   response.CodeValidation,
		},
		{
			name: "duplicate email",
			request: map[string]string{
				"email":           "existing@example.com",
				"password":        "password123",
				"confirmPassword": "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("existing@example.com").Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   response.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/register"), "", tt.request)
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)

			if tt.expectedCode != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedCode)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().WithSwipeLimit(0).Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful login",
			request: map[string]string{
				"email":    user.Email,
				"password": password,
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var data struct {
					User struct {
						ID         string `json:"id"`
						SwipeLimit int    `json:"swipeLimit"`
					} `json:"user"`
					Token string `json:"token"`
				}
				testutil.AssertJSONResponse(t, resp, &data)
				assert.Equal(t, user.ID.String(), data.User.ID)
				assert.Equal(t, 20, data.User.SwipeLimit)
				assert.NotEmpty(t, data.Token)
			},
		},
		{
			name: "wrong password",
			request: map[string]string{
				"email":    user.Email,
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, response.CodeUnauthorized)
			},
		},
		{
			name: "unknown email",
			request: map[string]string{
				"email":    "nobody@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			request:        map[string]string{"email": user.Email},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/login"), "", tt.request)
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	t.Run("with token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.URL("/auth/user"), token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var data struct {
			ID           string `json:"id"`
			Email        string `json:"email"`
			PasswordHash string `json:"passwordHash"`
		}
		testutil.AssertJSONResponse(t, resp, &data)
		assert.Equal(t, user.ID.String(), data.ID)
		assert.Equal(t, user.Email, data.Email)
		assert.Empty(t, data.PasswordHash)
	})

	t.Run("bad token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.URL("/auth/user"), "invalid-token", nil)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, response.CodeUnauthorized)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/user"},
		{http.MethodPut, "/auth/update-profile"},
		{http.MethodGet, "/auth/all-users"},
		{http.MethodGet, "/auth/spinner-users"},
		{http.MethodPost, "/auth/swipe"},
		{http.MethodPost, "/auth/spinwin"},
		{http.MethodGet, "/auth/matches"},
		{http.MethodPut, "/auth/pin-match"},
		{http.MethodPost, "/auth/connect-user"},
		{http.MethodGet, "/auth/liked-by"},
		{http.MethodPost, "/auth/upload-profile-image"},
		{http.MethodGet, "/chat/"},
		{http.MethodPost, "/chat/start"},
		{http.MethodGet, "/chat/messages/00000000-0000-0000-0000-000000000001"},
		{http.MethodPost, "/chat/00000000-0000-0000-0000-000000000001/message"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			resp := testutil.DoJSON(t, route.method, ts.URL(route.path), "", nil)
			testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, response.CodeUnauthorized)
		})
	}
}

func TestHealth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.DoJSON(t, http.MethodGet, ts.URL("/health"), "", nil)
	var data map[string]string
	testutil.AssertJSONResponse(t, resp, &data)
	require.Equal(t, "ok", data["status"])

	resp = testutil.DoJSON(t, http.MethodGet, ts.URL("/nope"), "", nil)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, response.CodeNotFound)
}
