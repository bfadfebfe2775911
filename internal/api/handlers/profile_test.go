package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHandler_UpdateProfile(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		request        map[string]any
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "updates allowed fields",
			request: map[string]any{
				"name":         "Sam",
				"dateOfBirth":  "1992-11-30",
				"gender":       "Other",
				"interestedIn": "Male",
				"bio":          "coffee first",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var user domain.User
				testutil.AssertJSONResponse(t, resp, &user)
				assert.Equal(t, "Sam", user.Name)
				assert.Equal(t, domain.GenderOther, user.Gender)
				assert.Equal(t, domain.InterestedInMale, user.InterestedIn)
				assert.Equal(t, "coffee first", user.Bio)
			},
		},
		{
			name:           "quota fields are not writable",
			request:        map[string]any{"swipeLimit": 1000},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, response.CodeValidation)
			},
		},
		{
			name:           "invalid gender",
			request:        map[string]any{"gender": "robot"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid date",
			request:        map[string]any{"dateOfBirth": "yesterday"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPut, ts.URL("/auth/update-profile"), token, tt.request)
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func uploadImage(t *testing.T, url, token, fileName, contentType string, body []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="image"; filename="` + fileName + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestProfileHandler_UploadImage(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().WithoutPicture().BuildAndAuthenticate(t, ts)
	url := ts.URL("/auth/upload-profile-image")

	t.Run("stores the image and sets the picture", func(t *testing.T) {
		resp := uploadImage(t, url, token, "me.png", "image/png", []byte("\x89PNG fake"))
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var data struct {
			URL  string      `json:"url"`
			User domain.User `json:"user"`
		}
		testutil.AssertJSONResponse(t, resp, &data)
		assert.True(t, strings.HasPrefix(data.URL, "http://media.test/"), data.URL)
		assert.Contains(t, data.URL, user.ID.String())
		assert.Equal(t, data.URL, data.User.ProfilePicture)
		assert.Equal(t, 1, ts.Storage.Len())
	})

	t.Run("rejects non-images", func(t *testing.T) {
		resp := uploadImage(t, url, token, "notes.txt", "text/plain", []byte("hello"))
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, response.CodeValidation)
		assert.Equal(t, 1, ts.Storage.Len())
	})

	t.Run("requires the image field", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, url, token, map[string]string{"image": "x"})
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, response.CodeValidation)
	})
}

func TestProfileHandler_LikedBy(t *testing.T) {
	ts := testutil.NewTestServer(t)
	me, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	admirer, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	testutil.CreateDecision(t, ts.DB.DB, admirer.ID, me.ID, true)

	resp := testutil.DoJSON(t, http.MethodGet, ts.URL("/auth/liked-by"), token, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var likers []domain.UserSummary
	testutil.AssertJSONResponse(t, resp, &likers)
	require.Len(t, likers, 1)
	assert.Equal(t, admirer.ID, likers[0].ID)
}
