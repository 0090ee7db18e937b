package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"socialfeed/backend/internal/apierror"
	"socialfeed/backend/internal/models"
)

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()

	cases := []struct {
		name       string
		input      CredentialsInput
		setup      func()
		wantStatus int
		wantCode   apierror.Code
	}{
		{
			name:       "Success",
			input:      CredentialsInput{Username: "newuser", Password: "securepass"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "NormalizesUsername",
			input:      CredentialsInput{Username: "  MixedCase  ", Password: "securepass"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "UsernameTooShort",
			input:      CredentialsInput{Username: "ab", Password: "securepass"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierror.CodeValidation,
		},
		{
			// 3 characters, 6 bytes; must clear the 3-character minimum.
			name:       "MultibyteUsernameCountedInCharacters",
			input:      CredentialsInput{Username: "äöü", Password: "securepass"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "UsernameOnlyWhitespace",
			input:      CredentialsInput{Username: "   ", Password: "securepass"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierror.CodeValidation,
		},
		{
			name:       "PasswordTooShort",
			input:      CredentialsInput{Username: "validname", Password: "12345"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierror.CodeValidation,
		},
		{
			name:  "DuplicateUsername",
			input: CredentialsInput{Username: "taken", Password: "securepass"},
			setup: func() {
				registerViaAPI(t, router, "taken", "securepass")
			},
			wantStatus: http.StatusConflict,
			wantCode:   apierror.CodeUsernameTaken,
		},
		{
			name:  "DuplicateUsernameCaseVariant",
			input: CredentialsInput{Username: "CaseUser", Password: "securepass"},
			setup: func() {
				registerViaAPI(t, router, "caseuser", "securepass")
			},
			wantStatus: http.StatusConflict,
			wantCode:   apierror.CodeUsernameTaken,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				tc.setup()
			}

			rec := perform(t, router, http.MethodPost, "/api/auth/register", "", tc.input)
			if tc.wantCode != "" {
				requireError(t, rec, tc.wantStatus, tc.wantCode)
				return
			}

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}

			var resp AuthResponse
			decode(t, rec, &resp)
			if resp.Token == "" {
				t.Fatal("expected a token in the response")
			}
			if resp.User.ID == 0 {
				t.Fatal("expected a user id in the response")
			}
		})
	}

	t.Run("StoredUsernameIsLowercase", func(t *testing.T) {
		var user models.User
		if err := db.Where("username = ?", "mixedcase").First(&user).Error; err != nil {
			t.Fatalf("expected normalized username to be stored: %v", err)
		}
		if user.Status != models.StatusOnline {
			t.Fatalf("expected new user to be online, got %q", user.Status)
		}
	})
}

func TestLogin(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	registerViaAPI(t, router, "loginuser", "securepass")

	cases := []struct {
		name     string
		input    CredentialsInput
		wantCode apierror.Code
	}{
		{
			name:  "Success",
			input: CredentialsInput{Username: "loginuser", Password: "securepass"},
		},
		{
			name:  "CaseInsensitiveUsername",
			input: CredentialsInput{Username: "LoginUser", Password: "securepass"},
		},
		{
			name:     "WrongPassword",
			input:    CredentialsInput{Username: "loginuser", Password: "wrongpass"},
			wantCode: apierror.CodeInvalidCredentials,
		},
		{
			name:     "UnknownUser",
			input:    CredentialsInput{Username: "nosuchuser", Password: "securepass"},
			wantCode: apierror.CodeInvalidCredentials,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := perform(t, router, http.MethodPost, "/api/auth/login", "", tc.input)
			if tc.wantCode != "" {
				// Unknown user and wrong password must be indistinguishable.
				requireError(t, rec, http.StatusUnauthorized, tc.wantCode)
				return
			}

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var resp AuthResponse
			decode(t, rec, &resp)
			if resp.Token == "" {
				t.Fatal("expected a token in the response")
			}
			if resp.User.Username != "loginuser" {
				t.Fatalf("expected username %q, got %q", "loginuser", resp.User.Username)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()

	_, token := createUser(t, db, "authuser")

	cases := []struct {
		name     string
		header   string
		wantCode apierror.Code
	}{
		{name: "MissingHeader", header: "", wantCode: apierror.CodeUnauthorized},
		{name: "NotBearer", header: "Basic abc123", wantCode: apierror.CodeUnauthorized},
		{name: "MalformedToken", header: "Bearer not-a-jwt", wantCode: apierror.CodeInvalidToken},
		{name: "ValidToken", header: "Bearer " + token},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if tc.wantCode != "" {
				requireError(t, rec, http.StatusUnauthorized, tc.wantCode)
				return
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetMe(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()

	_, token := createUser(t, db, "profileuser")

	rec := perform(t, router, http.MethodGet, "/api/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ProfileResponse
	decode(t, rec, &resp)
	if resp.Username != "profileuser" {
		t.Fatalf("expected username %q, got %q", "profileuser", resp.Username)
	}
	if resp.ProfileImage == "" {
		t.Fatal("expected a profile image")
	}
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()

	user, token := createUser(t, db, "statususer")

	rec := perform(t, router, http.MethodPut, "/api/users/me/status", token, StatusInput{Status: "offline"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ProfileResponse
	decode(t, rec, &resp)
	if resp.Status != "offline" {
		t.Fatalf("expected status offline, got %q", resp.Status)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Status != models.StatusOffline {
		t.Fatalf("expected persisted status offline, got %q", stored.Status)
	}

	rec = perform(t, router, http.MethodPut, "/api/users/me/status", token, StatusInput{Status: "busy"})
	requireError(t, rec, http.StatusBadRequest, apierror.CodeValidation)
}
