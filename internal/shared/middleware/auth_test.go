package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// FakeVerifier implements TokenVerifier for testing
type FakeVerifier struct {
	VerifyFunc func(ctx context.Context, idToken string) (string, error)
}

func (f *FakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(ctx, idToken)
	}
	return "", errors.New("no verifier configured")
}

func TestAuth(t *testing.T) {
	verifier := &FakeVerifier{
		VerifyFunc: func(ctx context.Context, idToken string) (string, error) {
			if idToken == "valid-token" {
				return "user-1", nil
			}
			return "", errors.New("invalid token")
		},
	}

	tests := []struct {
		name           string
		setupRequest   func(r *http.Request)
		expectedStatus int
		expectedUser   string
	}{
		{
			name: "Valid Token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer valid-token")
			},
			expectedStatus: http.StatusOK,
			expectedUser:   "user-1",
		},
		{
			name:           "No Token",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Malformed Header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "valid-token")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Invalid Token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer bad-token")
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			var handlerCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				gotUser, _ = UserID(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/server/get_user_info", nil)
			tt.setupRequest(req)

			rr := httptest.NewRecorder()
			Auth(verifier)(next).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}

			if tt.expectedStatus == http.StatusOK {
				if !handlerCalled {
					t.Error("next handler was not called")
				}
				if gotUser != tt.expectedUser {
					t.Errorf("user id = %q, want %q", gotUser, tt.expectedUser)
				}
			} else {
				if handlerCalled {
					t.Error("next handler must not run on auth failure")
				}
				var body map[string]string
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("error body is not JSON: %v", err)
				}
				if body["error"] == "" {
					t.Error("error body missing 'error' field")
				}
			}
		})
	}
}

func TestUserID_Missing(t *testing.T) {
	if _, ok := UserID(context.Background()); ok {
		t.Error("UserID() = ok for empty context, want !ok")
	}
}
