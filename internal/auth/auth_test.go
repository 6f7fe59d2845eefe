package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	u := &user.User{ID: uuid.New(), Username: "ama", Role: user.RoleAdmin}

	token, expires, err := issuer.Issue(u)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	id, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, user.RoleAdmin, id.Role)
}

func TestIssuer_Parse_Rejects(t *testing.T) {
	u := &user.User{ID: uuid.New(), Role: user.RoleCashier}

	expired, _, err := auth.NewIssuer("test-secret", -time.Minute).Issue(u)
	require.NoError(t, err)

	foreign, _, err := auth.NewIssuer("other-secret", time.Hour).Issue(u)
	require.NoError(t, err)

	issuer := auth.NewIssuer("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Expired", token: expired},
		{name: "WrongSecret", token: foreign},
		{name: "Garbage", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Parse(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)

	admin := &user.User{ID: uuid.New(), Role: user.RoleAdmin}
	cashier := &user.User{ID: uuid.New(), Role: user.RoleCashier}

	adminToken, _, err := issuer.Issue(admin)
	require.NoError(t, err)

	cashierToken, _, err := issuer.Issue(cashier)
	require.NoError(t, err)

	var seen auth.Identity

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	protected := auth.Middleware(issuer)(auth.RequireRole(user.RoleAdmin)(final))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "NoHeader", wantStatus: http.StatusUnauthorized},
		{name: "NotBearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "BadToken", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "Cashier", header: "Bearer " + cashierToken, wantStatus: http.StatusForbidden},
		{name: "Admin", header: "Bearer " + adminToken, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusNoContent {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}

	assert.Equal(t, admin.ID, seen.UserID)
}
