package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/session"
	"github.com/Jigar634859/skyportal/internal/wire"
)

func newTestClient(t *testing.T, h http.HandlerFunc, sessions *session.Store) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/api/", Timeout: time.Second}, sessions)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "localhost:5000"}, nil)
	assert.Error(t, err)
	_, err = NewClient(Config{BaseURL: ""}, nil)
	assert.Error(t, err)
}

func TestClient_BearerPrefersAdmin(t *testing.T) {
	ctx := context.Background()
	sessions := session.NewStore(nil)
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(wire.HeaderAuthorize))
		assert.Equal(t, "/api/flights", r.URL.Path)
		writeJSON(w, http.StatusOK, []domain.Flight{})
	}, sessions)
	flights := NewFlightRepository(c)

	_, err := flights.List(ctx)
	require.NoError(t, err)

	require.NoError(t, sessions.SetUser(ctx, "user-token", domain.UserProfile{ID: 1}))
	_, err = flights.List(ctx)
	require.NoError(t, err)

	require.NoError(t, sessions.SetAdmin(ctx, "admin-token"))
	_, err = flights.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer user-token", "Bearer admin-token"}, seen)
}

func TestClient_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   error
	}{
		{"not found", http.StatusNotFound, nil, domain.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, nil, domain.ErrInvalidCredentials},
		{"forbidden", http.StatusForbidden, wire.ErrorResponse{Code: wire.CodeForbidden}, domain.ErrInvalidCredentials},
		{"payment", http.StatusPaymentRequired, nil, domain.ErrPaymentRequired},
		{"conflict", http.StatusConflict, nil, domain.ErrEmailInUse},
		{"unprocessable", http.StatusUnprocessableEntity, nil, domain.ErrValidation},
		{"server error", http.StatusInternalServerError, nil, domain.ErrBackendUnavailable},
		{"code wins", http.StatusBadRequest, wire.ErrorResponse{Code: wire.CodeEmailInUse, Message: "taken"}, domain.ErrEmailInUse},
		{"non json body", http.StatusBadGateway, "<html>", domain.ErrBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			}, nil)

			_, err := NewFlightRepository(c).GetByID(context.Background(), 1)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api"
	srv.Close()

	c, err := NewClient(Config{BaseURL: base, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = NewFlightRepository(c).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestClient_MalformedSuccessBodyIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}, nil)

	_, err := NewFlightRepository(c).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1/api", RequestsPerSecond: 0.001, Burst: 1}, nil)
	require.NoError(t, err)
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFlightRepository(c).List(ctx)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestFlightRepository_DeleteAbsentIsNoop(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusNotFound, wire.ErrorResponse{Code: wire.CodeNotFound, Message: "flight 9: not found"})
	}, nil)

	assert.NoError(t, NewFlightRepository(c).Delete(context.Background(), 9))
}

func TestFlightRepository_SearchQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flights/search", r.URL.Path)
		assert.Equal(t, "DEL", r.URL.Query().Get("from"))
		assert.Equal(t, "BOM", r.URL.Query().Get("to"))
		assert.False(t, r.URL.Query().Has("date"))
		writeJSON(w, http.StatusOK, []domain.Flight{{ID: 1}})
	}, nil)

	flights, err := NewFlightRepository(c).Search(context.Background(), domain.SearchQuery{From: "DEL", To: "BOM"})
	require.NoError(t, err)
	assert.Len(t, flights, 1)
}

func TestBookingRepository_CreateSendsPayment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Paid", body["paymentStatus"])
		assert.Equal(t, "ref-1", body["paymentReference"])
		assert.Equal(t, float64(2), body["numberOfPassengers"])
		writeJSON(w, http.StatusCreated, domain.Booking{ID: 1, TotalPrice: 13000, Status: domain.BookingStatusConfirmed})
	}, nil)

	b, err := NewBookingRepository(c).Create(context.Background(),
		domain.BookingInput{FlightID: 1, PassengerName: "Asha", NumberOfPassengers: 2},
		domain.Payment{Method: "demo", Status: "Paid", Amount: 13000, Reference: "ref-1"})
	require.NoError(t, err)
	assert.Equal(t, 13000.0, b.TotalPrice)
}

func TestBookingRepository_UpdateUsesPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/bookings/4", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"seatPreference": "First"}, body)
		writeJSON(w, http.StatusOK, domain.Booking{ID: 4, SeatPreference: domain.SeatClassFirst})
	}, nil)

	seat := domain.SeatClassFirst
	b, err := NewBookingRepository(c).Update(context.Background(), 4, domain.BookingPatch{SeatPreference: &seat})
	require.NoError(t, err)
	assert.Equal(t, domain.SeatClassFirst, b.SeatPreference)
}

func TestAuthRepository(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/login":
			var req wire.AdminLoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Password != "admin123" {
				writeJSON(w, http.StatusUnauthorized, wire.ErrorResponse{Code: wire.CodeInvalidCredentials})
				return
			}
			writeJSON(w, http.StatusOK, wire.TokenResponse{Token: "admin-token"})
		case "/api/users/register":
			writeJSON(w, http.StatusConflict, wire.ErrorResponse{Code: wire.CodeEmailInUse, Message: "taken"})
		case "/api/users/login":
			writeJSON(w, http.StatusOK, domain.AuthResult{Token: "u", User: domain.UserProfile{ID: 3, Email: "a@example.com"}})
		}
	}, nil)
	repo := NewAuthRepository(c)
	ctx := context.Background()

	tok, err := repo.AdminLogin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin-token", tok)

	_, err = repo.AdminLogin(ctx, "admin", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = repo.UserRegister(ctx, domain.RegisterInput{Email: "a@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrEmailInUse)

	res, err := repo.UserLogin(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.User.ID)
}
