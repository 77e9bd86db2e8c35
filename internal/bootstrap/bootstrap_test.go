package bootstrap

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/api"
	"github.com/Jigar634859/skyportal/config"
	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/payment"
	"github.com/Jigar634859/skyportal/internal/repository/local"
	"github.com/Jigar634859/skyportal/internal/session"
	"github.com/Jigar634859/skyportal/internal/storage"
	"github.com/Jigar634859/skyportal/internal/token"
)

func scenarioSeed() []domain.Flight {
	depart := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	return []domain.Flight{
		{ID: 1, Code: "AI-101", Airline: "Air India", From: "DEL", To: "BOM",
			DepartAt: domain.NewDateTime(depart), ArriveAt: domain.NewDateTime(depart.Add(2 * time.Hour)),
			Price: 6500, Status: domain.FlightStatusOnTime},
		{ID: 2, Code: "6E-302", Airline: "IndiGo", From: "DEL", To: "BLR",
			DepartAt: domain.NewDateTime(depart), ArriveAt: domain.NewDateTime(depart.Add(3 * time.Hour)),
			Price: 5200, Status: domain.FlightStatusScheduled},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.Driver = config.StorageMemory
	cfg.Auth.JWTSecret = "scenario-secret"
	cfg.Auth.BcryptCost = 4
	return cfg
}

// localRepositories mirrors newLocal with a fixed seed.
func localRepositories(t *testing.T, cfg *config.Config, sessions *session.Store) *Repositories {
	t.Helper()
	db, err := local.Open(context.Background(), storage.NewMemoryStore(), local.WithSeed(scenarioSeed()))
	require.NoError(t, err)
	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	return &Repositories{
		Kind:     config.BackendLocal,
		Flights:  local.NewFlightRepository(db),
		Bookings: local.NewBookingRepository(db, sessions, cfg.Backend.Local.DemoMode),
		Auth: local.NewAuthRepository(db, issuer, local.AuthConfig{
			AdminUsername: cfg.Backend.Local.AdminUsername,
			AdminPassword: cfg.Backend.Local.AdminPassword,
			DemoMode:      cfg.Backend.Local.DemoMode,
			BcryptCost:    cfg.Auth.BcryptCost,
		}),
		Issuer: issuer,
	}
}

// apiServer hosts the HTTP API over a freshly seeded local backend.
func apiServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repos := localRepositories(t, cfg, nil)
	svc := NewServices(repos, nil, ServiceDeps{}, zap.NewNop())
	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Flights:  svc.Flights,
		Bookings: svc.Bookings,
		Auth:     svc.Auth,
		Issuer:   repos.Issuer,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runScenario(t *testing.T, svc *Services) {
	ctx := context.Background()

	_, err := svc.Auth.AdminLogin(ctx, "admin", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Auth.AdminLogin(ctx, "admin", "admin123")
	require.NoError(t, err)

	found, err := svc.Flights.Search(ctx, domain.SearchQuery{From: "del", To: "bom"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ID)

	found, err = svc.Flights.Search(ctx, domain.SearchQuery{From: "DEL", To: "BOM", Date: "2026-06-02"})
	require.NoError(t, err)
	assert.Empty(t, found)

	depart := time.Date(2026, 6, 3, 9, 0, 0, 0, time.UTC)
	created, err := svc.Flights.Create(ctx, domain.FlightInput{
		Code: "X1", Airline: "Test Air", From: "BOM", To: "GOI",
		DepartAt: domain.NewDateTime(depart), ArriveAt: domain.NewDateTime(depart.Add(time.Hour)),
		Price: 3000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, domain.FlightStatusScheduled, created.Status)

	all, err := svc.Flights.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.Flights.Update(ctx, 99, domain.FlightPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, svc.Flights.Delete(ctx, 99))

	require.NoError(t, svc.Auth.Logout(ctx, session.ScopeAdmin))
	_, err = svc.Flights.Create(ctx, domain.FlightInput{Code: "X2", Airline: "A", From: "A", To: "B"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Auth.UserLogin(ctx, "asha@example.com", "anything")
	require.NoError(t, err)

	input := domain.BookingInput{FlightID: 1, PassengerName: "Asha", PassengerEmail: "asha@example.com", NumberOfPassengers: 2}
	_, err = svc.Bookings.Create(ctx, input, nil)
	require.ErrorIs(t, err, domain.ErrPaymentRequired)

	conf, err := payment.DemoGateway{}.Charge(ctx, payment.ChargeRequest{Amount: 13000, Currency: "INR"})
	require.NoError(t, err)
	start := time.Now().Add(-time.Second)
	booked, err := svc.Bookings.Create(ctx, input, conf)
	require.NoError(t, err)
	assert.Equal(t, 13000.0, booked.TotalPrice)
	assert.Equal(t, domain.BookingStatusConfirmed, booked.Status)
	assert.Equal(t, domain.SeatClassEconomy, booked.SeatPreference)
	assert.Equal(t, conf.Reference, booked.PaymentReference)
	assert.False(t, booked.BookingDate.Before(start))

	seat := domain.SeatClassBusiness
	updated, err := svc.Bookings.Update(ctx, booked.ID, domain.BookingPatch{SeatPreference: &seat})
	require.NoError(t, err)
	assert.Equal(t, domain.SeatClassBusiness, updated.SeatPreference)
	assert.Equal(t, 13000.0, updated.TotalPrice)
	assert.Equal(t, booked.FlightID, updated.FlightID)
	assert.True(t, booked.BookingDate.Equal(updated.BookingDate.Time))

	got, err := svc.Bookings.GetByID(ctx, booked.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Flight)
	assert.Equal(t, "AI-101", got.Flight.Code)

	mine, err := svc.Bookings.ListMine(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.Bookings.GetByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScenario_LocalBackend(t *testing.T) {
	cfg := testConfig()
	sessions := session.NewStore(nil)
	repos := localRepositories(t, cfg, sessions)
	// The local backend has no admin gate of its own; the gate lives in the API.
	svc := NewServices(repos, sessions, ServiceDeps{}, zap.NewNop())

	ctx := context.Background()
	_, err := svc.Auth.AdminLogin(ctx, "admin", "admin123")
	require.NoError(t, err)
	found, err := svc.Flights.Search(ctx, domain.SearchQuery{From: "del", To: "bom"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	created, err := svc.Flights.Create(ctx, domain.FlightInput{Code: "X1", Airline: "Test Air", From: "BOM", To: "GOI", Price: 3000})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	_, err = svc.Auth.UserLogin(ctx, "asha@example.com", "x")
	require.NoError(t, err)
	conf, err := payment.DemoGateway{}.Charge(ctx, payment.ChargeRequest{Amount: 13000})
	require.NoError(t, err)
	booked, err := svc.Bookings.Create(ctx, domain.BookingInput{FlightID: 1, PassengerName: "Asha", PassengerEmail: "asha@example.com", NumberOfPassengers: 2}, conf)
	require.NoError(t, err)
	assert.Equal(t, 13000.0, booked.TotalPrice)

	seat := domain.SeatClassBusiness
	updated, err := svc.Bookings.Update(ctx, booked.ID, domain.BookingPatch{SeatPreference: &seat})
	require.NoError(t, err)
	assert.Equal(t, 13000.0, updated.TotalPrice)
}

func TestScenario_RemoteBackend(t *testing.T) {
	cfg := testConfig()
	srv := apiServer(t, cfg)

	clientCfg := testConfig()
	clientCfg.Backend.Kind = config.BackendRemote
	clientCfg.Backend.Remote.BaseURL = srv.URL + api.BasePath
	clientCfg.Backend.Remote.RequestsPerSecond = 0

	sessions := session.NewStore(nil)
	repos, err := NewRepositories(context.Background(), clientCfg, nil, sessions, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, config.BackendRemote, repos.Kind)
	assert.Nil(t, repos.Issuer)

	runScenario(t, NewServices(repos, sessions, ServiceDeps{}, zap.NewNop()))
}

func TestNewRepositories_LocalSeedsDefaultCatalog(t *testing.T) {
	cfg := testConfig()
	repos, err := NewRepositories(context.Background(), cfg, storage.NewMemoryStore(), session.NewStore(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, config.BackendLocal, repos.Kind)
	assert.NotNil(t, repos.Issuer)

	flights, err := repos.Flights.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, flights, 3)
}

func TestNewRepositories_Errors(t *testing.T) {
	cfg := testConfig()
	_, err := NewRepositories(context.Background(), cfg, nil, nil, nil)
	assert.Error(t, err)

	cfg.Backend.Kind = "carrier-pigeon"
	_, err = NewRepositories(context.Background(), cfg, storage.NewMemoryStore(), nil, nil)
	assert.ErrorContains(t, err, "unknown backend kind")

	cfg.Backend.Kind = config.BackendRemote
	cfg.Backend.Remote.BaseURL = "not a url"
	_, err = NewRepositories(context.Background(), cfg, nil, nil, nil)
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	s, cleanup, err := OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, s)
	cleanup()

	cfg.Storage.Driver = config.StorageFile
	cfg.Storage.Path = filepath.Join(t.TempDir(), "state.json")
	s, cleanup, err = OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, s)
	cleanup()

	cfg.Storage.Driver = "tape"
	_, _, err = OpenStore(ctx, cfg, zap.NewNop())
	assert.Error(t, err)
}
