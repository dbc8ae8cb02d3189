package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"laundry-booking-backend/config"
	"laundry-booking-backend/internal/auth"
	"laundry-booking-backend/internal/db"
	"laundry-booking-backend/internal/model"
	"laundry-booking-backend/internal/mw"
	"laundry-booking-backend/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingNotifier collects dispatched booking ids.
type recordingNotifier struct {
	mu  sync.Mutex
	ids []int64
}

func (n *recordingNotifier) Dispatch(bookingID int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, bookingID)
	return true
}

func (n *recordingNotifier) dispatched() []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int64(nil), n.ids...)
}

type testEnv struct {
	router   *gin.Engine
	store    store.Store
	tokens   *auth.TokenService
	notifier *recordingNotifier
}

type envConfig struct {
	server  config.ServerConfig
	webpush *webpush.Options
	limiter *mw.IPRateLimiter
}

type envOption func(*envConfig)

func withLimiter(l *mw.IPRateLimiter) envOption {
	return func(c *envConfig) { c.limiter = l }
}

func withWebPush(opts *webpush.Options) envOption {
	return func(c *envConfig) { c.webpush = opts }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared&_foreign_keys=on", name)

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	cfg := envConfig{server: config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 60,
		Timezone:        "UTC",
		AllowedOrigins:  []string{"http://localhost:5173"},
	}}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := store.NewGormStore(gormDB)
	tokens := auth.NewTokenService(testSecret, time.Hour, "laundry-booking", "laundry-booking")
	authSvc := auth.NewService(s, tokens, bcrypt.MinCost)
	notifier := &recordingNotifier{}

	return &testEnv{
		router:   NewRouter(s, authSvc, cfg.webpush, notifier, cfg.limiter, cfg.server),
		store:    s,
		tokens:   tokens,
		notifier: notifier,
	}
}

// world is a complex with one room, two machines and two timeslots, a resident,
// an administrator managing the complex and an outsider living elsewhere.
type world struct {
	complex   *model.ApartmentComplex
	room      *model.LaundryRoom
	resident  *model.User
	admin     *model.User
	outsider  *model.User
	machineID int64
	slotID    int64
}

func (e *testEnv) seed(t *testing.T) world {
	t.Helper()
	ctx := context.Background()

	c, err := e.store.CreateComplex(ctx, store.NewComplex{Name: "Solsiden", Street: "Elvegata 1", City: "Trondheim", Zipcode: 7010})
	require.NoError(t, err)
	other, err := e.store.CreateComplex(ctx, store.NewComplex{Name: "Lerkendal"})
	require.NoError(t, err)
	room, err := e.store.CreateRoom(ctx, store.NewRoom{Name: "Basement", ComplexID: c.ID})
	require.NoError(t, err)

	w := world{complex: c, room: room}
	w.resident = e.createUser(t, "anna", false, &c.ID)
	w.admin = e.createUser(t, "boss", true, nil)
	w.outsider = e.createUser(t, "olav", false, &other.ID)
	require.NoError(t, e.store.AddAdmin(ctx, w.admin.ID, c.ID))

	_, err = e.store.SaveSettings(ctx, room.ID, store.SettingsInput{
		MaxBookingsPerUser: 2,
		Timeslots: []store.TimeslotInput{
			{StartTime: model.NewTimeOfDay(7, 0, 0), EndTime: model.NewTimeOfDay(9, 0, 0)},
			{StartTime: model.NewTimeOfDay(9, 0, 0), EndTime: model.NewTimeOfDay(11, 0, 0)},
		},
		Machines: []store.MachineInput{
			{Name: "Washer 1", Type: model.MachineTypeWasher},
			{Name: "Dryer 1", Type: model.MachineTypeDryer},
		},
	})
	require.NoError(t, err)

	view, err := e.store.GetSettings(ctx, room.ID)
	require.NoError(t, err)
	w.machineID = view.Machines[0].ID
	w.slotID = view.Timeslots[0].ID
	return w
}

func (e *testEnv) createUser(t *testing.T, username string, admin bool, complexID *int64) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("secret-"+username, bcrypt.MinCost)
	require.NoError(t, err)
	userType := model.UserTypeDailyUser
	if admin {
		userType = model.UserTypeComplexAdmin
	}
	u, err := e.store.CreateUser(context.Background(), store.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		FullName:     strings.ToUpper(username[:1]) + username[1:],
		UserType:     userType,
		Apartment:    "1A",
		IsAdmin:      admin,
		ComplexID:    complexID,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) token(t *testing.T, u *model.User) string {
	t.Helper()
	tok, err := e.tokens.Issue(*u, nil)
	require.NoError(t, err)
	return tok
}

// do performs a request against the router; body is JSON encoded unless it is nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
