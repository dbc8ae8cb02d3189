package internal

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-booking-backend/config"
	"laundry-booking-backend/internal/api"
	"laundry-booking-backend/internal/auth"
	"laundry-booking-backend/internal/client"
	"laundry-booking-backend/internal/db"
	"laundry-booking-backend/internal/model"
	"laundry-booking-backend/internal/notification"
	"laundry-booking-backend/internal/store"
)

type pushRecord struct {
	authorization string
	ttl           string
	bodyLen       int
}

// pushService stands in for a browser vendor's push endpoint.
type pushService struct {
	mu       sync.Mutex
	received []pushRecord
	status   int
}

func (p *pushService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	p.mu.Lock()
	p.received = append(p.received, pushRecord{
		authorization: r.Header.Get("Authorization"),
		ttl:           r.Header.Get("TTL"),
		bodyLen:       len(body),
	})
	status := p.status
	p.mu.Unlock()
	w.WriteHeader(status)
}

func (p *pushService) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.received)
}

// browserKeys returns a valid p256dh public key and auth secret, base64url encoded.
func browserKeys(t *testing.T) (string, string) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	secret := make([]byte, 16)
	_, err = rand.Read(secret)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()), base64.RawURLEncoding.EncodeToString(secret)
}

// TestBookingLifecycle runs the service the way main wires it: file-backed sqlite,
// auth, the notification worker pool and the router, driven through the Go client.
func TestBookingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// --- Setup ---
	vapidPrivate, vapidPublic, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Auth.JWTSecret = strings.Repeat("k", 32)
	cfg.Auth.BcryptCost = 4
	cfg.Database.DSN = filepath.Join(t.TempDir(), "laundry.db") + "?_busy_timeout=5000"
	cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst = 100, 100
	cfg.Push.PublicKey, cfg.Push.PrivateKey = vapidPublic, vapidPrivate
	cfg.Push.Subject = "mailto:admin@example.com"
	require.NoError(t, cfg.Validate())

	gormDB, err := db.Init(&cfg.Database)
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer, cfg.Auth.Audience)
	authSvc := auth.NewService(appStore, tokens, cfg.Auth.BcryptCost)

	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}
	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, gormDB, webpushOptions)
	workerPool.Start(ctx)

	server := httptest.NewServer(api.NewRouter(appStore, authSvc, webpushOptions, workerPool, nil, cfg.Server))
	defer server.Close()

	push := &pushService{status: http.StatusCreated}
	pushServer := httptest.NewServer(push)
	defer pushServer.Close()

	// Seed a complex, its room and an administrator who manages it.
	solsiden, err := appStore.CreateComplex(ctx, store.NewComplex{Name: "Solsiden", City: "Trondheim"})
	require.NoError(t, err)
	room, err := appStore.CreateRoom(ctx, store.NewRoom{Name: "Basement", ComplexID: solsiden.ID})
	require.NoError(t, err)
	boss, err := authSvc.Register(ctx, auth.RegisterInput{Username: "boss", Email: "boss@example.com", Password: "secret-boss", IsAdmin: true, UserType: model.UserTypeComplexAdmin})
	require.NoError(t, err)
	require.NoError(t, appStore.AddAdmin(ctx, boss.ID, solsiden.ID))

	admin := client.New(server.URL + "/api")
	_, err = admin.Login(ctx, "boss", "secret-boss")
	require.NoError(t, err)
	_, err = admin.SaveSettings(ctx, room.ID, client.SettingsRequest{
		MaxBookingsPerUser: 2,
		Timeslots:          []client.TimeslotSetting{{StartTime: "07:00", EndTime: "09:00"}},
		Machines:           []client.MachineSetting{{Name: "Washer 1", Type: "Washer"}},
	})
	require.NoError(t, err)

	// --- A resident registers, joins the complex and subscribes to push ---
	resident := client.New(server.URL + "/api")
	kari, err := resident.Register(ctx, client.RegisterRequest{Username: "kari", Email: "kari@example.com", Password: "hunter22", FullName: "Kari Nordmann", Apartment: "3C"})
	require.NoError(t, err)
	require.NoError(t, appStore.AddResident(ctx, kari.ID, solsiden.ID))

	session, err := resident.Login(ctx, "kari", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, client.UserDashboard, session.Dashboard())

	p256dh, authSecret := browserKeys(t)
	require.NoError(t, appStore.DB().Create(&model.PushSubscription{
		Endpoint: pushServer.URL + "/push/kari",
		P256DH:   p256dh,
		Auth:     authSecret,
		UserID:   kari.ID,
	}).Error)

	// --- Book, then watch the confirmation arrive ---
	rooms, err := resident.AccessibleRooms(ctx, session.UserID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	slots, err := resident.Timeslots(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	booking, err := resident.CreateBooking(ctx, client.BookingRequest{
		MachineID:     rooms[0].Machines[0].ID,
		TimeslotID:    slots[0].ID,
		LaundryRoomID: room.ID,
		BookingDate:   "2099-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Kari Nordmann", booking.FullName)

	require.Eventually(t, func() bool { return push.count() == 1 }, 5*time.Second, 20*time.Millisecond)
	push.mu.Lock()
	rec := push.received[0]
	push.mu.Unlock()
	assert.True(t, strings.HasPrefix(rec.authorization, "vapid t="), rec.authorization)
	assert.Equal(t, "3600", rec.ttl)
	assert.Greater(t, rec.bodyLen, 0)

	// --- Replacing the machines drops the booking ---
	saved, err := admin.SaveSettings(ctx, room.ID, client.SettingsRequest{
		MaxBookingsPerUser: 2,
		Timeslots:          []client.TimeslotSetting{{StartTime: "07:00", EndTime: "09:00"}},
		Machines:           []client.MachineSetting{{Name: "Washer 2", Type: "Washer"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Replaced.BookingsRemoved)

	mine, err := resident.BookingsForUser(ctx, session.UserID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	// --- An expired subscription is removed after the push service answers 410 ---
	push.mu.Lock()
	push.status = http.StatusGone
	push.mu.Unlock()

	rooms, err = resident.AccessibleRooms(ctx, session.UserID)
	require.NoError(t, err)
	slots, err = resident.Timeslots(ctx, room.ID)
	require.NoError(t, err)
	_, err = resident.CreateBooking(ctx, client.BookingRequest{
		MachineID:     rooms[0].Machines[0].ID,
		TimeslotID:    slots[0].ID,
		LaundryRoomID: room.ID,
		BookingDate:   "2099-05-02",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		var n int64
		err := appStore.DB().Model(&model.PushSubscription{}).Where("user_id = ?", kari.ID).Count(&n).Error
		return err == nil && n == 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 2, push.count())
}
