// Package client talks to the booking API on behalf of a resident or administrator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"laundry-booking-backend/internal/model"
	"laundry-booking-backend/internal/store"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Client is an API client. After Login every request carries the session token.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	session *Session
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithProxy routes requests through an HTTP proxy. An unparsable URL is logged and ignored.
// The proxy is set on a copy of the HTTP client, so a client passed to WithHTTPClient is left untouched.
func WithProxy(rawURL string) Option {
	return func(c *Client) {
		if rawURL == "" {
			return
		}
		proxyURL, err := url.Parse(rawURL)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Client will not use a proxy.", rawURL, err)
			return
		}
		hc := *c.http
		hc.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		c.http = &hc
	}
}

// New creates a client for the API rooted at baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token and keeps the decoded session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}

	session, err := ParseSession(resp.Token)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	c.session = session
	return session, nil
}

// Logout forgets the token.
func (c *Client) Logout() {
	c.token = ""
	c.session = nil
}

// Session returns the logged-in session, or nil.
func (c *Client) Session() *Session {
	return c.session
}

// RegisterRequest is the self-registration form.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"fullName,omitempty"`
	Apartment string `json:"apartment,omitempty"`
}

// Register creates a daily-user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// BookingRequest reserves a machine. UserID may be left zero to book for the caller.
type BookingRequest struct {
	UserID        int64  `json:"userId,omitempty"`
	MachineID     int64  `json:"machineId"`
	TimeslotID    int64  `json:"timeslotId"`
	LaundryRoomID int64  `json:"laundryRoomId"`
	BookingDate   string `json:"bookingDate"`
}

// CreateBooking books a machine.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*store.BookingView, error) {
	var booking store.BookingView
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking deletes a booking.
func (c *Client) CancelBooking(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/bookings/%d", id), nil, nil)
}

// BookingsForUser lists a user's bookings.
func (c *Client) BookingsForUser(ctx context.Context, userID int64) ([]store.BookingView, error) {
	var bookings []store.BookingView
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/user/%d", userID), nil, &bookings)
	return bookings, err
}

// Timeslots lists a room's timeslots ordered by start time.
func (c *Client) Timeslots(ctx context.Context, roomID int64) ([]model.Timeslot, error) {
	var slots []model.Timeslot
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/laundry-rooms/%d/timeslots", roomID), nil, &slots)
	return slots, err
}

// AccessibleRooms lists the rooms a user may book or manage.
func (c *Client) AccessibleRooms(ctx context.Context, userID int64) ([]store.RoomWithMachines, error) {
	var rooms []store.RoomWithMachines
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/laundry-rooms/accessible/%d", userID), nil, &rooms)
	return rooms, err
}

// GetSettings fetches a room's settings.
func (c *Client) GetSettings(ctx context.Context, roomID int64) (*store.SettingsView, error) {
	var view store.SettingsView
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/laundry-rooms/%d/settings", roomID), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// TimeslotSetting is one timeslot in a settings save, e.g. {"07:00", "09:00"}.
type TimeslotSetting struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// MachineSetting is one machine in a settings save.
type MachineSetting struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SettingsRequest is the full desired state of a room. Omitted entries are removed.
type SettingsRequest struct {
	MaxBookingsPerUser int               `json:"maxBookingsPerUser"`
	AllowShowUserInfo  bool              `json:"allowShowUserInfo"`
	Timeslots          []TimeslotSetting `json:"timeslots"`
	Machines           []MachineSetting  `json:"machines"`
}

// SaveSettingsResponse is the stored state and what the save replaced.
type SaveSettingsResponse struct {
	Settings store.SettingsView   `json:"settings"`
	Replaced store.SettingsResult `json:"replaced"`
}

// SaveSettings replaces a room's settings. Requires an administrator managing the room's complex.
func (c *Client) SaveSettings(ctx context.Context, roomID int64, req SettingsRequest) (*SaveSettingsResponse, error) {
	var resp SaveSettingsResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/laundry-rooms/%d/settings", roomID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal api response: %w", err)
	}
	return nil
}
