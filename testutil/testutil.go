// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/vocal-royale/auth"
	"github.com/danielhkuo/vocal-royale/cliparse"
	"github.com/danielhkuo/vocal-royale/models"
	"github.com/danielhkuo/vocal-royale/store"
)

// SetupTestStore returns a fresh in-memory store. Each call is independent,
// so tests never share state.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewMemory()
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:        3318,
		StoreType:   "memory",
		SessionSalt: "test-session-salt",
	}
}

// StubRng is a deterministic Rng for tests. It returns the configured picks
// in order and repeats the last one once exhausted. The zero value always
// returns 0.
type StubRng struct {
	Picks []int
	next  int
}

func (r *StubRng) Intn(n int) int {
	if len(r.Picks) == 0 {
		return 0
	}
	v := r.Picks[r.next]
	if r.next < len(r.Picks)-1 {
		r.next++
	}
	if v >= n {
		v = n - 1
	}
	return v
}

// CreateTestUser creates and stores a user with the given role. The password
// is always "password123".
func CreateTestUser(t *testing.T, st *store.Store, username, role string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Name:         username,
		Role:         role,
		PasswordHash: hash,
	}
	if err := st.Users.Create(u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestSession opens a session for the user and returns the bearer token
func CreateTestSession(t *testing.T, st *store.Store, userID string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	if err := st.Sessions.Create(token, userID); err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return token
}

// CreateTestRating stores a rating by author for target in the given round
func CreateTestRating(t *testing.T, st *store.Store, authorID, targetID string, round, value int) {
	t.Helper()

	err := st.Ratings.Upsert(&models.Rating{
		Author:    authorID,
		RatedUser: targetID,
		Round:     round,
		Rating:    value,
	})
	if err != nil {
		t.Fatalf("Failed to create test rating: %v", err)
	}
}

// CreateTestSongChoice stores a confirmed song choice for the user and round
func CreateTestSongChoice(t *testing.T, st *store.Store, userID string, round int) {
	t.Helper()

	err := st.SongChoices.Upsert(&models.SongChoice{
		User:      userID,
		Round:     round,
		Artist:    "Test Artist",
		SongTitle: "Test Song",
		Confirmed: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test song choice: %v", err)
	}
}

// MakeRequest builds an httptest request with an optional JSON body and
// optional bearer token.
func MakeRequest(t *testing.T, method, path string, body any, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// DecodeJSON unmarshals a recorded response body into out
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}
