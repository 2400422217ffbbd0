// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/config"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, serverURL, access, refresh string) *httpNotesAdapter {
	t.Helper()
	cfg := config.ClientAdapter{
		HTTPAddress:    serverURL,
		RequestTimeout: 2 * time.Second,
		AccessToken:    access,
		RefreshToken:   refresh,
	}

	a, err := NewHTTPNotesAdapter(cfg, logger.Nop())
	require.NoError(t, err)
	return a.(*httpNotesAdapter)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(d))}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

// ── CreateNote ──────────────────────────────────────────────────────────────

func TestCreateNote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notes", r.URL.Path)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))

		var body models.NoteFields
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Groceries", body.Title)
		assert.Equal(t, []string{"home"}, body.Tags)

		writeJSON(t, w, http.StatusCreated, models.Note{ID: 11, Title: body.Title, ContentMd: body.ContentMd})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "access", "")
	note, err := a.CreateNote(context.Background(), models.CreateNotePayload{NoteFields: models.NoteFields{
		Title: "Groceries", ContentMd: "- milk", Tags: []string{"home"},
	}})

	require.NoError(t, err)
	assert.Equal(t, int64(11), note.ID)
	assert.Equal(t, "Groceries", note.Title)
}

func TestCreateNote_BadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("title is required"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	_, err := a.CreateNote(context.Background(), models.CreateNotePayload{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Contains(t, err.Error(), "title is required")
}

func TestCreateNote_NoAuthorizationWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusCreated, models.Note{ID: 1})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	_, err := a.CreateNote(context.Background(), models.CreateNotePayload{})
	require.NoError(t, err)
}

// ── UpdateNote / DeleteNote ─────────────────────────────────────────────────

func TestUpdateNote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notes/42", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id")
		assert.Equal(t, "Renamed", body["title"])

		writeJSON(t, w, http.StatusOK, models.Note{ID: 42, Title: "Renamed"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	note, err := a.UpdateNote(context.Background(), models.UpdateNotePayload{
		NoteID: 42, NoteFields: models.NoteFields{Title: "Renamed"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), note.ID)
}

func TestUpdateNote_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	_, err := a.UpdateNote(context.Background(), models.UpdateNotePayload{NoteID: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestDeleteNote_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/notes/7", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	require.NoError(t, a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 7}))
}

func TestDeleteNote_ServerErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusForbidden, ErrForbidden},
		{http.StatusConflict, ErrConflict},
		{http.StatusTooManyRequests, ErrTooManyRequests},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusServiceUnavailable, ErrServiceUnavailable},
		{http.StatusGatewayTimeout, ErrGatewayTimeout},
		{http.StatusTeapot, ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			a := newTestAdapter(t, srv.URL, "", "")
			err := a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 7})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestDeleteNote_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := newTestAdapter(t, url, "", "")
	err := a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 7})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Zero(t, StatusCode(err))
}

func TestDeleteNote_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a, err := NewHTTPNotesAdapter(config.ClientAdapter{HTTPAddress: srv.URL, RequestTimeout: 50 * time.Millisecond}, logger.Nop())
	require.NoError(t, err)

	err = a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

// ── Sharing ─────────────────────────────────────────────────────────────────

func TestShareWithUser_PlainTextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notes/5/share/user", r.URL.Path)
		assert.Equal(t, "bob+notes@example.com", r.URL.Query().Get("email"))
		_, _ = w.Write([]byte("Note shared successfully"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	share, err := a.ShareWithUser(context.Background(), models.ShareNoteWithUserPayload{NoteID: 5, Email: "bob+notes@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int64(5), share.NoteID)
	assert.Equal(t, "bob+notes@example.com", share.SharedWithUser.Email)
	assert.Equal(t, "Note shared successfully", share.Message)
}

func TestShareWithUser_JSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.Share{ID: 3, NoteID: 5, Permission: "READ"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	share, err := a.ShareWithUser(context.Background(), models.ShareNoteWithUserPayload{NoteID: 5, Email: "bob@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), share.ID)
	assert.Equal(t, "READ", share.Permission)
}

func TestSharePublic_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notes/9/share/public", r.URL.Path)
		_, _ = w.Write([]byte("http://notes.local/public/abc123\n"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	link, err := a.SharePublic(context.Background(), models.ShareNotePublicPayload{NoteID: 9})

	require.NoError(t, err)
	assert.Equal(t, models.PublicLink{NoteID: 9, Token: "http://notes.local/public/abc123"}, link)
}

func TestSharePublic_QuotedJSONString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"abc123"`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "", "")
	link, err := a.SharePublic(context.Background(), models.ShareNotePublicPayload{NoteID: 9})

	require.NoError(t, err)
	assert.Equal(t, "abc123", link.Token)
}

// ── Token refresh ───────────────────────────────────────────────────────────

func TestAuthedRequest_RefreshesOnceOn401(t *testing.T) {
	var refreshCalls, noteCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls.Add(1)
			assert.Equal(t, "Bearer refresh", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, refreshResponse{AccessToken: "fresh"})
		case "/notes/1":
			noteCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "stale", "refresh")
	require.NoError(t, a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 1}))

	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, int32(2), noteCalls.Load())

	access, _ := a.tokens.Tokens()
	assert.Equal(t, "fresh", access)
}

func TestAuthedRequest_RefreshFailsKeeps401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "stale", "refresh")
	err := a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthedRequest_401WithoutRefreshToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "stale", "")
	err := a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 1})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTokenSource_ProactiveRefresh(t *testing.T) {
	expiring := tokenExpiringIn(t, 10*time.Second)
	fresh := tokenExpiringIn(t, time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			writeJSON(t, w, http.StatusOK, refreshResponse{AccessToken: fresh, RefreshToken: "rotated"})
		default:
			assert.Equal(t, "Bearer "+fresh, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, expiring, "refresh")
	require.NoError(t, a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 1}))

	access, refresh := a.tokens.Tokens()
	assert.Equal(t, fresh, access)
	assert.Equal(t, "rotated", refresh)
}

func TestTokenSource_LongLivedTokenNotRefreshed(t *testing.T) {
	longLived := tokenExpiringIn(t, time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			t.Error("refresh must not be called")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, longLived, "refresh")
	require.NoError(t, a.DeleteNote(context.Background(), models.DeleteNotePayload{NoteID: 1}))
}

func TestTokenSource_RefreshSkippedWhenAlreadyReplaced(t *testing.T) {
	ts := newTokenSource(nil, "current", "refresh", logger.Nop())

	got, err := ts.Refresh(context.Background(), "older")
	require.NoError(t, err)
	assert.Equal(t, "current", got)
}

func TestTokenSource_RefreshWithoutRefreshToken(t *testing.T) {
	ts := newTokenSource(nil, "", "", logger.Nop())

	_, err := ts.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

// ── Constructor ─────────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"localhost:9090", "http://localhost:9090", false},
		{"https://notes.example.com/", "https://notes.example.com", false},
		{"  http://10.0.2.2:9090  ", "http://10.0.2.2:9090", false},
		{"", "", true},
		{"http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPNotesAdapter_EmptyAddress(t *testing.T) {
	_, err := NewHTTPNotesAdapter(config.ClientAdapter{}, logger.Nop())
	assert.ErrorIs(t, err, ErrEmptyAddress)
}
