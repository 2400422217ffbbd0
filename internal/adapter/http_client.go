package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-notes-sync/internal/config"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/utils"
	"github.com/MKhiriev/go-notes-sync/models"
	"github.com/go-resty/resty/v2"
)

type httpNotesAdapter struct {
	client *utils.HTTPClient
	tokens *tokenSource

	logger *logger.Logger
}

// NewHTTPNotesAdapter constructs an HTTP/REST implementation of [NotesAPI].
// It normalises and validates the base URL from cfg.HTTPAddress, applies the
// request timeout and seeds the token source with the configured access and
// refresh tokens.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPNotesAdapter(cfg config.ClientAdapter, log *logger.Logger) (NotesAPI, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, cfg.RequestTimeout)
	client.SetHeader("Content-Type", "application/json")

	return &httpNotesAdapter{
		client: client,
		tokens: newTokenSource(client, cfg.AccessToken, cfg.RefreshToken, log),
		logger: log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// CreateNote implements [NotesAPI].
func (h *httpNotesAdapter) CreateNote(ctx context.Context, p models.CreateNotePayload) (models.Note, error) {
	var note models.Note

	_, err := h.authedRequest(ctx, "create note", resty.MethodPost, "/notes", func(r *resty.Request) {
		r.SetBody(p.NoteFields).SetResult(&note)
	})
	if err != nil {
		return models.Note{}, err
	}

	return note, nil
}

// UpdateNote implements [NotesAPI].
func (h *httpNotesAdapter) UpdateNote(ctx context.Context, p models.UpdateNotePayload) (models.Note, error) {
	var note models.Note

	_, err := h.authedRequest(ctx, "update note", resty.MethodPut, "/notes/{id}", func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatInt(p.NoteID, 10)).
			SetBody(p.NoteFields).
			SetResult(&note)
	})
	if err != nil {
		return models.Note{}, err
	}

	return note, nil
}

// DeleteNote implements [NotesAPI].
func (h *httpNotesAdapter) DeleteNote(ctx context.Context, p models.DeleteNotePayload) error {
	_, err := h.authedRequest(ctx, "delete note", resty.MethodDelete, "/notes/{id}", func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatInt(p.NoteID, 10))
	})
	return err
}

// ShareWithUser implements [NotesAPI]. The server answers with a plain-text
// confirmation; a JSON share object is decoded when one is returned instead.
func (h *httpNotesAdapter) ShareWithUser(ctx context.Context, p models.ShareNoteWithUserPayload) (models.Share, error) {
	resp, err := h.authedRequest(ctx, "share note with user", resty.MethodPost, "/notes/{id}/share/user", func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatInt(p.NoteID, 10)).
			SetQueryParam("email", p.Email)
	})
	if err != nil {
		return models.Share{}, err
	}

	share := models.Share{NoteID: p.NoteID, SharedWithUser: models.NoteUser{Email: p.Email}}
	body := strings.TrimSpace(resp.String())
	if strings.HasPrefix(body, "{") {
		if err = json.Unmarshal([]byte(body), &share); err != nil {
			return models.Share{}, fmt.Errorf("share note with user: decode response: %w", err)
		}
		return share, nil
	}

	share.Message = body
	return share, nil
}

// SharePublic implements [NotesAPI]. The response body is the public URL.
func (h *httpNotesAdapter) SharePublic(ctx context.Context, p models.ShareNotePublicPayload) (models.PublicLink, error) {
	resp, err := h.authedRequest(ctx, "share note publicly", resty.MethodPost, "/notes/{id}/share/public", func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatInt(p.NoteID, 10))
	})
	if err != nil {
		return models.PublicLink{}, err
	}

	token := strings.TrimSpace(resp.String())
	if unquoted, uerr := strconv.Unquote(token); uerr == nil {
		token = unquoted
	}

	return models.PublicLink{NoteID: p.NoteID, Token: token}, nil
}

// authedRequest sends one request with the current bearer token. A 401 is
// answered by a single token refresh and one repeat of the request.
func (h *httpNotesAdapter) authedRequest(
	ctx context.Context,
	op, method, path string,
	build func(r *resty.Request),
) (*resty.Response, error) {
	send := func(token string) (*resty.Response, error) {
		req := h.client.R().SetContext(ctx)
		if token != "" {
			req.SetAuthToken(token)
		}
		build(req)

		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, transportError(op+" request", err)
		}
		return resp, nil
	}

	token := h.tokens.AccessToken(ctx)
	resp, err := send(token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == 401 {
		if _, refresh := h.tokens.Tokens(); refresh != "" {
			fresh, rerr := h.tokens.Refresh(ctx, token)
			if rerr != nil {
				h.logger.Warn().Str("func", "httpNotesAdapter.authedRequest").Err(rerr).Msg("token refresh after 401 failed")
			} else if resp, err = send(fresh); err != nil {
				return nil, err
			}
		}
	}

	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}
