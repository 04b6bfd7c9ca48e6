// Package video mints direct-upload URLs for CCTV footage tied to a quote.
// The bytes never pass through this system: the client PUTs straight to the
// media provider, and a provider webhook later attaches the playable asset.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pipequote/internal/domain"
)

var (
	ErrNotConfigured = errors.New("video provider credentials are not configured")
	ErrQuoteNotFound = errors.New("quote not found")
)

type QuoteReader interface {
	GetByPublicID(ctx context.Context, publicID string) (*domain.Quote, error)
}

type Service struct {
	quotes      QuoteReader
	baseURL     string
	tokenID     string
	tokenSecret string
	http        *http.Client
}

func NewService(quotes QuoteReader, baseURL, tokenID, tokenSecret string) *Service {
	return &Service{
		quotes:      quotes,
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

// passthrough is what the provider echoes back in its webhook; it has to
// carry enough to re-associate the finished asset with the quote.
type passthrough struct {
	PublicID    string `json:"public_id"`
	PublicToken string `json:"public_token"`
	CreatedBy   string `json:"created_by,omitempty"`
	IntakeID    string `json:"intake_id"`
}

type CreateUploadResult struct {
	UploadID  string `json:"upload_id"`
	UploadURL string `json:"upload_url"`
	IntakeID  string `json:"intake_id"`
}

// CreateUpload verifies the quote reference and asks the provider for a
// short-lived direct-upload URL.
func (s *Service) CreateUpload(ctx context.Context, publicID, publicToken, createdBy string) (*CreateUploadResult, error) {
	if s.tokenID == "" || s.tokenSecret == "" {
		return nil, ErrNotConfigured
	}

	q, err := s.quotes.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	// same rule as the viewer gate: a wrong token or a deleted quote is
	// indistinguishable from no quote
	if q.Deleted() || publicToken != q.PublicToken {
		return nil, ErrQuoteNotFound
	}

	intakeID := uuid.NewString()
	pt, err := json.Marshal(passthrough{
		PublicID:    publicID,
		PublicToken: publicToken,
		CreatedBy:   createdBy,
		IntakeID:    intakeID,
	})
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(map[string]any{
		"cors_origin": "*",
		"new_asset_settings": map[string]any{
			"playback_policy": []string{"public"},
			"passthrough":     string(pt),
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/video/v1/uploads", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.tokenID, s.tokenSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("mux status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		Data struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &CreateUploadResult{
		UploadID:  out.Data.ID,
		UploadURL: out.Data.URL,
		IntakeID:  intakeID,
	}, nil
}
