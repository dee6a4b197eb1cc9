package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/inkvault/inkvault-backend/api/middleware"
	"github.com/inkvault/inkvault-backend/internal/wallet"
)

type stubWalletService struct {
	views map[uuid.UUID]wallet.View
}

func (s stubWalletService) Balance(ctx context.Context, userID uuid.UUID) (wallet.View, error) {
	return s.views[userID], nil
}

func TestWalletBalanceAuthenticated(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := stubWalletService{views: map[uuid.UUID]wallet.View{
		userID: {Authenticated: true, ShardBalance: 320},
	}}
	handler := WalletBalance(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var envelope struct {
		Data wallet.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Authenticated || envelope.Data.ShardBalance != 320 {
		t.Fatalf("unexpected view: %+v", envelope.Data)
	}
}

func TestWalletBalanceAnonymous(t *testing.T) {
	t.Parallel()

	handler := WalletBalance(stubWalletService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous visitor, got %d", resp.Code)
	}

	var envelope struct {
		Data wallet.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Authenticated || envelope.Data.ShardBalance != 0 {
		t.Fatalf("expected empty wallet, got %+v", envelope.Data)
	}
}
