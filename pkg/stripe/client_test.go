package stripe

import (
	"context"
	"testing"

	"github.com/inkvault/inkvault-backend/pkg/config"
)

func TestNormalizeEnv(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "test"},
		{in: "test", want: "test"},
		{in: " LIVE ", want: "live"},
		{in: "staging", wantErr: true},
	}
	for _, tt := range tests {
		got, err := normalizeEnv(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("normalizeEnv(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("normalizeEnv(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateAPIKeyPerEnv(t *testing.T) {
	if err := validateAPIKey("test", "sk_test_abc"); err != nil {
		t.Fatalf("test key rejected: %v", err)
	}
	if err := validateAPIKey("test", "sk_live_abc"); err == nil {
		t.Fatal("live key accepted in test env")
	}
	if err := validateAPIKey("live", "rk_live_abc"); err != nil {
		t.Fatalf("live key rejected: %v", err)
	}
	if err := validateAPIKey("live", "sk_test_abc"); err == nil {
		t.Fatal("test key accepted in live env")
	}
}

func TestNewClientRequiresSecrets(t *testing.T) {
	ctx := context.Background()

	if _, err := NewClient(ctx, config.StripeConfig{Secret: "whsec_x"}, nil); err != errAPIKeyRequired {
		t.Fatalf("expected api key error, got %v", err)
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc"}, nil); err != errSecretRequired {
		t.Fatalf("expected signing secret error, got %v", err)
	}

	client, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Secret: "whsec_x"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Environment() != "test" {
		t.Fatalf("unexpected environment %q", client.Environment())
	}
	if client.SigningSecret() != "whsec_x" {
		t.Fatalf("unexpected signing secret")
	}
}

func TestCreateCheckoutSessionValidation(t *testing.T) {
	client := &Client{api: nil}
	if _, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{UnitAmountCents: 100}); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
}
