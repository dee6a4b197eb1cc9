package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkvault/inkvault-backend/internal/ledger"
	"github.com/inkvault/inkvault-backend/pkg/config"
	"github.com/inkvault/inkvault-backend/pkg/db/models"
	"github.com/inkvault/inkvault-backend/pkg/enums"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
	pkgstripe "github.com/inkvault/inkvault-backend/pkg/stripe"
)

type fakeGateway struct {
	calls   int
	fail    bool
	session pkgstripe.CheckoutSession
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, p pkgstripe.CheckoutSessionParams) (*pkgstripe.CheckoutSession, error) {
	g.calls++
	if g.fail {
		return nil, errors.New("gateway unreachable")
	}
	sess := g.session
	return &sess, nil
}

func bundleConfig() config.StripeConfig {
	return config.StripeConfig{
		BundlePriceCents: 499,
		BundleShards:     500,
		BundleName:       "Shard Bundle",
		Currency:         "usd",
		SuccessURL:       "https://inkvault.test/wallet?status=success",
		CancelURL:        "https://inkvault.test/wallet?status=cancelled",
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.PurchaseIntent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestStartRecordsPendingIntent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	gateway := &fakeGateway{session: pkgstripe.CheckoutSession{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.test/cs_test_123",
	}}

	svc, err := NewService(ServiceParams{
		Gateway:    gateway,
		LedgerRepo: ledger.NewRepository(db),
		Bundle:     bundleConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	session, err := svc.Start(ctx, userID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.SessionID != "cs_test_123" || session.RedirectURL == "" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if gateway.calls != 1 {
		t.Fatalf("expected one gateway call, got %d", gateway.calls)
	}

	var intent models.PurchaseIntent
	if err := db.First(&intent, "gateway_session_id = ?", "cs_test_123").Error; err != nil {
		t.Fatalf("load intent: %v", err)
	}
	if intent.Status != enums.PurchaseStatusPending {
		t.Fatalf("expected pending status, got %s", intent.Status)
	}
	if intent.ShardsGranted != 500 || intent.AmountUsdCents != 499 {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if intent.GatewayEventID != nil {
		t.Fatalf("expected no event id on a fresh intent")
	}
}

func TestStartGatewayFailureLeavesNoRow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	gateway := &fakeGateway{fail: true}
	svc, err := NewService(ServiceParams{
		Gateway:    gateway,
		LedgerRepo: ledger.NewRepository(db),
		Bundle:     bundleConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Start(ctx, uuid.New())
	if err == nil {
		t.Fatal("expected gateway error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	if err := db.Model(&models.PurchaseIntent{}).Count(&count).Error; err != nil {
		t.Fatalf("count intents: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no intents after gateway failure, got %d", count)
	}
}

func TestStartRequiresAuthentication(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc, err := NewService(ServiceParams{
		Gateway:    gateway,
		LedgerRepo: ledger.NewRepository(db),
		Bundle:     bundleConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Start(context.Background(), uuid.Nil)
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.calls != 0 {
		t.Fatalf("expected no gateway call, got %d", gateway.calls)
	}
}

func TestStartUnconfiguredBundle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(ServiceParams{
		Gateway:    &fakeGateway{},
		LedgerRepo: ledger.NewRepository(db),
		Bundle:     config.StripeConfig{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Start(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("unexpected error: %v", err)
	}
}
