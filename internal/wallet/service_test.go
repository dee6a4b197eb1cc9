package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkvault/inkvault-backend/internal/users"
	"github.com/inkvault/inkvault-backend/pkg/db/models"
	"github.com/inkvault/inkvault-backend/pkg/enums"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:wallet_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(users.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func TestBalanceAuthenticatedUser(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	user := models.User{
		ID:           uuid.New(),
		Email:        "reader@inkvault.test",
		DisplayName:  "Reader",
		Role:         enums.UserRoleReader,
		ShardBalance: 275,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	view, err := svc.Balance(ctx, user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !view.Authenticated || view.ShardBalance != 275 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestBalanceAnonymousVisitor(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	view, err := svc.Balance(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if view.Authenticated || view.ShardBalance != 0 {
		t.Fatalf("expected empty wallet, got %+v", view)
	}
}

func TestBalanceUnknownUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	view, err := svc.Balance(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !view.Authenticated {
		t.Fatalf("expected authenticated view for unknown user, got %+v", view)
	}
	if view.ShardBalance != 0 {
		t.Fatalf("expected zero balance for unknown user, got %d", view.ShardBalance)
	}
}
