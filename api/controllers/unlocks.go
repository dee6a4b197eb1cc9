package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inkvault/inkvault-backend/api/middleware"
	"github.com/inkvault/inkvault-backend/api/responses"
	"github.com/inkvault/inkvault-backend/api/validators"
	"github.com/inkvault/inkvault-backend/internal/entitlements"
	"github.com/inkvault/inkvault-backend/pkg/db/models"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
	"github.com/inkvault/inkvault-backend/pkg/logger"
)

type unlockResponse struct {
	UnlockID    uuid.UUID `json:"unlock_id"`
	ContentSlug string    `json:"content_slug"`
	ShardsSpent int64     `json:"shards_spent"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUnlockResponse(e models.Entitlement) unlockResponse {
	return unlockResponse{
		UnlockID:    e.ID,
		ContentSlug: e.ContentSlug,
		ShardsSpent: e.ShardsSpent,
		CreatedAt:   e.CreatedAt,
	}
}

// UnlockCreate spends shards on a chapter unlock.
func UnlockCreate(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entitlement service unavailable"))
			return
		}

		var input entitlements.UnlockInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entitlement, err := svc.Unlock(ctx, middleware.UserUUIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toUnlockResponse(*entitlement))
	}
}

// UnlockList returns the reader's unlocks, newest first.
func UnlockList(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entitlement service unavailable"))
			return
		}

		rows, err := svc.ListByUser(ctx, middleware.UserUUIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := make([]unlockResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, toUnlockResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}
