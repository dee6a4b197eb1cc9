package controllers

import (
	"net/http"

	"github.com/inkvault/inkvault-backend/api/middleware"
	"github.com/inkvault/inkvault-backend/api/responses"
	"github.com/inkvault/inkvault-backend/internal/checkout"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
	"github.com/inkvault/inkvault-backend/pkg/logger"
)

// CheckoutStart opens a hosted payment session for the shard bundle and
// returns the redirect URL. The wallet is untouched until the gateway
// confirms payment through the webhook.
func CheckoutStart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID := middleware.UserUUIDFromContext(ctx)
		session, err := svc.Start(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}
