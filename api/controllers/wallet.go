package controllers

import (
	"net/http"

	"github.com/inkvault/inkvault-backend/api/middleware"
	"github.com/inkvault/inkvault-backend/api/responses"
	"github.com/inkvault/inkvault-backend/internal/wallet"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
	"github.com/inkvault/inkvault-backend/pkg/logger"
)

// WalletBalance serves the shard balance. Anonymous visitors get a zero
// balance; the route sits behind optional auth.
func WalletBalance(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		view, err := svc.Balance(ctx, middleware.UserUUIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
