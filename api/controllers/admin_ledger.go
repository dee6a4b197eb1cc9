package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkvault/inkvault-backend/api/responses"
	"github.com/inkvault/inkvault-backend/internal/ledger"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
	"github.com/inkvault/inkvault-backend/pkg/logger"
)

// AdminLedgerReconciliation reports whether a user's balance matches the sum
// of their credits minus their spends. Admin-only diagnostic surface.
func AdminLedgerReconciliation(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "userId"))
		if raw == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		report, err := svc.Reconcile(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
