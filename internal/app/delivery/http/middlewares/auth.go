package middlewares

import (
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/exceptions"
	"claimdesk-service/internal/pkg/utils"
	"context"
	"net/http"
	"strings"
)

// Authenticate requires a bearer token issued by the console gateway and puts
// the operator ID on the request context for the audit trail.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(constvars.HeaderAuth)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimPrefix(authHeader, constvars.BearerPrefix)
		operatorID, err := utils.ParseJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_OPERATOR_ID_KEY, operatorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
