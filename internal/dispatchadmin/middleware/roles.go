package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/pkg/logging"
)

const roleClaimName = "role"

// RoleGuard rejects requests whose verified token does not carry one of
// the allowed role claims. Authorization itself lives in the identity
// provider; this only reads the claim it issued.
type RoleGuard struct {
	logger  *logging.ZapLogger
	allowed map[data.Role]struct{}
}

func NewRoleGuard(logger *logging.ZapLogger, roles ...data.Role) *RoleGuard {
	allowed := make(map[data.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return &RoleGuard{
		logger:  logger,
		allowed: allowed,
	}
}

func (rg *RoleGuard) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			rg.logger.DebugCtx(r.Context(), "no token claims in context", zap.Error(err))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		roleClaim, ok := claims[roleClaimName].(string)
		if !ok || roleClaim == "" {
			rg.logger.DebugCtx(r.Context(), "token carries no role claim")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if _, ok := rg.allowed[data.Role(roleClaim)]; !ok {
			rg.logger.DebugCtx(r.Context(), "role not allowed", zap.String("role", roleClaim))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
