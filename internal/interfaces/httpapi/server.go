package httpapi

import (
	"net/http"

	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

// RouterConfig carries the transport settings NewRouter needs.
type RouterConfig struct {
	CORSAllowedOrigins []string
	LoginLimiter       *ClientRateLimiter
}

func NewRouter(handler *Handler, auth Authenticator, cfg RouterConfig, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerAuthRoutes(mux, handler, cfg.LoginLimiter)
	registerPublicRoutes(mux, handler)
	registerAuthorizedRoutes(mux, handler, auth)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
