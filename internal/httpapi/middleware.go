package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kongyujesse/portfolio-backend/internal/auth"
	"github.com/kongyujesse/portfolio-backend/internal/ratelimit"
)

type claimsKey struct{}

var limitMessages = map[string]string{
	"general":   "Too many requests from this IP, please try again later.",
	"login":     "Too many authentication attempts, please try again later.",
	"messages":  "Message limit exceeded, please try again later.",
	"subscribe": "Too many subscription attempts, please try again later.",
}

func (handlers *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		token, ok := bearerToken(request)
		if !ok {
			writeMessage(writer, http.StatusUnauthorized, "No token provided")
			return
		}
		claims, err := handlers.service.Verify(token)
		if err != nil {
			writeMessage(writer, http.StatusUnauthorized, "Token is not valid")
			return
		}
		ctx := context.WithValue(request.Context(), claimsKey{}, claims)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func claimsFrom(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return claims, ok
}

func bearerToken(request *http.Request) (string, bool) {
	header := strings.TrimSpace(request.Header.Get("Authorization"))
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}

func (handlers *Handlers) rateLimit(scope string, limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !limiter.Allow(request.Context(), requestIP(request)) {
				handlers.metrics.RecordRateLimited(scope)
				writeMessage(writer, http.StatusTooManyRequests, limitMessages[scope])
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// cors answers preflight requests itself. Requests without an Origin header
// pass through untouched.
func (handlers *Handlers) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		origin := request.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(writer, request)
			return
		}
		if !handlers.origins[origin] {
			handlers.logger.Warn("blocked by cors", "origin", origin)
			writeMessage(writer, http.StatusForbidden, "Not allowed by CORS")
			return
		}

		headers := writer.Header()
		headers.Set("Access-Control-Allow-Origin", origin)
		headers.Set("Access-Control-Allow-Credentials", "true")
		headers.Add("Vary", "Origin")
		if request.Method == http.MethodOptions {
			headers.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			headers.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			writer.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (handlers *Handlers) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		started := time.Now()
		wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
		next.ServeHTTP(wrapped, request)

		route := ""
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			route = routeContext.RoutePattern()
		}
		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}
		handlers.metrics.RecordHTTPRequest(route, request.Method, status, time.Since(started))
	})
}
