package main

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/policy"
)

func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			app.invalidToken(w, "Not authenticated")
			return
		}
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			app.invalidToken(w, "invalid Authorization header")
			return
		}
		p, err := app.auth.Authenticate(parts[1])
		if err != nil {
			app.errorResponse(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), principalContextKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, fmt.Errorf("%v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (app *application) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")

		origin := r.Header.Get("Origin")
		trusted := app.config.CORS.TrustedOrigins
		if origin != "" && (slices.Contains(trusted, "*") || slices.Contains(trusted, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			// preflight request
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, GET, POST, PUT, DELETE")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type principalContext string

const principalContextKey principalContext = "principalContextKey"

// getPrincipalFromRequest returns the zero Principal when the request did not
// pass requireAuthenticatedUser; the task service rejects it.
func getPrincipalFromRequest(r *http.Request) policy.Principal {
	p, _ := r.Context().Value(principalContextKey).(policy.Principal)
	return p
}
