// Copyright (c) 2026 Minbar. All rights reserved.

package middleware

import (
	"net/http"
	"strings"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/constants"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/respond"
	"github.com/minbarhq/minbar/internal/platform/sec"
)

// SessionResolver resolves the session cookie of a request into claims.
//
// It returns (nil, nil) when the request carries no valid session; errors are
// reserved for infrastructure failures.
type SessionResolver interface {
	ResolveSession(request *http.Request) (*sec.AuthClaims, error)
}

// TokenVerifier verifies a bearer access token.
type TokenVerifier interface {
	VerifyBearer(request *http.Request, token string) (*sec.AuthClaims, error)
}

// Authenticate resolves the caller's identity and attaches it to the context.
//
// # Flow
//  1. 'Authorization: Bearer <token>' is verified by verifier (401 on failure,
//     401 when verifier is nil).
//  2. Otherwise the session cookie is resolved by resolver.
//  3. Without either the request proceeds anonymously; route guards decide.
//
// # Parameters
//   - resolver: Session cookie resolver.
//   - verifier: Bearer token verifier, nil when bearer tokens are disabled.
func Authenticate(resolver SessionResolver, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var (
				claims *sec.AuthClaims
				err    error
			)

			if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
				scheme, token, found := strings.Cut(header, " ")
				if !found || strings.ToLower(scheme) != constants.AuthorizationBearer || token == "" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}
				if verifier == nil {
					respond.Error(writer, request, apperr.Unauthorized("Bearer tokens are not accepted"))
					return
				}
				claims, err = verifier.VerifyBearer(request, token)
				if err != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}
			} else {
				claims, err = resolver.ResolveSession(request)
				if err != nil {
					respond.Error(writer, request, err)
					return
				}
			}

			if claims == nil {
				next.ServeHTTP(writer, request)
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose role is below role in the hierarchy.
//
// It implies [RequireAuth]: anonymous callers get 401, insufficient roles get 403.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return requirePredicate(func(userRole sec.UserRole) bool {
		return userRole.AtLeast(role)
	})
}

// RequireAnyRole blocks requests whose role is not one of roles.
//
// Unlike [RequireRole] this is plain set membership, with no hierarchy.
func RequireAnyRole(roles ...sec.UserRole) func(http.Handler) http.Handler {
	return requirePredicate(func(userRole sec.UserRole) bool {
		return sec.HasAnyRole(userRole, roles...)
	})
}

func requirePredicate(allowed func(sec.UserRole) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !allowed(sec.UserRole(claims.Role)) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
