// Package authgate resolves bearer credentials into an authenticated
// Principal before any business logic touches a request.
//
// The TokenValidator interface decouples the rest of the service from the
// identity provider; JWTValidator is the default implementation for
// HS256-signed tokens carrying the user id in "sub" and the tenant id in
// "tid". Middleware wires a validator in front of an http.Handler and
// injects the Principal into the request context, where handlers read it
// back with MustFromContext.
package authgate
