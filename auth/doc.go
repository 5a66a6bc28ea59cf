// Package auth guards the HTTP surface with bearer tokens.
//
// The top-level package holds the contract middleware depends on
// (TokenValidator) and the configuration section (server.auth). Tokens are
// HMAC-signed JWTs handled by auth/jwt; verified claims travel in the
// request context through auth/authctx.
//
//	server:
//	  auth:
//	    jwt_secret: "change-me"
//	    issuer: "whisper-mcp"
//
// An empty jwt_secret leaves the surface open, which matches a deployment
// behind a trusted gateway.
package auth
