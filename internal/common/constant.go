package common

// AuthorizationHeaderName carries the bearer access token on protected routes.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme expected in AuthorizationHeaderName.
const BearerPrefix = "Bearer"
