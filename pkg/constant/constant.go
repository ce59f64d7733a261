package constant

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	DefaultRole = RoleCustomer

	// TokenTypeRefresh is the token_type claim carried by refresh tokens.
	TokenTypeRefresh = "refresh"

	// RefreshCookieName is the http-only cookie holding the refresh token.
	RefreshCookieName = "refreshToken"

	// TokenIssuer and TokenAudience are pinned on every issued token and
	// required during verification.
	TokenIssuer   = "chick-n-needs"
	TokenAudience = "chick-n-needs-users"
)
