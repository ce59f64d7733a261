package dto

type LoginInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult is what a successful login hands back to the handler. The
// refresh token never appears in the JSON body; the handler moves it into
// an http-only cookie.
type LoginResult struct {
	User         UserOutput
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	SessionID    string
}
