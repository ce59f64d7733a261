package dto

type RefreshInput struct {
	RefreshToken string `json:"-"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}

type RefreshResult struct {
	AccessToken string
	ExpiresIn   int
	SessionID   string
}
