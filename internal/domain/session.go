package domain

// Session is the authenticated caller of one request. Use cases receive it
// explicitly; a nil *Session means the request carried no valid token.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}
