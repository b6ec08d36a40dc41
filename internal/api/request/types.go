package request

// LoginRequest is the request body for POST /api/login
type LoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

// JoinRequest is the request body for POST /api/join
type JoinRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}
