package entity

// Principal is an authenticated actor derived from a verified credential.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
