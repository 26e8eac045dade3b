package models

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserClaim struct {
	ID     int64  `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}
