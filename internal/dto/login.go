package dto

type LoginRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}
