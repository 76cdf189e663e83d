package dto

type RegisterRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}
