package dto

type SendCodeRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

type SendCodeResponse struct {
	Success          bool  `json:"success"`
	ExpiresInSeconds int64 `json:"expiresInSeconds"`
}
