package model

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}
