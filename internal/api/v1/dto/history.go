package dto

import (
	"adaptive-reader/internal/app/model"
)

// HistoryQuery filters the relay invocation history
type HistoryQuery struct {
	Endpoint string `form:"endpoint" binding:"omitempty,oneof=ocr tts stt nlp"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// HistoryResponse lists recorded invocations, newest first
type HistoryResponse struct {
	Records []model.InvocationRecord `json:"records"`
	Count   int                      `json:"count"`
}
