package dto

// TextRequest carries the text for TTS and local NLP analysis
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// TTSResponse is returned when synthesis produced an audio file
type TTSResponse struct {
	Success  bool   `json:"success"`
	AudioURL string `json:"audioUrl"`
}

// AnalyzeRequest is forwarded to the ML service
type AnalyzeRequest struct {
	Text       string `json:"text" binding:"required"`
	Source     string `json:"source,omitempty"`
	SaveToFile bool   `json:"saveToFile,omitempty"`
}
