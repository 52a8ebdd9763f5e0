package main

import "adaptive-reader/cmd/reader/cmd"

// @title Adaptive Reading Assistant API
// @version 0.1.0
// @description Relays OCR, speech and NLP requests to external scripts and proxies the ML service.
// @BasePath /api
func main() {
	cmd.Execute()
}
