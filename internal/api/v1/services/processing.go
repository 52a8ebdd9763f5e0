package services

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"adaptive-reader/internal/api/errors"
	"adaptive-reader/internal/api/upload"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/config"
	"adaptive-reader/internal/relay"
)

// endpointMessages are the client facing messages per relay failure kind.
type endpointMessages struct {
	label string
	spawn string
	exit  string
	parse string
}

var messages = map[string]endpointMessages{
	EndpointOCR: {
		label: "OCR",
		spawn: "Failed to start OCR script.",
		exit:  "OCR Processing Failed on Server.",
		parse: "Failed to parse OCR results from Python.",
	},
	EndpointTTS: {
		label: "TTS",
		spawn: "Failed to start TTS script.",
		exit:  "Failed to run TTS script.",
		parse: "Failed to parse TTS results.",
	},
	EndpointSTT: {
		label: "STT",
		spawn: "Failed to start STT analysis script.",
		exit:  "Failed to run STT analysis script.",
		parse: "Failed to parse STT results.",
	},
	EndpointNLP: {
		label: "NLP",
		spawn: "Failed to start NLP analysis script.",
		exit:  "Failed to run NLP analysis script.",
		parse: "Failed to parse NLP results.",
	},
}

const defaultTTSFailure = "TTS synthesis failed."

// ProcessingServiceImpl implements ProcessingService on top of the relay
type ProcessingServiceImpl struct {
	executor       Executor
	scripts        config.ScriptsConfig
	audioURLPrefix string
	history        HistoryService
	logger         *zap.Logger
}

// NewProcessingService creates a new processing service
func NewProcessingService(
	executor Executor,
	scripts config.ScriptsConfig,
	paths config.PathsConfig,
	history HistoryService,
	logger *zap.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		executor:       executor,
		scripts:        scripts,
		audioURLPrefix: paths.AudioURLPrefix,
		history:        history,
		logger:         logger,
	}
}

// ExtractText runs the OCR script on an uploaded image
func (s *ProcessingServiceImpl) ExtractText(ctx context.Context, image *upload.File) (any, error) {
	return s.run(ctx, relay.Invocation{
		Endpoint:       EndpointOCR,
		Script:         s.scripts.OCR,
		Args:           []string{image.Path},
		TempFile:       image.Path,
		DefaultSuccess: true,
	}, nil)
}

// Synthesize runs the speech script in synthesis mode and maps the produced
// file name to its public URL
func (s *ProcessingServiceImpl) Synthesize(ctx context.Context, text string) (*dto.TTSResponse, error) {
	payload, err := s.run(ctx, relay.Invocation{
		Endpoint: EndpointTTS,
		Script:   s.scripts.Speech,
		Args:     []string{text},
	}, s.interpretSynthesis)
	if err != nil {
		return nil, err
	}
	return payload.(*dto.TTSResponse), nil
}

func (s *ProcessingServiceImpl) interpretSynthesis(payload any) (any, *errors.APIError) {
	result, _ := payload.(map[string]any)
	if ok, _ := result["success"].(bool); !ok {
		message, _ := result["error"].(string)
		if message == "" {
			message = defaultTTSFailure
		}
		return nil, errors.NewScriptFailureError(message)
	}

	filename, _ := result["audio_filename"].(string)
	if filename == "" {
		return nil, errors.NewScriptFailureError("TTS script reported success without an audio file.")
	}
	return &dto.TTSResponse{
		Success:  true,
		AudioURL: path.Join(s.audioURLPrefix, path.Base(filename)),
	}, nil
}

// Recognize runs the speech script in recognition mode against a target word
func (s *ProcessingServiceImpl) Recognize(ctx context.Context, audio *upload.File, word string) (any, error) {
	return s.run(ctx, relay.Invocation{
		Endpoint: EndpointSTT,
		Script:   s.scripts.Speech,
		Args:     []string{"stt_mode", audio.Path, word},
		TempFile: audio.Path,
	}, nil)
}

// AnalyzeText runs the local NLP script
func (s *ProcessingServiceImpl) AnalyzeText(ctx context.Context, text string) (any, error) {
	return s.run(ctx, relay.Invocation{
		Endpoint: EndpointNLP,
		Script:   s.scripts.NLP,
		Args:     []string{text},
	}, nil)
}

// run executes inv, optionally post-processes the payload and records the
// final outcome in history.
func (s *ProcessingServiceImpl) run(
	ctx context.Context,
	inv relay.Invocation,
	interpret func(any) (any, *errors.APIError),
) (any, error) {
	out := s.executor.Execute(ctx, inv)

	var (
		payload any
		apiErr  *errors.APIError
	)
	switch {
	case out.Err != nil:
		apiErr = s.toAPIError(inv.Endpoint, out.Err)
	case interpret != nil:
		payload, apiErr = interpret(out.Payload)
	default:
		payload = out.Payload
	}

	s.history.Record(ctx, inv.Endpoint, out, apiErr)

	if apiErr != nil {
		return nil, apiErr
	}
	return payload, nil
}

// toAPIError maps a relay failure to the error returned to the client
func (s *ProcessingServiceImpl) toAPIError(endpoint string, err error) *errors.APIError {
	msgs, ok := messages[endpoint]
	if !ok {
		msgs = endpointMessages{label: endpoint, spawn: "Failed to start script.", exit: "Script failed.", parse: "Failed to parse script output."}
	}

	re, ok := relay.AsError(err)
	if !ok {
		s.logger.Error("Unexpected relay error", zap.String("endpoint", endpoint), zap.Error(err))
		return errors.NewInternalError("Internal server error")
	}

	switch re.Kind {
	case relay.KindSpawn:
		return errors.NewProcessSpawnError(msgs.spawn, re.Detail)
	case relay.KindExit:
		return errors.NewProcessExitError(msgs.exit, re.Detail)
	case relay.KindParse:
		return errors.NewOutputParseError(msgs.parse, re.RawOutput)
	case relay.KindTimeout:
		return errors.NewTimeoutError(fmt.Sprintf("%s Timeout: script took too long (>%s).", msgs.label, s.executor.Timeout()))
	case relay.KindSaturated:
		return errors.NewServiceUnavailableError(fmt.Sprintf("%s is busy, try again later.", msgs.label))
	case relay.KindCanceled:
		return errors.NewCanceledError("Request canceled by client.")
	default:
		return errors.NewInternalError("Internal server error")
	}
}
