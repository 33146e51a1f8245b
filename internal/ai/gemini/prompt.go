package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/ares/internal/utils"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// caller holds what every prompt-based adapter shares: the generator and the
// preview logging around each request.
type caller struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func newCaller(generator contentGenerator, logger *zap.Logger, maxLogLength int) caller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return caller{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

// call sends the prompt and decodes the JSON object in the response into out.
func (c caller) call(ctx context.Context, op, system, message string, out any) (string, error) {
	if c.generator == nil {
		return "", fmt.Errorf("%s: generator is not configured", op)
	}

	c.logger.Debug("gemini generate content request",
		zap.String("operation", op),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return "", err
	}

	c.logger.Debug("gemini generate content response",
		zap.String("operation", op),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	if err := decodeJSON(raw, out); err != nil {
		return raw, fmt.Errorf("parse gemini %s response: %w", op, err)
	}

	return raw, nil
}

func decodeJSON(raw string, out any) error {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
