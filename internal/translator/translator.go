package translator

import (
	"context"
	"fmt"
)

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

const systemInstructionFormat = "You are a precise translator. Translate the input text to %s accurately, maintaining the original meaning and tone. Do not add any explanations or additional context. Do not ask questions. ONLY translate."

// SystemInstruction constrains the model to a bare translation into targetLanguage.
func SystemInstruction(targetLanguage string) string {
	return fmt.Sprintf(systemInstructionFormat, targetLanguage)
}
