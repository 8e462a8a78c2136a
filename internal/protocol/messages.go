// Package protocol defines the JSON envelopes exchanged over the websocket.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	TypeAudio       = "audio"
	TypeTranslation = "translation"
	TypeError       = "error"

	FormatWAV = "wav"
)

type AudioEnvelope struct {
	Type   string `json:"type"`
	Data   string `json:"data"`
	Format string `json:"format"`
}

func NewAudioEnvelope(blob []byte) AudioEnvelope {
	return AudioEnvelope{
		Type:   TypeAudio,
		Data:   base64.StdEncoding.EncodeToString(blob),
		Format: FormatWAV,
	}
}

// DecodeAudio returns the container bytes carried in Data.
func (e AudioEnvelope) DecodeAudio() ([]byte, error) {
	return base64.StdEncoding.DecodeString(e.Data)
}

type TranscriptResult struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

func NewTranscriptResult(text, translation string) TranscriptResult {
	return TranscriptResult{Type: TypeTranslation, Text: text, Translation: translation}
}

type ErrorResult struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorResult(message string) ErrorResult {
	return ErrorResult{Type: TypeError, Message: message}
}

// Message is any envelope decoded by Parse. Only the fields matching Type are meaningful.
type Message struct {
	Type        string `json:"type"`
	Data        string `json:"data,omitempty"`
	Format      string `json:"format,omitempty"`
	Text        string `json:"text,omitempty"`
	Translation string `json:"translation,omitempty"`
	Message     string `json:"message,omitempty"`
}

func Parse(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("decode envelope: %w", err)
	}
	return msg, nil
}

func (m Message) AsAudio() AudioEnvelope {
	return AudioEnvelope{Type: m.Type, Data: m.Data, Format: m.Format}
}

func (m Message) AsTranscript() TranscriptResult {
	return TranscriptResult{Type: m.Type, Text: m.Text, Translation: m.Translation}
}

func (m Message) AsError() ErrorResult {
	return ErrorResult{Type: m.Type, Message: m.Message}
}
