package stt

import "context"

// Provider transcribes a recorded candidate answer. Voice input is a thin
// convenience on top of the text dialogue; transcription failures surface to
// the caller and never touch session state.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}
