package voice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/janani-health/janani/core/file_store"
	"github.com/janani-health/janani/pkg/schema"
)

// SpeechToText 语音转写能力
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, language schema.Language) (string, error)
}

// TextToSpeech 语音合成能力
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, language schema.Language) ([]byte, error)
}

// Synthesizer turns finished answers into stored audio clips. It sits on the
// lowest-priority rung of the degradation ladder above logging: any failure
// here leaves the text answer intact.
type Synthesizer struct {
	tts TextToSpeech
}

// NewSynthesizer 创建语音合成服务。tts may be nil when voice is not
// configured; SynthesizeAnswer then reports voice as unavailable.
func NewSynthesizer(tts TextToSpeech) *Synthesizer {
	return &Synthesizer{tts: tts}
}

// SynthesizeAnswer renders text to audio, stores the clip and returns its
// URL. The clip is keyed by user so a profile purge can remove it.
func (s *Synthesizer) SynthesizeAnswer(ctx context.Context, userID, text string, language schema.Language) (string, error) {
	if s.tts == nil {
		return "", fmt.Errorf("text-to-speech is not configured")
	}

	audio, err := s.tts.Synthesize(ctx, text, language)
	if err != nil {
		return "", err
	}

	fileName := uuid.New().String() + ".mp3"

	switch file_store.GetStorageType() {
	case file_store.StorageTypeMinio:
		objectKey, err := file_store.SaveAudioToMinio(ctx, userID, fileName, audio)
		if err != nil {
			return "", err
		}
		return file_store.AudioObjectURL(objectKey), nil
	default:
		localPath, err := file_store.SaveAudioToLocal(ctx, userID, fileName, audio)
		if err != nil {
			return "", err
		}
		return "/" + localPath, nil
	}
}

// PurgeUserAudio removes every stored clip for one user.
func PurgeUserAudio(ctx context.Context, userID string) error {
	switch file_store.GetStorageType() {
	case file_store.StorageTypeMinio:
		return file_store.DeleteMinioAudio(ctx, userID)
	default:
		return file_store.DeleteLocalAudio(ctx, userID)
	}
}
