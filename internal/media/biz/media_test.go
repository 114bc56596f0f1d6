package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	translationbiz "github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
)

var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	mp3Data = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 32)...)
)

type stubTranscriber struct {
	got *AudioInput
	out *Transcript
	err error
}

func (s *stubTranscriber) Transcribe(_ context.Context, in *AudioInput) (*Transcript, error) {
	s.got = in
	return s.out, s.err
}

type stubReader struct {
	calls int
	text  string
	err   error
}

func (s *stubReader) ExtractText(context.Context, *ImageInput) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubTranslator struct {
	got *translationbiz.TranslateRequest
}

func (s *stubTranslator) TranslateText(_ context.Context, req *translationbiz.TranslateRequest) (*translationbiz.TranslationResult, error) {
	s.got = req
	return &translationbiz.TranslationResult{TranslatedText: "[" + req.Target + "] " + req.Text}, nil
}

func TestTranscribeWithTranslation(t *testing.T) {
	tr := &stubTranscriber{out: &Transcript{Text: " hello world ", Language: "english", Duration: 1.2}}
	tl := &stubTranslator{}
	uc := NewMediaUseCase(tr, &stubReader{}, tl, Limits{}, logger.Nop())

	res, err := uc.Transcribe(context.Background(), &TranscribeRequest{Data: mp3Data, TargetLang: "es-MX"})
	require.NoError(t, err)

	assert.Equal(t, "audio/mpeg", res.MIMEType)
	assert.Equal(t, "audio.mp3", tr.got.Filename)
	assert.Equal(t, "hello world", res.Text)
	assert.Equal(t, "en", res.Language, "language reported by name is resolved to a code")
	assert.Equal(t, "[es] hello world", res.TranslatedText)
	assert.Equal(t, "es", res.TargetLang)
	assert.Equal(t, "en", tl.got.Source)
}

func TestTranscribeValidation(t *testing.T) {
	tr := &stubTranscriber{out: &Transcript{}}
	uc := NewMediaUseCase(tr, &stubReader{}, &stubTranslator{}, Limits{MaxAudioSize: 16}, logger.Nop())

	_, err := uc.Transcribe(context.Background(), &TranscribeRequest{})
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = uc.Transcribe(context.Background(), &TranscribeRequest{Data: mp3Data})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, apperrors.ErrMediaFileTooLarge, ErrorCode(err))

	_, err = uc.Transcribe(context.Background(), &TranscribeRequest{Data: []byte("plain text")})
	assert.ErrorIs(t, err, ErrInvalidType)
	assert.Equal(t, apperrors.ErrMediaInvalidType, ErrorCode(err))

	_, err = uc.Transcribe(context.Background(), &TranscribeRequest{Data: mp3Data[:12], TargetLang: "klingon"})
	assert.ErrorIs(t, err, translationbiz.ErrInvalidLanguage)

	assert.Nil(t, tr.got, "validation happens before any remote call")
}

func TestTranscribeRemoteFailure(t *testing.T) {
	tr := &stubTranscriber{err: errors.New("upstream 500")}
	uc := NewMediaUseCase(tr, nil, nil, Limits{}, logger.Nop())

	_, err := uc.Transcribe(context.Background(), &TranscribeRequest{Data: mp3Data, Language: "fr"})
	assert.ErrorIs(t, err, ErrTranscribeFailed)
	assert.Equal(t, apperrors.ErrMediaTranscribeFailed, ErrorCode(err))
	assert.Equal(t, "fr", tr.got.Language)
}

func TestExtractText(t *testing.T) {
	rd := &stubReader{text: "STOP\n"}
	tl := &stubTranslator{}
	uc := NewMediaUseCase(nil, rd, tl, Limits{}, logger.Nop())

	res, err := uc.ExtractText(context.Background(), &OCRRequest{Data: pngData})
	require.NoError(t, err)
	assert.Equal(t, "STOP", res.Text)
	assert.Equal(t, "image/png", res.MIMEType)
	assert.Empty(t, res.TranslatedText)

	res, err = uc.ExtractText(context.Background(), &OCRRequest{Data: pngData, SourceLang: "en", TargetLang: "de"})
	require.NoError(t, err)
	assert.Equal(t, "[de] STOP", res.TranslatedText)

	_, err = uc.ExtractText(context.Background(), &OCRRequest{Data: pngData, TargetLang: "de"})
	assert.ErrorIs(t, err, translationbiz.ErrInvalidLanguage, "translation needs a source language")
	assert.Equal(t, 2, rd.calls)
}

func TestExtractTextRejectsAudio(t *testing.T) {
	uc := NewMediaUseCase(nil, &stubReader{}, nil, Limits{}, logger.Nop())
	_, err := uc.ExtractText(context.Background(), &OCRRequest{Data: mp3Data})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestToAppError(t *testing.T) {
	var appErr *apperrors.AppError
	require.True(t, errors.As(ToAppError(ErrExtractFailed), &appErr))
	assert.Equal(t, apperrors.ErrMediaExtractTextFailed, appErr.Code)
	assert.Nil(t, ToAppError(nil))
}

type unavailable struct{}

func (unavailable) Transcribe(context.Context, *AudioInput) (*Transcript, error) {
	return nil, ErrUnavailable
}

func TestTranscribeUnavailable(t *testing.T) {
	uc := NewMediaUseCase(unavailable{}, nil, nil, Limits{}, logger.Nop())
	_, err := uc.Transcribe(context.Background(), &TranscribeRequest{Data: mp3Data})
	assert.ErrorIs(t, err, ErrTranscribeFailed)
	assert.Equal(t, apperrors.ErrServiceUnavail, ErrorCode(err))
}
