package service

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/ai-translator-backend/internal/media/biz"
	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeMedia struct{}

func (fakeMedia) Transcribe(_ context.Context, in *biz.AudioInput) (*biz.Transcript, error) {
	return &biz.Transcript{Text: "transcribed " + in.Filename, Language: "english"}, nil
}

func (fakeMedia) ExtractText(context.Context, *biz.ImageInput) (string, error) {
	return "sign text", nil
}

func newTestRouter() *gin.Engine {
	uc := biz.NewMediaUseCase(fakeMedia{}, fakeMedia{}, nil, biz.Limits{MaxImageSize: 64, MaxAudioSize: 64}, logger.Nop())
	r := gin.New()
	NewMediaService(uc, logger.Nop()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func upload(t *testing.T, r http.Handler, path, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, _ = fw.Write(data)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) response.Response {
	t.Helper()
	resp := response.Response{Data: data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestTranscribe(t *testing.T) {
	r := newTestRouter()
	w := upload(t, r, "/api/v1/media/transcribe", "voice.mp3", []byte("ID3\x03\x00\x00\x00\x00\x00\x00"), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res biz.MediaResult
	decode(t, w, &res)
	assert.Equal(t, "transcribed voice.mp3", res.Text)
	assert.Equal(t, "en", res.Language)
	assert.Equal(t, "audio/mpeg", res.MIMEType)
}

func TestExtractText(t *testing.T) {
	r := newTestRouter()
	w := upload(t, r, "/api/v1/media/ocr", "sign.png", []byte("\x89PNG\r\n\x1a\n"), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res biz.MediaResult
	decode(t, w, &res)
	assert.Equal(t, "sign text", res.Text)
}

func TestUploadErrors(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name     string
		path     string
		filename string
		data     []byte
		code     int
	}{
		{"missing file", "/api/v1/media/ocr", "", nil, apperrors.ErrInvalidParams},
		{"too large", "/api/v1/media/ocr", "big.png", bytes.Repeat([]byte("x"), 100), apperrors.ErrMediaFileTooLarge},
		{"wrong type", "/api/v1/media/transcribe", "notes.txt", []byte("just some text"), apperrors.ErrMediaInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := upload(t, r, tt.path, tt.filename, tt.data, nil)
			assert.Equal(t, tt.code, decode(t, w, nil).Code)
		})
	}
}
