package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive-reader/internal/api/errors"
)

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.WriteField("word", "cat"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestSaver_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	saver := NewSaver(dir)

	c := newContext(multipartRequest(t, "image", "page.PNG", []byte("png-bytes")))
	file, err := saver.Save(c, "image", "image")
	require.NoError(t, err)

	assert.Equal(t, "page.PNG", file.OriginalName)
	assert.Equal(t, int64(len("png-bytes")), file.Size)
	assert.Equal(t, dir, filepath.Dir(file.Path))
	assert.True(t, strings.HasSuffix(file.Path, ".png"))

	data, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaver_SaveUniqueNames(t *testing.T) {
	saver := NewSaver(t.TempDir())

	first, err := saver.Save(newContext(multipartRequest(t, "audio", "a.wav", []byte("1"))), "audio", "audio")
	require.NoError(t, err)
	second, err := saver.Save(newContext(multipartRequest(t, "audio", "a.wav", []byte("2"))), "audio", "audio")
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}

func TestSaver_MissingFile(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir)

	tests := []struct {
		name    string
		req     *http.Request
		label   string
		message string
	}{
		{
			name:    "no file part",
			req:     multipartRequest(t, "", "", nil),
			label:   "image",
			message: "No image file uploaded.",
		},
		{
			name:    "wrong field",
			req:     multipartRequest(t, "file", "a.wav", []byte("x")),
			label:   "audio",
			message: "No audio file uploaded.",
		},
		{
			name:    "json body",
			req:     httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{}`)),
			label:   "image",
			message: "No image file uploaded.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := "image"
			if tt.label == "audio" {
				field = "audio"
			}
			file, err := saver.Save(newContext(tt.req), field, tt.label)
			assert.Nil(t, file)

			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, errors.KindBadRequest, apiErr.Kind)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaver_BodyOverLimit(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir)

	req := multipartRequest(t, "image", "page.png", bytes.Repeat([]byte("x"), 4096))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 1<<10)

	file, err := saver.Save(newContext(req), "image", "image")
	assert.Nil(t, file)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.KindPayloadTooLarge, apiErr.Kind)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.HTTPStatus())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
