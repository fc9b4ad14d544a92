package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrecipe/backend/internal/testhelpers"
)

func multipartRequest(t *testing.T, token, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "alice")
	token := env.login(user)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, token, "file", "dish.PNG", []byte("\x89PNG fake image")))
	var out map[string]string
	decode(t, w, http.StatusOK, &out)
	assert.True(t, strings.HasPrefix(out["url"], "/media/uploads/"), out["url"])
	assert.Contains(t, out["url"], user.ID.String())
	assert.True(t, strings.HasSuffix(out["url"], ".png"))
}

func TestUploadRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(testhelpers.CreateUser(t, env.db, "alice"))

	var fields map[string][]string
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, token, "", "", nil))
	decode(t, w, http.StatusBadRequest, &fields)
	assert.Equal(t, []string{"no file was submitted"}, fields["file"])

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, token, "file", "notes.txt", []byte("hello")))
	decode(t, w, http.StatusBadRequest, &fields)
	assert.Contains(t, fields["file"][0], "unsupported file type")

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, "", "file", "dish.png", []byte("x")))
	decode(t, w, http.StatusUnauthorized, nil)
}
