package relay

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(backendURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewClient(backendURL, zerolog.Nop()))
	h.RegisterRoutes(r.Group("/"))
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGeneratePromotionRequiresPrompt(t *testing.T) {
	r := newTestRouter("")

	w := postJSON(r, "/api/generate-promotion", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestGeneratePromotionMockWhenUnconfigured(t *testing.T) {
	r := newTestRouter("")

	w := postJSON(r, "/api/generate-promotion", map[string]any{"prompt": "oferta de grúas"})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	promo, ok := body["promotion"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, promo["titulo"])
}

func TestGeneratePromotionForwardsUpstreamBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/api/generate-promotion", req.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"promotion":{"titulo":"Remoto"}}`))
	}))
	defer upstream.Close()

	r := newTestRouter(upstream.URL)
	w := postJSON(r, "/api/generate-promotion", map[string]any{"prompt": "x"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Remoto")
}

func TestSendMessageForwardsToWhatsAppRoute(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		_ = json.NewDecoder(req.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer upstream.Close()

	r := newTestRouter(upstream.URL)
	w := postJSON(r, "/api/send-message", map[string]any{"phone": "+56911112222", "message": "hola"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/send-whatsapp-message", gotPath)
	assert.Equal(t, "+56911112222", gotBody["phone"])
}

func TestSendMessageSurfacesUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`whatsapp session expired`))
	}))
	defer upstream.Close()

	r := newTestRouter(upstream.URL)
	w := postJSON(r, "/api/send-message", map[string]any{"phone": "p", "message": "m"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to send message", body["error"])
	assert.Contains(t, body["details"], "whatsapp session expired")
}

func TestSendMessageTransportFailure(t *testing.T) {
	// a closed server gives a connection error, not an HTTP status
	upstream := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	upstream.Close()

	r := newTestRouter(upstream.URL)
	w := postJSON(r, "/api/send-message", map[string]any{"phone": "p", "message": "m"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "UPSTREAM_ERROR")
}

func TestSendPromotionUnconfiguredReportsPerPhone(t *testing.T) {
	r := newTestRouter("")

	w := postJSON(r, "/api/send-promotion", map[string]any{
		"phones": []string{"+561", "+562", "+563"},
		"titulo": "Oferta",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Results []struct {
			Phone  string `json:"phone"`
			Status string `json:"status"`
		} `json:"results"`
		Summary struct {
			Total  int `json:"total"`
			Sent   int `json:"sent"`
			Failed int `json:"failed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.Len(t, body.Results, 3)
	assert.Equal(t, "error", body.Results[0].Status)
	assert.Equal(t, 3, body.Summary.Total)
	assert.Equal(t, 0, body.Summary.Sent)
	assert.Equal(t, 3, body.Summary.Failed)
}

func TestSendPromotionRequiresPhones(t *testing.T) {
	r := newTestRouter("")

	w := postJSON(r, "/api/send-promotion", map[string]any{"titulo": "Oferta"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageReEncodesMultipart(t *testing.T) {
	var gotFolder, gotFile string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(1<<20))
		gotFolder = req.FormValue("folder")
		f, header, err := req.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFile = header.Filename
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"url":"https://cdn/x.png"}`))
	}))
	defer upstream.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "foto.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	r := newTestRouter(upstream.URL)
	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uploads", gotFolder, "default folder applies when none is sent")
	assert.Equal(t, "foto.png", gotFile)
	assert.True(t, strings.Contains(w.Body.String(), "https://cdn/x.png"))
}

func TestUploadImageRequiresFile(t *testing.T) {
	r := newTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
