package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backend/middleware"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/catalog"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/forwarder"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/hostresolver"
	gwhttp "github.com/cecil-the-coder/book-cover-gateway/pkg/http"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/providers/openai"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamCall is one request seen by a fake upstream
type upstreamCall struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]interface{}
}

// fakeUpstream is an httptest server that records calls and answers from
// a per-path reply table
type fakeUpstream struct {
	*httptest.Server
	mu      sync.Mutex
	calls   []upstreamCall
	replies map[string]fakeReply
}

type fakeReply struct {
	status int
	body   string
}

func newFakeUpstream(t *testing.T, replies map[string]fakeReply) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{replies: replies}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := upstreamCall{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &call.Body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()

		reply, ok := f.replies[r.URL.Path]
		if !ok {
			reply = fakeReply{status: http.StatusOK, body: `{}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.status)
		_, _ = w.Write([]byte(reply.body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeUpstream) Calls() []upstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upstreamCall(nil), f.calls...)
}

type testGateway struct {
	handler *GatewayHandler
	images  *fakeUpstream
	catalog *fakeUpstream
}

func newTestGateway(t *testing.T, imageReplies, catalogReplies map[string]fakeReply) *testGateway {
	t.Helper()
	images := newFakeUpstream(t, imageReplies)
	cat := newFakeUpstream(t, catalogReplies)

	resolver, err := hostresolver.NewResolver(cat.URL)
	require.NoError(t, err)

	fwd := forwarder.New(
		openai.NewImageProvider(images.URL+"/v1/images/generations", nil, nil),
		catalog.NewClient(nil, nil),
		nil,
	)
	return &testGateway{
		handler: NewGatewayHandler(fwd, resolver, nil),
		images:  images,
		catalog: cat,
	}
}

func imageOK(url string) map[string]fakeReply {
	return map[string]fakeReply{
		"/v1/images/generations": {status: http.StatusOK, body: `{"created":1,"data":[{"url":"` + url + `"}]}`},
	}
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func hostPort(t *testing.T, raw string) (string, string) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Hostname(), u.Port()
}

func coverBody(model string) map[string]interface{} {
	return map[string]interface{}{
		"apiKey":  "sk-test",
		"title":   "등대",
		"content": "폭풍 속의 등대",
		"model":   model,
	}
}

// ==================================================
// Cover generation
// ==================================================

func TestGenerateCover_Success(t *testing.T) {
	gw := newTestGateway(t, imageOK("https://img.example/cover.png"), nil)

	w := doJSON(t, gw.handler.GenerateCover, http.MethodPost, "/api/cover-generator", coverBody("dall-e-3"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://img.example/cover.png", decodeBody(t, w)["imageUrl"])

	imageCalls := gw.images.Calls()
	require.Len(t, imageCalls, 1)
	assert.Equal(t, "Bearer sk-test", imageCalls[0].Header.Get("Authorization"))
	assert.Equal(t, "1024x1792", imageCalls[0].Body["size"])
	assert.Equal(t, "standard", imageCalls[0].Body["quality"])
	assert.Contains(t, imageCalls[0].Body["prompt"], "[폭풍 속의 등대]")

	catalogCalls := gw.catalog.Calls()
	require.Len(t, catalogCalls, 1)
	assert.Equal(t, "/api/v1/image", catalogCalls[0].Path)
	assert.Equal(t, "https://img.example/cover.png", catalogCalls[0].Body["imageUrl"])
	assert.Equal(t, "등대", catalogCalls[0].Body["title"])
}

func TestGenerateCover_DallE2OmitsQuality(t *testing.T) {
	gw := newTestGateway(t, imageOK("https://img.example/a.png"), nil)

	w := doJSON(t, gw.handler.GenerateCover, http.MethodPost, "/api/cover-generator", coverBody("dall-e-2"))
	require.Equal(t, http.StatusOK, w.Code)

	body := gw.images.Calls()[0].Body
	assert.Equal(t, "1024x1024", body["size"])
	_, hasQuality := body["quality"]
	assert.False(t, hasQuality)
}

func TestGenerateCover_SecondaryFailureIgnored(t *testing.T) {
	gw := newTestGateway(t, imageOK("https://img.example/a.png"), map[string]fakeReply{
		"/api/v1/image": {status: http.StatusInternalServerError, body: `{"status":"error","message":"db down"}`},
	})

	w := doJSON(t, gw.handler.GenerateCover, http.MethodPost, "/api/cover-generator", coverBody("dall-e-2"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://img.example/a.png", decodeBody(t, w)["imageUrl"])
}

func TestGenerateCover_SecondaryUnreachableIgnored(t *testing.T) {
	gw := newTestGateway(t, imageOK("https://img.example/a.png"), nil)
	gw.catalog.Close()

	w := doJSON(t, gw.handler.GenerateCover, http.MethodPost, "/api/cover-generator", coverBody("dall-e-2"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://img.example/a.png", decodeBody(t, w)["imageUrl"])
}

func TestGenerateCover_PerRequestBackend(t *testing.T) {
	gw := newTestGateway(t, imageOK("https://img.example/a.png"), nil)
	other := newFakeUpstream(t, nil)
	host, port := hostPort(t, other.URL)

	body := coverBody("dall-e-2")
	body["backendIp"] = host
	body["backendPort"] = port

	w := doJSON(t, gw.handler.GenerateCover, http.MethodPost, "/api/cover-generator", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, gw.catalog.Calls(), "default backend must not be used")
	require.Len(t, other.Calls(), 1)
	assert.Equal(t, "/api/v1/image", other.Calls()[0].Path)
}

func TestGenerateCover_Errors(t *testing.T) {
	tests := []struct {
		name        string
		images      map[string]fakeReply
		body        interface{}
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing fields",
			body:        map[string]interface{}{"title": "t"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: types.MsgCoverFieldsRequired,
		},
		{
			name:        "invalid json",
			body:        `{"apiKey":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: types.MsgInvalidJSON,
		},
		{
			name:        "unsupported model",
			body:        coverBody("dall-e-1"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: types.MsgUnsupportedModel,
		},
		{
			name: "invalid backend host",
			body: func() map[string]interface{} {
				b := coverBody("dall-e-3")
				b["backendHost"] = "-bad.example"
				return b
			}(),
			wantStatus:  http.StatusBadRequest,
			wantMessage: types.MsgInvalidBackendAddress,
		},
		{
			name: "invalid backend port",
			body: func() map[string]interface{} {
				b := coverBody("dall-e-3")
				b["backendIp"] = "10.0.0.1"
				b["backendPort"] = "1"
				return b
			}(),
			wantStatus:  http.StatusBadRequest,
			wantMessage: types.MsgInvalidBackendAddress,
		},
		{
			name: "upstream rejects key",
			images: map[string]fakeReply{
				"/v1/images/generations": {status: http.StatusUnauthorized, body: `{"error":{"message":"Incorrect API key provided: sk-te***st.","type":"invalid_request_error"}}`},
			},
			body:        coverBody("dall-e-3"),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Incorrect API key provided: sk-te***st.",
		},
		{
			name: "upstream fails without message",
			images: map[string]fakeReply{
				"/v1/images/generations": {status: http.StatusServiceUnavailable, body: `{}`},
			},
			body:        coverBody("dall-e-3"),
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: types.MsgImageAPIFailed,
		},
		{
			name: "error payload on success status",
			images: map[string]fakeReply{
				"/v1/images/generations": {status: http.StatusOK, body: `{"error":{"message":"content policy violation"}}`},
			},
			body:        coverBody("dall-e-3"),
			wantStatus:  http.StatusBadGateway,
			wantMessage: "content policy violation",
		},
		{
			name: "missing image url",
			images: map[string]fakeReply{
				"/v1/images/generations": {status: http.StatusOK, body: `{"data":[]}`},
			},
			body:        coverBody("dall-e-3"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: types.MsgImageURLMissing,
		},
		{
			name: "unparseable success body",
			images: map[string]fakeReply{
				"/v1/images/generations": {status: http.StatusOK, body: `<html>`},
			},
			body:        coverBody("dall-e-3"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: types.MsgServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(t, tt.images, nil)

			w := doJSON(t, gw.handler.GenerateCover, http.MethodPost, "/api/cover-generator", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decodeBody(t, w)["error"])
			assert.Empty(t, gw.catalog.Calls(), "failed generation must not be saved")
		})
	}
}

// ==================================================
// Signup and login
// ==================================================

func TestSignup(t *testing.T) {
	tests := []struct {
		name        string
		reply       fakeReply
		body        map[string]interface{}
		wantStatus  int
		wantBody    string
		wantMessage string
	}{
		{
			name:       "success passes body through",
			reply:      fakeReply{status: http.StatusOK, body: `{"user_id":12}`},
			body:       map[string]interface{}{"loginId": "reader", "password": "pw"},
			wantStatus: http.StatusOK,
			wantBody:   `{"user_id":12}`,
		},
		{
			name:        "404 gets credential hint",
			reply:       fakeReply{status: http.StatusNotFound, body: ``},
			body:        map[string]interface{}{"loginId": "reader", "password": "pw"},
			wantStatus:  http.StatusNotFound,
			wantMessage: "아이디와 비밀번호를 다시 확인해주세요.",
		},
		{
			name:        "upstream message wins",
			reply:       fakeReply{status: http.StatusConflict, body: `{"status":"error","message":"이미 존재하는 아이디입니다."}`},
			body:        map[string]interface{}{"loginId": "reader", "password": "pw"},
			wantStatus:  http.StatusConflict,
			wantMessage: "이미 존재하는 아이디입니다.",
		},
		{
			name:        "bad address is 400",
			body:        map[string]interface{}{"loginId": "reader", "password": "pw", "backendIp": "300.1.1.1"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "백엔드 주소(IP/호스트/포트)가 올바르지 않습니다.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(t, nil, map[string]fakeReply{"/api/v1/users/signup": tt.reply})

			w := doJSON(t, gw.handler.Signup, http.MethodPost, "/api/signup", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			} else {
				assert.Equal(t, tt.wantMessage, decodeBody(t, w)["message"])
			}
		})
	}
}

func TestSignup_UpstreamPayload(t *testing.T) {
	gw := newTestGateway(t, nil, nil)

	w := doJSON(t, gw.handler.Signup, http.MethodPost, "/api/signup", map[string]interface{}{
		"loginId": "reader", "password": "pw",
	})
	require.Equal(t, http.StatusOK, w.Code)

	calls := gw.catalog.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/v1/users/signup", calls[0].Path)

	userID, present := calls[0].Body["user_id"]
	assert.True(t, present)
	assert.Nil(t, userID)
	assert.Equal(t, "reader", calls[0].Body["login_id"])
	assert.Equal(t, "pw", calls[0].Body["password"])
}

func TestSignup_BackendUnreachable(t *testing.T) {
	gw := newTestGateway(t, nil, nil)
	gw.catalog.Close()

	w := doJSON(t, gw.handler.Signup, http.MethodPost, "/api/signup", map[string]interface{}{
		"loginId": "reader", "password": "pw",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, types.MsgBackendError, decodeBody(t, w)["message"])
}

func TestLogin(t *testing.T) {
	gw := newTestGateway(t, nil, map[string]fakeReply{
		"/api/v1/users/login": {status: http.StatusUnauthorized, body: ``},
	})

	w := doJSON(t, gw.handler.Login, http.MethodPost, "/api/login", map[string]interface{}{
		"loginId": "reader", "password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, types.MsgWrongCredentials, decodeBody(t, w)["message"])
	_, hasUserID := gw.catalog.Calls()[0].Body["user_id"]
	assert.False(t, hasUserID)
}

// ==================================================
// Catalog relays
// ==================================================

func TestListBooks(t *testing.T) {
	gw := newTestGateway(t, nil, map[string]fakeReply{
		"/api/v1/books/list": {status: http.StatusOK, body: `{"data":[{"book_id":1,"title":"t","description":"d"}]}`},
	})

	w := doJSON(t, gw.handler.ListBooks, http.MethodGet, "/api/books", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"book_id":1,"title":"t","description":"d"}]}`, w.Body.String())
	assert.Equal(t, http.MethodGet, gw.catalog.Calls()[0].Method)
}

func TestListBooks_QueryTarget(t *testing.T) {
	gw := newTestGateway(t, nil, nil)
	other := newFakeUpstream(t, map[string]fakeReply{
		"/api/v1/books/list": {status: http.StatusNotFound, body: `{"status":"error","message":"조회할 수 있는 책이 없습니다."}`},
	})
	host, port := hostPort(t, other.URL)

	w := doJSON(t, gw.handler.ListBooks, http.MethodGet, "/api/books?backendIp="+host+"&backendPort="+port, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "조회할 수 있는 책이 없습니다.", decodeBody(t, w)["message"])
	assert.Empty(t, gw.catalog.Calls())
	assert.Len(t, other.Calls(), 1)
}

func TestBookRelays(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(h *GatewayHandler) http.HandlerFunc
		method     string
		wantMethod string
		wantPath   string
	}{
		{"create book", func(h *GatewayHandler) http.HandlerFunc { return h.CreateBook }, http.MethodPost, http.MethodPost, "/api/v1/books"},
		{"update book", func(h *GatewayHandler) http.HandlerFunc { return h.UpdateBook }, http.MethodPut, http.MethodPut, "/api/v1/books/put"},
		{"delete book", func(h *GatewayHandler) http.HandlerFunc { return h.DeleteBook }, http.MethodDelete, http.MethodDelete, "/api/v1/books/delete"},
		{"check book", func(h *GatewayHandler) http.HandlerFunc { return h.CheckBook }, http.MethodPost, http.MethodPost, "/api/v1/books/check"},
		{"update image", func(h *GatewayHandler) http.HandlerFunc { return h.UpdateImage }, http.MethodPut, http.MethodPut, "/api/v1/image/put"},
		{"check image", func(h *GatewayHandler) http.HandlerFunc { return h.CheckImage }, http.MethodPost, http.MethodPost, "/api/v1/image/check"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(t, nil, map[string]fakeReply{
				tt.wantPath: {status: http.StatusOK, body: `{"status":"success"}`},
			})

			w := doJSON(t, tt.handler(gw.handler), tt.method, "/api/x", map[string]interface{}{
				"book_id": "7", "user_id": 3, "title": "t", "description": "d", "image_url": "u",
			})

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, `{"status":"success"}`, w.Body.String())

			calls := gw.catalog.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantMethod, calls[0].Method)
			assert.Equal(t, tt.wantPath, calls[0].Path)
			assert.Equal(t, float64(7), calls[0].Body["book_id"])
		})
	}
}

func TestBookRelay_EmptySuccessBody(t *testing.T) {
	gw := newTestGateway(t, nil, map[string]fakeReply{
		"/api/v1/books/put": {status: http.StatusOK, body: ``},
	})

	w := doJSON(t, gw.handler.UpdateBook, http.MethodPut, "/api/books", map[string]interface{}{"book_id": 1, "user_id": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestBookRelay_Forbidden(t *testing.T) {
	gw := newTestGateway(t, nil, map[string]fakeReply{
		"/api/v1/image/put": {status: http.StatusForbidden, body: `{"status":"error","message":"권한 없음"}`},
	})

	w := doJSON(t, gw.handler.UpdateImage, http.MethodPut, "/api/image", map[string]interface{}{"book_id": 1, "user_id": 2, "image_url": "u"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "권한 없음", decodeBody(t, w)["message"])
}

// ==================================================
// Publish
// ==================================================

func TestPublish_NewBook(t *testing.T) {
	gw := newTestGateway(t, nil, map[string]fakeReply{
		"/api/v1/books": {status: http.StatusOK, body: `{"book_id":55}`},
		"/api/v1/image": {status: http.StatusOK, body: `{"status":"success","image_url":"http://localhost:8080/images/55.png"}`},
	})

	w := doJSON(t, gw.handler.Publish, http.MethodPost, "/api/books/publish", map[string]interface{}{
		"userId": 3, "title": "t", "content": "c", "imageUrl": "https://img.example/a.png",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	calls := gw.catalog.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/api/v1/books", calls[0].Path)
	assert.Equal(t, "c", calls[0].Body["description"])
	assert.Equal(t, "/api/v1/image", calls[1].Path)
	assert.Equal(t, float64(55), calls[1].Body["book_id"])
	assert.Equal(t, "https://img.example/a.png", calls[1].Body["image_url"])
}

func TestPublish_ExistingBook(t *testing.T) {
	gw := newTestGateway(t, nil, nil)

	w := doJSON(t, gw.handler.Publish, http.MethodPost, "/api/books/publish", map[string]interface{}{
		"bookId": "9", "userId": 3, "title": "t", "content": "c", "imageUrl": "u",
	})
	require.Equal(t, http.StatusOK, w.Code)

	calls := gw.catalog.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "/api/v1/books/put", calls[0].Path)
	assert.Equal(t, "/api/v1/image/put", calls[1].Path)
}

func TestPublish_MissingFields(t *testing.T) {
	gw := newTestGateway(t, nil, nil)

	w := doJSON(t, gw.handler.Publish, http.MethodPost, "/api/books/publish", map[string]interface{}{"title": "t"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, types.MsgPublishFieldsRequired, decodeBody(t, w)["message"])
	assert.Empty(t, gw.catalog.Calls())
}

// ==================================================
// Health and metrics
// ==================================================

type staticMetrics gwhttp.ClientMetrics

func (s staticMetrics) Metrics() gwhttp.ClientMetrics { return gwhttp.ClientMetrics(s) }

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]MetricsSource{
		"openai":  staticMetrics{},
		"catalog": staticMetrics{TotalRequests: 3, FailedReqs: 3},
	}, "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = req.WithContext(contextWithRequestID(req, "health-1"))
	w := httptest.NewRecorder()
	h.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool                        `json:"success"`
		RequestID string                      `json:"request_id"`
		Data      backendtypes.HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "health-1", resp.RequestID)
	assert.Equal(t, "1.2.3", resp.Data.Version)
	assert.Equal(t, "idle", resp.Data.Upstreams["openai"].Status)
	assert.Equal(t, "degraded", resp.Data.Upstreams["catalog"].Status)
	assert.Equal(t, int64(3), resp.Data.Upstreams["catalog"].Failures)
}

func TestHealthHandler_StatusAndVersion(t *testing.T) {
	h := NewHealthHandler(nil, "9.9.9")

	w := httptest.NewRecorder()
	h.Status(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, "ok", decodeBody(t, w)["data"].(map[string]interface{})["status"])

	w = httptest.NewRecorder()
	h.Version(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, "9.9.9", decodeBody(t, w)["data"].(map[string]interface{})["version"])
}

func TestMetricsHandler(t *testing.T) {
	h := NewMetricsHandler(map[string]MetricsSource{
		"openai": staticMetrics{TotalRequests: 2, SuccessfulReqs: 2, ResponsesByCode: map[int]int64{200: 2}},
	})

	w := httptest.NewRecorder()
	h.GetUpstreamMetrics(w, httptest.NewRequest(http.MethodGet, "/api/metrics/upstreams", nil))
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	openaiMetrics := data["upstreams"].(map[string]interface{})["openai"].(map[string]interface{})
	assert.Equal(t, float64(2), openaiMetrics["total_requests"])

	w = httptest.NewRecorder()
	h.GetSystemMetrics(w, httptest.NewRequest(http.MethodGet, "/api/metrics/system", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, decodeBody(t, w)["data"].(map[string]interface{})["goroutines"])
}

// ==================================================
// Helpers
// ==================================================

func TestSendError(t *testing.T) {
	w := httptest.NewRecorder()
	SendError(w, httptest.NewRequest(http.MethodGet, "/", nil), "NOT_FOUND", "nope", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]interface{})["code"])
}

func TestSendRaw_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	SendRaw(w, http.StatusNoContent, json.RawMessage(`{"ignored":true}`))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestStatusFor_OutOfRange(t *testing.T) {
	err := types.NewUpstreamError(types.UpstreamCatalog, "x", http.StatusFound, "moved")
	assert.Equal(t, http.StatusBadGateway, statusFor(err))
}

func contextWithRequestID(r *http.Request, id string) context.Context {
	return context.WithValue(r.Context(), middleware.RequestIDKey, id)
}
