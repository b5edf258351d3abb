package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denysvitali/ftptube-go/internal/models"
	"github.com/denysvitali/ftptube-go/pkg/config"
	"github.com/denysvitali/ftptube-go/pkg/ftpclient"
	"github.com/denysvitali/ftptube-go/pkg/server"
	"github.com/denysvitali/ftptube-go/pkg/session"
	"github.com/denysvitali/ftptube-go/pkg/youtube"
)

// fakeFTP is an in-memory FTP server keyed by absolute path
type fakeFTP struct {
	mu      sync.Mutex
	dirs    map[string][]models.FileEntry
	content map[string][]byte
}

func newFakeFTP() *fakeFTP {
	return &fakeFTP{
		dirs: map[string][]models.FileEntry{
			"/": {
				{Name: "notes.txt", Size: 5, Type: models.FileTypeFile},
				{Name: "image.png", Size: 4, Type: models.FileTypeFile},
				{Name: "pub", Type: models.FileTypeDirectory},
			},
			"/pub": {},
		},
		content: map[string][]byte{
			"/notes.txt": []byte("hello"),
			"/image.png": {0x89, 'P', 'N', 'G'},
		},
	}
}

func (f *fakeFTP) Dial(_ context.Context, creds models.Credentials) (ftpclient.Conn, error) {
	if creds.Password != "secret" {
		return nil, fmt.Errorf("530 login incorrect")
	}
	return &fakeFTPConn{srv: f}, nil
}

type fakeFTPConn struct {
	srv *fakeFTP
}

func (c *fakeFTPConn) List(path string) ([]models.FileEntry, error) {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	entries, ok := c.srv.dirs[path]
	if !ok {
		return nil, fmt.Errorf("550 %s: no such directory", path)
	}
	return append([]models.FileEntry(nil), entries...), nil
}

func (c *fakeFTPConn) Delete(path string) error {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	delete(c.srv.content, path)
	dir, name := splitPath(path)
	kept := c.srv.dirs[dir][:0]
	for _, e := range c.srv.dirs[dir] {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	c.srv.dirs[dir] = kept
	return nil
}

func (c *fakeFTPConn) Retrieve(path string) ([]byte, error) {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	data, ok := c.srv.content[path]
	if !ok {
		return nil, fmt.Errorf("550 %s: no such file", path)
	}
	return data, nil
}

func (c *fakeFTPConn) Store(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	c.srv.content[path] = data
	dir, name := splitPath(path)
	c.srv.dirs[dir] = append(c.srv.dirs[dir], models.FileEntry{Name: name, Size: int64(len(data)), Type: models.FileTypeFile})
	return nil
}

func (c *fakeFTPConn) Close() error { return nil }

func splitPath(path string) (string, string) {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "/", path[i+1:]
	}
	return path[:i], path[i+1:]
}

// fakeYouTube serves canned Data API answers
type fakeYouTube struct {
	channels  map[string]*youtube.ChannelInfo
	latest    map[string]*youtube.Video
	durations map[string]string
	comments  map[string][]models.Comment
}

func newFakeYouTube() *fakeYouTube {
	return &fakeYouTube{
		channels: map[string]*youtube.ChannelInfo{
			"UC1": {Title: "Channel One", Avatar: "https://img/1.jpg"},
		},
		latest: map[string]*youtube.Video{
			"UC1": {VideoID: "v1", Title: "Short one", PublishedAt: "2024-01-01T00:00:00Z"},
			"UC2": {VideoID: "v2", Title: "Long one", PublishedAt: "2024-01-02T00:00:00Z"},
		},
		durations: map[string]string{"v1": "PT45S", "v2": "PT10M"},
		comments: map[string][]models.Comment{
			"v1": {{Author: "alice", Text: "first"}},
			"s1": {{Author: "bob", Text: "nice"}},
		},
	}
}

func (f *fakeYouTube) SearchVideos(_ context.Context, query string, _ int) ([]youtube.VideoResult, error) {
	return []youtube.VideoResult{{VideoID: "s1", ChannelID: "UC1", Title: query + " video", ChannelTitle: "Channel One"}}, nil
}

func (f *fakeYouTube) Channel(_ context.Context, channelID string) (*youtube.ChannelInfo, error) {
	info, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, models.ErrNotFound)
	}
	return info, nil
}

func (f *fakeYouTube) LatestVideo(_ context.Context, channelID string) (*youtube.Video, error) {
	video, ok := f.latest[channelID]
	if !ok {
		return nil, fmt.Errorf("no videos for channel %s: %w", channelID, models.ErrNotFound)
	}
	return video, nil
}

func (f *fakeYouTube) VideoDuration(_ context.Context, videoID string) (string, error) {
	return f.durations[videoID], nil
}

func (f *fakeYouTube) Comments(_ context.Context, videoID string, _ int) ([]models.Comment, error) {
	comments := f.comments[videoID]
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			CookieMaxAge:   300,
			MaxUploadBytes: 1 << 20,
		},
		Session: config.SessionConfig{
			Backend:       config.BackendMemory,
			TTL:           time.Hour,
			SweepInterval: time.Minute,
		},
		YouTube: config.YouTubeConfig{
			CommentLimit:   20,
			MaxConcurrency: 4,
		},
		Metrics: config.MetricsConfig{
			Enabled: true,
		},
		Telemetry: config.TelemetryConfig{
			Enabled: false,
		},
	}
}

func setupTestServer(t *testing.T, opts ...server.Option) *server.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetOutput(io.Discard)

	opts = append([]server.Option{
		server.WithStore(session.NewMemoryStore()),
		server.WithDialer(newFakeFTP()),
		server.WithYouTubeSource(newFakeYouTube()),
	}, opts...)

	srv, err := server.New(testConfig(), logger, opts...)
	require.NoError(t, err, "Failed to create server")
	return srv
}

func doJSON(t *testing.T, srv *server.Server, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)
	return rr
}

func connect(t *testing.T, srv *server.Server) string {
	t.Helper()

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/connect", models.ConnectRequest{
		Host: "ftp.example.com", User: "demo", Password: "secret", Port: 21, Path: "/",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error
}

func TestHandleAlive_Success(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/alive", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "Handler returned wrong status code")
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHandleServerInfo_Success(t *testing.T) {
	srv := setupTestServer(t)
	connect(t, srv)

	rr := doJSON(t, srv, http.MethodGet, "/server_info", nil)
	assert.Equal(t, http.StatusOK, rr.Code, "Handler returned wrong status code")

	var resp models.ServerInfoResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "Failed to unmarshal response")

	assert.GreaterOrEqual(t, resp.Uptime, 0.0)
	assert.Equal(t, config.BackendMemory, resp.SessionBackend)
	assert.Equal(t, 1, resp.Sessions)
	assert.GreaterOrEqual(t, resp.Resources.CPUCount, 1)
}

func TestHandleConnect_SetsCookieAndStoresListing(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/connect", models.ConnectRequest{
		Host: "ftp.example.com", User: "demo", Password: "secret", Port: 21, Path: "/",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, server.SessionCookie, cookies[0].Name)
	assert.Equal(t, resp.SessionID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, 300, cookies[0].MaxAge)

	files := doJSON(t, srv, http.MethodGet, "/api/ftp/getfiles/"+resp.SessionID, nil)
	require.Equal(t, http.StatusOK, files.Code)

	var listing models.FilesResponse
	require.NoError(t, json.Unmarshal(files.Body.Bytes(), &listing))
	require.Len(t, listing.Files, 3)
	assert.Equal(t, "notes.txt", listing.Files[0].Name)
	assert.Equal(t, models.FileTypeDirectory, listing.Files[2].Type)
}

func TestHandleConnect_MissingCredentials(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/connect", models.ConnectRequest{Host: "ftp.example.com"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NotEmpty(t, decodeError(t, rr))
}

func TestHandleConnect_InvalidJSON(t *testing.T) {
	srv := setupTestServer(t)

	req, err := http.NewRequest(http.MethodPost, "/api/ftp/connect", strings.NewReader("invalid-json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code, "Handler returned wrong status code for invalid JSON")
}

func TestHandleConnect_LoginFailureIsInternalError(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/connect", models.ConnectRequest{
		Host: "ftp.example.com", User: "demo", Password: "wrong", Port: 21,
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to connect to FTP server", decodeError(t, rr))
}

func TestHandleListFiles_NavigatesAndMintsToken(t *testing.T) {
	srv := setupTestServer(t)
	token := connect(t, srv)

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/listfiles", models.ListFilesRequest{SessionID: token, Path: "pub"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEqual(t, token, resp.SessionID)

	files := doJSON(t, srv, http.MethodGet, "/api/ftp/getfiles/"+resp.SessionID, nil)
	require.Equal(t, http.StatusOK, files.Code)
	assert.JSONEq(t, `{"files":[]}`, files.Body.String())
}

func TestHandleListFiles_UnknownSession(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/listfiles", models.ListFilesRequest{SessionID: "nope", Path: "pub"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid or expired session", decodeError(t, rr))
}

func TestHandleRead_TextFile(t *testing.T) {
	srv := setupTestServer(t)
	token := connect(t, srv)

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/read", models.FileRequest{SessionID: token, FileName: "notes.txt"})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
	assert.Empty(t, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "hello", rr.Body.String())
}

func TestHandleRead_BinaryFile(t *testing.T) {
	srv := setupTestServer(t)
	token := connect(t, srv)

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/read", models.FileRequest{SessionID: token, FileName: "image.png"})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/octet-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="image.png"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rr.Body.Bytes())
}

func TestHandleRead_RejectsTraversal(t *testing.T) {
	srv := setupTestServer(t)
	token := connect(t, srv)

	for _, name := range []string{"../etc/passwd", "a/b.txt", ""} {
		rr := doJSON(t, srv, http.MethodPost, "/api/ftp/read", models.FileRequest{SessionID: token, FileName: name})
		assert.Equal(t, http.StatusBadRequest, rr.Code, "file name %q", name)
	}
}

func TestHandleDelete_RelistsCurrentFolder(t *testing.T) {
	srv := setupTestServer(t)
	token := connect(t, srv)

	rr := doJSON(t, srv, http.MethodPost, "/api/ftp/delete", models.FileRequest{SessionID: token, FileName: "notes.txt"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEqual(t, token, resp.SessionID)

	files := doJSON(t, srv, http.MethodGet, "/api/ftp/getfiles/"+resp.SessionID, nil)
	var listing models.FilesResponse
	require.NoError(t, json.Unmarshal(files.Body.Bytes(), &listing))
	for _, f := range listing.Files {
		assert.NotEqual(t, "notes.txt", f.Name)
	}
}

func TestHandleUpload_StoresFile(t *testing.T) {
	srv := setupTestServer(t)
	token := connect(t, srv)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("sessionId", token))
	part, err := mw.CreateFormFile("file", "upload.md")
	require.NoError(t, err)
	_, err = part.Write([]byte("# title"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/ftp/upload", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	read := doJSON(t, srv, http.MethodPost, "/api/ftp/read", models.FileRequest{SessionID: resp.SessionID, FileName: "upload.md"})
	require.Equal(t, http.StatusOK, read.Code)
	assert.Equal(t, "# title", read.Body.String())
}

func TestHandleUpload_MissingFile(t *testing.T) {
	srv := setupTestServer(t)

	form := url.Values{"sessionId": {"abc"}}
	req, err := http.NewRequest(http.MethodPost, "/api/ftp/upload", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGetFiles_UnknownSession(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/ftp/getfiles/unknown", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSessionGate_RedirectsWithoutCookie(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/files/whatever", nil)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/ftp", rr.Header().Get("Location"))
}

func TestSessionGate_RedirectsNestedPathsWithoutCookie(t *testing.T) {
	srv := setupTestServer(t)

	for _, target := range []string{"/files", "/files/", "/files/a/b"} {
		rr := doJSON(t, srv, http.MethodGet, target, nil)

		assert.Equal(t, http.StatusTemporaryRedirect, rr.Code, target)
		assert.Equal(t, "/ftp", rr.Header().Get("Location"), target)
	}
}

func TestSessionGate_NestedPathWithCookieIsNotFound(t *testing.T) {
	srv := setupTestServer(t)

	req, err := http.NewRequest(http.MethodGet, "/files/a/b", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: server.SessionCookie, Value: "abc"})

	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionGate_AllowsCookie(t *testing.T) {
	srv := setupTestServer(t)
	token := connect(t, srv)

	req, err := http.NewRequest(http.MethodGet, "/files/"+token, nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: server.SessionCookie, Value: token})

	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "notes.txt")
}

func TestSessionGate_CookieWithExpiredSession(t *testing.T) {
	srv := setupTestServer(t)

	req, err := http.NewRequest(http.MethodGet, "/files/stale", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: server.SessionCookie, Value: "stale"})

	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "expired")
}

func TestConnectPage(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/ftp", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/ftp/connect")
}

func TestHandleSearchComments(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/search-comments?query=golang&count=3", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.SearchCommentsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Videos, 1)
	assert.Equal(t, "golang video", resp.Videos[0].Title)
	assert.Equal(t, "nice", resp.Videos[0].Comments[0].Text)
}

func TestHandleSearchComments_MissingQuery(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/search-comments", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleDeepScrape(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/deep-scrape?channelId=UC1", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.DeepScrapeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Channel One", resp.ChannelTitle)
	assert.Equal(t, "v1", resp.VideoID)
	assert.Len(t, resp.Comments, 1)
}

func TestHandleDeepScrape_Errors(t *testing.T) {
	srv := setupTestServer(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodGet, "/api/deep-scrape", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodGet, "/api/deep-scrape?channelId=UC404", nil).Code)
}

func TestHandleShortComments_KeepsOnlyShorts(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/short-comments?channelId=UC1&channelId=UC2&channelId=UC404", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.ShortCommentsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "UC1", resp.Data[0].ChannelID)
	assert.Equal(t, "v1", resp.Data[0].VideoID)
}

func TestHandleShortComments_MissingChannels(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/short-comments", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestYouTubeRoutes_WithoutAPIKey(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv, err := server.New(testConfig(), logger,
		server.WithStore(session.NewMemoryStore()),
		server.WithDialer(newFakeFTP()),
	)
	require.NoError(t, err)

	rr := doJSON(t, srv, http.MethodGet, "/api/deep-scrape?channelId=UC1", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "YouTube integration is not configured", decodeError(t, rr))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupTestServer(t)
	doJSON(t, srv, http.MethodGet, "/alive", nil)

	rr := doJSON(t, srv, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ftptube_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	srv := setupTestServer(t)

	rr := doJSON(t, srv, http.MethodOptions, "/api/ftp/connect", nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLog_OmitsSessionTokens(t *testing.T) {
	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)

	srv, err := server.New(testConfig(), logger,
		server.WithStore(session.NewMemoryStore()),
		server.WithDialer(newFakeFTP()),
		server.WithYouTubeSource(newFakeYouTube()),
	)
	require.NoError(t, err)

	token := connect(t, srv)
	logs.Reset()

	rr := doJSON(t, srv, http.MethodGet, "/api/ftp/getfiles/"+token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Contains(t, logs.String(), "/api/ftp/getfiles/:sessionId")
	assert.NotContains(t, logs.String(), token)
}
