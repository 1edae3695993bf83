package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"project/backend/config"
	"project/backend/models"
	"project/backend/realtime"
	"project/backend/routes"
	"project/backend/storage"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	app         *fiber.App
	db          *gorm.DB
	cfg         *config.Config
	bus         *realtime.MemoryBus
	transcriber *stubTranscriber
)

// stubTranscriber stands in for the external transcription service.
type stubTranscriber struct {
	segments []models.TranscriptSegment
	err      error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, videoURL string) ([]models.TranscriptSegment, error) {
	return s.segments, s.err
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	os.Exit(code)
}

func setup() {
	cfg = &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
		BaseURL:    "http://localhost:8080",
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}
	if err := utils.Migrate(db); err != nil {
		panic(err)
	}

	uploadDir, err := os.MkdirTemp("", "uploads")
	if err != nil {
		panic(err)
	}
	files, err := storage.NewFileStore(uploadDir, cfg.BaseURL)
	if err != nil {
		panic(err)
	}

	bus = realtime.NewMemoryBus()
	transcriber = &stubTranscriber{}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg, bus, files, transcriber, utils.InitLogger())
}

// doJSON fires a JSON request at the test app.
func doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		assert.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&result)
	assert.NoError(t, err)
	return result
}

func decodeList(t *testing.T, resp *http.Response) []interface{} {
	t.Helper()
	var result []interface{}
	err := json.NewDecoder(resp.Body).Decode(&result)
	assert.NoError(t, err)
	return result
}

// register creates an account and returns its token.
func register(t *testing.T, username, role string) string {
	t.Helper()

	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"role":     role,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	token, _ := result["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

// createCourse creates a course through the tutor API and returns its id.
func createCourse(t *testing.T, token, title, status string) uint {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	assert.NoError(t, w.WriteField("title", title))
	assert.NoError(t, w.WriteField("price", "4900"))
	assert.NoError(t, w.WriteField("level", "beginner"))
	assert.NoError(t, w.WriteField("category", "programming"))
	assert.NoError(t, w.WriteField("tags", "go,backend"))
	if status != "" {
		assert.NoError(t, w.WriteField("status", status))
	}
	assert.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/tutor/courses", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	course, _ := result["course"].(map[string]interface{})
	assert.NotNil(t, course)
	return uint(course["ID"].(float64))
}

// addContent appends a content item and returns its id.
func addContent(t *testing.T, token string, courseID uint, title string) uint {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	assert.NoError(t, w.WriteField("title", title))
	assert.NoError(t, w.WriteField("file_url", "http://localhost:8080/uploads/"+title+".mp4"))
	assert.NoError(t, w.WriteField("duration", "10:00"))
	assert.NoError(t, w.Close())

	req := httptest.NewRequest("POST", coursePath(courseID, "/contents"), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	content, _ := result["content"].(map[string]interface{})
	assert.NotNil(t, content)
	return uint(content["ID"].(float64))
}

func coursePath(courseID uint, suffix string) string {
	return "/api/tutor/courses/" + itoa(courseID) + suffix
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
