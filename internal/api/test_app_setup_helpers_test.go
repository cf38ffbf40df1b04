package api

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dosalabel/internal/db"
	"github.com/terraincognita07/dosalabel/internal/i18n"
	"github.com/terraincognita07/dosalabel/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecretKey        = "test-secret-key-with-at-least-32-chars"
	testOperatorEmail    = "operator@example.com"
	testOperatorPassword = "correct horse battery"
)

var testNow = time.Date(2024, time.May, 12, 9, 30, 0, 0, time.UTC)

type testAppOptions struct {
	withOperator bool
	clinic       services.ClinicIdentity
}

type testApp struct {
	app     *fiber.App
	handler *Handler
	store   *db.MemoryStateStore
}

func newTestApp(t *testing.T, options testAppOptions) testApp {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve test file path: runtime.Caller failed")
	}
	internalDir := filepath.Dir(filepath.Dir(thisFile))

	manager, err := i18n.NewManager("bn", filepath.Join(internalDir, "i18n", "locales"))
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	logger := log.New(io.Discard)
	store := db.NewMemoryStateStore()
	labels := services.NewLabelService(store, services.LabelServiceOptions{
		Location: time.UTC,
		Logger:   logger,
		Now:      func() time.Time { return testNow },
	})
	dictation := services.NewDictationService(labels, services.DictationOptions{
		SilenceTimeout: time.Minute,
		Logger:         logger,
	})

	operators := services.NewOperatorAuthService("", "")
	if options.withOperator {
		hash, err := bcrypt.GenerateFromPassword([]byte(testOperatorPassword), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash operator password: %v", err)
		}
		operators = services.NewOperatorAuthService(testOperatorEmail, string(hash))
	}

	handler, err := NewHandler(HandlerOptions{
		Labels:       labels,
		Dictation:    dictation,
		Operators:    operators,
		SecretKey:    testSecretKey,
		TemplatesDir: filepath.Join(internalDir, "templates"),
		Location:     time.UTC,
		I18n:         manager,
		Logger:       logger,
		Clinic:       options.clinic,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	return testApp{app: app, handler: handler, store: store}
}

func (env testApp) do(t *testing.T, request *http.Request, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	for _, cookie := range cookies {
		if cookie != nil {
			request.AddCookie(cookie)
		}
	}
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	return response
}

// newSession performs a first request and returns the issued session cookie.
func (env testApp) newSession(t *testing.T) *http.Cookie {
	t.Helper()

	response := env.do(t, jsonRequest(http.MethodGet, "/api/label", ""))
	defer response.Body.Close()
	cookie := responseCookie(response.Cookies(), sessionCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie on first request")
	}
	return cookie
}

func jsonRequest(method string, path string, body string) *http.Request {
	request, _ := http.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Accept", "application/json")
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	return request
}

func formRequest(method string, path string, body string) *http.Request {
	request, _ := http.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(body)
}

func decodeJSON[T any](t *testing.T, response *http.Response) T {
	t.Helper()
	defer response.Body.Close()

	var payload T
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode json response: %v", err)
	}
	return payload
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	code, _ := decodeJSON[map[string]any](t, response)["error"].(string)
	return code
}

func assertStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, string(body))
	}
}
