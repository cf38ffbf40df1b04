package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionMiddlewareReplacesTamperedToken(t *testing.T) {
	env := newTestApp(t, testAppOptions{})
	session := env.newSession(t)

	env.do(t, jsonRequest(http.MethodPatch, "/api/label", `{"patientName":"রহিম"}`), session).Body.Close()

	tampered := &http.Cookie{Name: sessionCookieName, Value: session.Value + "x"}
	response := env.do(t, jsonRequest(http.MethodGet, "/api/label", ""), tampered)
	assertStatus(t, response, http.StatusOK)
	fresh := responseCookie(response.Cookies(), sessionCookieName)
	if fresh == nil || fresh.Value == session.Value {
		t.Fatal("expected a new session for a tampered token")
	}
	if payload := decodeJSON[labelResponse](t, response); payload.Label.PatientName != "" {
		t.Fatal("tampered token must not reach the original workspace")
	}
}

func TestParseSessionCookieRejectsForeignSignature(t *testing.T) {
	env := newTestApp(t, testAppOptions{})

	claims := sessionClaims{
		Workspace: "6f1b7a4e-8f3a-4c55-9a55-2b0c5a1d9e01",
		Operator:  true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret-key-of-enough-length"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := env.handler.parseSessionCookie(foreign); err == nil {
		t.Fatal("expected foreign signature to be rejected")
	}

	own, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecretKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	session, err := env.handler.parseSessionCookie(own)
	if err != nil || !session.Operator || session.Workspace != claims.Workspace {
		t.Fatalf("expected valid session, got %#v err=%v", session, err)
	}

	claims.Workspace = "../etc"
	invalid, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecretKey))
	if _, err := env.handler.parseSessionCookie(invalid); err == nil {
		t.Fatal("expected non-uuid workspace to be rejected")
	}
}

func TestLanguageSwitch(t *testing.T) {
	env := newTestApp(t, testAppOptions{})

	request, _ := http.NewRequest(http.MethodGet, "/lang/en?next=/print", nil)
	response := env.do(t, request)
	assertStatus(t, response, http.StatusSeeOther)
	if location := response.Header.Get("Location"); location != "/print" {
		t.Fatalf("unexpected redirect %q", location)
	}
	language := responseCookie(response.Cookies(), languageCookieName)
	if language == nil || language.Value != "en" {
		t.Fatalf("expected en language cookie, got %#v", language)
	}

	page, _ := http.NewRequest(http.MethodGet, "/", nil)
	body := readBody(t, env.do(t, page, language))
	if !strings.Contains(body, "Label editor") || !strings.Contains(body, `<html lang="en">`) {
		t.Fatal("expected english editor page")
	}

	external, _ := http.NewRequest(http.MethodGet, "/lang/bn?next=//evil.example", nil)
	redirect := env.do(t, external)
	if location := redirect.Header.Get("Location"); location != "/" {
		t.Fatalf("expected unsafe next to fall back to /, got %q", location)
	}
}

func TestAcceptLanguageSelectsEnglish(t *testing.T) {
	env := newTestApp(t, testAppOptions{})

	request, _ := http.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Accept-Language", "en-US,en;q=0.8")
	if body := readBody(t, env.do(t, request)); !strings.Contains(body, "Label editor") {
		t.Fatal("expected english page from Accept-Language")
	}
}

func TestLanguageMiddlewareHeadersAndCookie(t *testing.T) {
	env := newTestApp(t, testAppOptions{})

	detected, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	detected.Header.Set("Accept-Language", "en-GB")
	response := env.do(t, detected)
	if got := response.Header.Get("Content-Language"); got != "en" {
		t.Fatalf("Content-Language = %q, want en", got)
	}
	if cookie := responseCookie(response.Cookies(), languageCookieName); cookie != nil {
		t.Fatalf("header detection must not set a cookie, got %#v", cookie)
	}

	stale, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	stale.Header.Set("Accept-Language", "en")
	response = env.do(t, stale, &http.Cookie{Name: languageCookieName, Value: "bn-BD"})
	if got := response.Header.Get("Content-Language"); got != "bn" {
		t.Fatalf("saved choice must win over the header, got %q", got)
	}
	cookie := responseCookie(response.Cookies(), languageCookieName)
	if cookie == nil || cookie.Value != "bn" {
		t.Fatalf("expected the stale cookie to be normalized, got %#v", cookie)
	}
}

func TestNotFoundResponses(t *testing.T) {
	env := newTestApp(t, testAppOptions{})

	api := env.do(t, jsonRequest(http.MethodGet, "/api/missing", ""))
	assertStatus(t, api, http.StatusNotFound)
	if code := readAPIError(t, api); code != "not_found" {
		t.Fatalf("expected not_found, got %q", code)
	}

	request, _ := http.NewRequest(http.MethodGet, "/missing", nil)
	page := env.do(t, request)
	assertStatus(t, page, http.StatusNotFound)
	if body := readBody(t, page); !strings.Contains(body, "পাতা পাওয়া যায়নি") {
		t.Fatal("expected localized not found page")
	}
}
