package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8", "Host a new game"},
		{"/healthz", http.StatusOK, "text/plain; charset=utf-8", "Ok"},
		{"/version", http.StatusOK, "text/plain; charset=utf-8", "feudbox v" + releaseVersion},
		{"/robots.txt", http.StatusOK, "text/plain; charset=utf-8", "Disallow: /feud/"},
		{"/assets/feud/app.js", http.StatusOK, "text/javascript; charset=utf-8", "WebSocket"},
		{"/assets/feud/app.css", http.StatusOK, "text/css; charset=utf-8", ".tile"},
		{"/assets/feud/missing.js", http.StatusNotFound, "", ""},
		{"/feud/abcd1234", http.StatusOK, "text/html; charset=utf-8", `data-view="host"`},
		{"/feud/abcd1234/board", http.StatusOK, "text/html; charset=utf-8", `data-view="board"`},
		{"/feud/abcd1234/qr", http.StatusOK, "image/png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.contentType != "" && resp.Header.Get("Content-Type") != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", resp.Header.Get("Content-Type"), tt.contentType)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestHostPageSetsCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/feud/cookie01")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == clientCookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("host page should hand out a client cookie")
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		header map[string]string
		want   string
	}{
		{"remote addr", "10.0.0.1:1234", nil, "10.0.0.1:1234"},
		{"cloudflare", "10.0.0.1:1234", map[string]string{"CF-Connecting-IP": "203.0.113.7"}, "203.0.113.7:1234"},
		{"real ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "203.0.113.8"}, "203.0.113.8:1234"},
		{"bogus header", "10.0.0.1:1234", map[string]string{"X-Real-IP": "nope"}, "10.0.0.1:1234"},
		{"ipv6", "[::1]:80", nil, "[::1]:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}

			if got := realIP(r); got != tt.want {
				t.Fatalf("realIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	securityHeaders(&Config{}, w)

	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("Content-Security-Policy = %q", csp)
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("plain http should not send HSTS")
	}

	w = httptest.NewRecorder()
	securityHeaders(&Config{tlsCert: "c", tlsKey: "k"}, w)
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("tls should send HSTS")
	}
}

func TestPageCaching(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path string
		want string
	}{
		{"/feud/cache001", "private, no-store"},
		{"/feud/cache001/board", "public, max-age=3600"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if got := resp.Header.Get("Cache-Control"); got != tt.want {
				t.Fatalf("Cache-Control = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrefixedLinks(t *testing.T) {
	cfg := testConfig()
	cfg.prefix = "/game"
	srv, _ := newTestServerWithConfig(t, cfg)

	resp, err := http.Get(srv.URL + "/game/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`href="/game/favicons/favicon.svg"`,
		`href="/game/favicons/site.webmanifest"`,
		`href="/game/assets/feud/app.css"`,
		`href="/game/feud"`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("home page does not contain %s", want)
		}
	}

	if page := newPage(cfg, "Oops", "Go home"); !strings.Contains(page, `href="/game/favicons/favicon.svg"`) {
		t.Errorf("newPage() does not use the prefix: %s", page)
	}
}

func TestPanelIgnoresHeldKeys(t *testing.T) {
	data, err := assets.ReadFile("assets/feud/app.js")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"ev.repeat", "isContentEditable"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("keyboard handler does not check %s", want)
		}
	}
}
