/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"embed"
	"fmt"
	"html"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/feudbox/content"
	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*
var assets embed.FS

func serveHomePage(cfg *Config, store *content.Store, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		c := store.Current()

		status := "Rounds loaded from " + store.Source()
		switch {
		case !store.Loaded():
			status = "Loading rounds…"
		case c.UsingDefaults():
			status = "Using built-in " + strings.Join(c.Fallbacks, ", ")
		}

		var page strings.Builder

		page.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		page.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		page.WriteString(getFavicon(cfg))
		page.WriteString(fmt.Sprintf(`<link rel="stylesheet" href="%s/assets/feud/app.css">`, cfg.prefix))
		page.WriteString(`<title>feudbox</title></head><body class="page"><main class="home">`)
		page.WriteString(`<h1>FEUDBOX</h1>`)
		page.WriteString(fmt.Sprintf(`<p>%d rounds · %d fast money prompts · %d sudden death questions</p>`,
			len(c.Rounds), min(len(c.FastMoneyPrompts), content.MaxPrompts), len(c.SuddenDeath)))
		page.WriteString(fmt.Sprintf(`<p class="muted">%s</p>`, html.EscapeString(status)))
		page.WriteString(fmt.Sprintf(`<a class="button" href="%s/feud">Host a new game</a>`, cfg.prefix))
		page.WriteString(`</main></body></html>`)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		written, err := w.Write([]byte(page.String()))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Home page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveAssets(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		fname := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, cfg.prefix), "/")

		data, err := assets.ReadFile(fname)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		switch strings.ToLower(filepath.Ext(fname)) {
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".js":
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		case ".mp3":
			w.Header().Set("Content-Type", "audio/mpeg")
		case ".woff2":
			w.Header().Set("Content-Type", "font/woff2")
		}

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := "User-agent: *\nDisallow: /feud/\n"

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
