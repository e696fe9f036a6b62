/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/Seednode/feudbox/content"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func logErr(err error) {
	log.Printf("%s | ERROR: %v", time.Now().Format(logDate), err)
}

// logContent reports the outcome of a load. Fallbacks are expected whenever
// no document is present, so they only show up with --verbose.
func logContent(cfg *Config, source string, c content.Content, err error) {
	switch {
	case err == nil:
		logf(cfg, "CONTENT: Loaded %d rounds, %d prompts and %d sudden death items from %s",
			len(c.Rounds), len(c.FastMoneyPrompts), len(c.SuddenDeath), source)
	case errors.Is(err, content.ErrFallback), errors.Is(err, content.ErrInvalidDocument):
		logf(cfg, "CONTENT: Using defaults for %s (%v)", strings.Join(c.Fallbacks, ", "), err)
	default:
		logErr(err)
	}
}

func newPage(cfg *Config, title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon(cfg))
	htmlBody.WriteString(fmt.Sprintf(`<link rel="stylesheet" href="%s/assets/feud/app.css">`, cfg.prefix))
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	htmlBody.WriteString(fmt.Sprintf("<body class=\"page\"><a href=\"%s/\">%s</a></body></html>", cfg.prefix, html.EscapeString(body)))

	return htmlBody.String()
}
