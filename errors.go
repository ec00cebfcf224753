/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Seednode/hotseat/hotseat"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// gameLogger hands the verbose logger to the game registry.
func gameLogger(cfg *Config) hotseat.Logger {
	return func(format string, args ...any) {
		logf(cfg, format, args...)
	}
}

// errorCode names the kind of a game error for clients that want to branch
// on it without parsing the message.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, hotseat.ErrValidation):
		return "validation"
	case errors.Is(err, hotseat.ErrPermission):
		return "permission"
	case errors.Is(err, hotseat.ErrInvalidPhase):
		return "invalid_phase"
	case errors.Is(err, hotseat.ErrConflict):
		return "conflict"
	case errors.Is(err, hotseat.ErrNotFound):
		return "not_found"
	case errors.Is(err, errRateLimited):
		return "rate_limited"
	default:
		return "bad_request"
	}
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body{height:100%;margin:0;font-family:sans-serif;}`)
	htmlBody.WriteString(`body{display:flex;flex-direction:column;align-items:center;justify-content:center;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body>%s</body></html>", body))

	return htmlBody.String()
}
