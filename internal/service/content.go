// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlSanitizer strips scripts, event handlers and other unsafe markup
// from user-generated content while keeping formatting tags.
var htmlSanitizer = bluemonday.UGCPolicy()

// markdown renders post bodies. Raw HTML passes through the renderer and is
// sanitized afterwards.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// SanitizeContent cleans markup in a post body. Plain text without tags is
// returned unchanged so that quotes and ampersands are not entity-encoded.
func SanitizeContent(content string) string {
	if !strings.ContainsRune(content, '<') {
		return content
	}
	return htmlSanitizer.Sanitize(content)
}

// RenderContent converts a Markdown (or HTML) post body to sanitized HTML.
func RenderContent(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}
