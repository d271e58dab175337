package report

import (
	_ "embed"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed assets/record.css
var recordCSS string

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTMLFragment converts Markdown to an HTML body fragment.
func HTMLFragment(markdown string) (string, error) {
	var out strings.Builder
	if err := md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return applyPrintLayoutHooks(out.String()), nil
}

// HTMLDocument wraps the converted Markdown in a standalone, styled page.
func HTMLDocument(markdown, title string) (string, error) {
	body, err := HTMLFragment(markdown)
	if err != nil {
		return "", err
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + recordCSS + "</style></head><body><main class='record'>" + body + "</main></body></html>", nil
}

var reCaseForAction = regexp.MustCompile(`(?i)<h2([^>]*)>\s*The Case for Action\s*</h2>`)

// applyPrintLayoutHooks starts the commercial half of the record on its own
// page.
func applyPrintLayoutHooks(contentHTML string) string {
	return reCaseForAction.ReplaceAllString(contentHTML, `<h2$1 data-page-break-before="true">The Case for Action</h2>`)
}
