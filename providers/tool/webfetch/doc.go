// Package webfetch provides a tool that downloads a web page and returns it as
// Markdown, converted with html-to-markdown.
package webfetch
