// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ocr wraps the Tesseract engine for image text recognition.
//
// A Tesseract client is an expensive, stateful resource: the Engine
// keeps at most one live client per process, created lazily on first
// use and serialized with a mutex so concurrent requests queue behind
// it instead of spawning more workers.
//
// OCR is best-effort enrichment. Every failure degrades to an empty
// string; a file is still indexed by metadata when recognition fails.
package ocr

import (
	"log"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages is the recognition language set used when none is
// configured.
var DefaultLanguages = []string{"eng", "fra"}

// Engine is a lazily-initialized, language-configurable text recognizer.
type Engine struct {
	mu        sync.Mutex
	client    *gosseract.Client
	languages []string
}

// New creates an Engine bound to the given ordered language set. The
// underlying Tesseract client is not created until the first call to
// ExtractText.
func New(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Engine{languages: languages}
}

// ExtractText runs OCR on the image at imagePath and returns the
// whitespace-normalized recognized text. Missing files and engine
// errors are logged and yield "".
func (e *Engine) ExtractText(imagePath string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := os.Stat(imagePath); err != nil {
		log.Printf("ocr: cannot stat %s: %v", imagePath, err)
		return ""
	}

	client, err := e.clientLocked()
	if err != nil {
		log.Printf("ocr: init failed: %v", err)
		return ""
	}

	if err := client.SetImage(imagePath); err != nil {
		log.Printf("ocr: set image %s: %v", imagePath, err)
		return ""
	}
	text, err := client.Text()
	if err != nil {
		log.Printf("ocr: recognize %s: %v", imagePath, err)
		return ""
	}
	return cleanText(text)
}

// clientLocked returns the live client, creating it on first use.
// Caller must hold e.mu.
func (e *Engine) clientLocked() (*gosseract.Client, error) {
	if e.client != nil {
		return e.client, nil
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(e.languages...); err != nil {
		client.Close()
		return nil, err
	}
	e.client = client
	return e.client, nil
}

// SetLanguages replaces the recognition language set. The live client,
// if any, is torn down and recreated lazily on the next call.
func (e *Engine) SetLanguages(languages []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	e.languages = append([]string(nil), languages...)

	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
}

// Languages returns a copy of the configured language set.
func (e *Engine) Languages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.languages...)
}

// AvailableLanguages lists the language packs installed for the local
// Tesseract engine.
func AvailableLanguages() ([]string, error) {
	return gosseract.GetAvailableLanguages()
}

// Close tears down the live client, if any.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

var reRuns = regexp.MustCompile(`\s+`)

// cleanText collapses newlines and whitespace runs to single spaces.
func cleanText(text string) string {
	return strings.TrimSpace(reRuns.ReplaceAllString(text, " "))
}
