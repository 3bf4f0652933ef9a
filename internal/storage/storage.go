// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package storage implements the inscription sink collaborator: image
// payloads go to a content-addressed file layout, text payloads append
// to a JSON-lines journal, and unknown payloads are discarded.
package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"

	"ordscan/internal/inscription"
)

// ErrUnsupportedContent is returned if StoreInscription is ever handed a
// Content variant neither this package nor the data model knows about.
var ErrUnsupportedContent = errors.New("storage: unsupported content variant")

// Sink persists Inscription values per §4.7: images as content-addressed
// files, text as JSON-lines log entries, unknown content discarded.
type Sink struct {
	images *imageStore
	text   *textStore
}

// New constructs a Sink writing images under imageDir and appending text
// entries to textLogPath, creating both locations if missing.
func New(imageDir, textLogPath string) (*Sink, error) {
	images, err := newImageStore(imageDir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	text, err := newTextStore(textLogPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &Sink{images: images, text: text}, nil
}

// StoreInscription dispatches ins to the collaborator matching its
// content variant, per §4.7's three cases.
func (s *Sink) StoreInscription(ins inscription.Inscription) error {
	switch content := ins.Content.(type) {
	case inscription.Image:
		return s.images.store(ins.TxID, content.MimeType, content.Data)
	case inscription.Text:
		return s.text.append(ins.TxID, content.Value)
	case inscription.Unknown:
		return nil
	default:
		return ErrUnsupportedContent
	}
}

// Close releases any open file handles held by the sink's collaborators.
func (s *Sink) Close() error {
	return s.text.close()
}

// imageStore writes each image payload to its own content-addressed
// file: <dir>/<txid>-<hex(blake3(data))>.bin, body = mime + "\n" + data.
type imageStore struct {
	dir string
}

func newImageStore(dir string) (*imageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &imageStore{dir: dir}, nil
}

func (s *imageStore) store(txid, mimeType string, data []byte) error {
	sum := blake3.Sum256(data)
	name := fmt.Sprintf("%s-%s.bin", txid, hex.EncodeToString(sum[:]))
	path := filepath.Join(s.dir, name)

	body := append([]byte(mimeType+"\n"), data...)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write image %s: %w", path, err)
	}
	return nil
}

// load re-reads an image previously written by store, splitting its
// leading "mime\n" header from the raw payload. It is unexported and used
// by this package's tests to verify a stored file byte-for-byte.
func (s *imageStore) load(txid, hexHash string) (string, []byte, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("%s-%s.bin", txid, hexHash))
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read image %s: %w", path, err)
	}

	for i, b := range raw {
		if b == '\n' {
			return string(raw[:i]), raw[i+1:], nil
		}
	}
	return "", nil, fmt.Errorf("malformed image file %s: no mime header", path)
}
