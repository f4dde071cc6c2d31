// Package llm holds the remote model clients. A Client is constructed once at
// startup and handed to every component that talks to the model.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"pdfqa/internal/models"
)

// ErrEmptyResponse is returned when the model answers with no content.
var ErrEmptyResponse = errors.New("model returned no content")

// Client is the remote generative model. Both call shapes return the model's
// text verbatim.
type Client interface {
	// Generate sends a text-only prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateWithImage sends one image followed by a text prompt.
	GenerateWithImage(ctx context.Context, prompt string, image models.PageImage) (string, error)
}

// DataURI encodes an image as a base64 data URI.
func DataURI(image models.PageImage) string {
	mime := image.MimeType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image.Data)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
