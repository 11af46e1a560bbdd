// Package gloss renders a plain-prose translation of the final poem for
// the session report, using the Google Cloud Translation API. A gloss is
// decoration for readers: failures here never affect refinement.
package gloss

import (
	"context"
	"fmt"
	"os"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// Config carries the Google Cloud settings.
type Config struct {
	Credentials string `mapstructure:"credentials" json:"credentials"`
	ProjectID   string `mapstructure:"project_id" json:"project_id"`
}

// Glosser translates Arabic verse into a reader language.
type Glosser struct {
	cfg Config
}

// New creates a Glosser.
func New(cfg Config) *Glosser {
	return &Glosser{cfg: cfg}
}

// Gloss translates verses into targetLang, one entry per verse, preserving
// order.
func (g *Glosser) Gloss(ctx context.Context, verses []string, targetLang string) ([]string, error) {
	if len(verses) == 0 {
		return nil, nil
	}

	if g.cfg.Credentials != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", g.cfg.Credentials)
	}

	targetTag, err := language.Parse(targetLang)
	if err != nil {
		return nil, fmt.Errorf("invalid gloss language: %w", err)
	}

	opts := []option.ClientOption{}
	if g.cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(g.cfg.Credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	defer client.Close()

	translations, err := client.Translate(ctx, verses, targetTag, &translate.Options{
		Source: language.Arabic,
	})
	if err != nil {
		return nil, fmt.Errorf("gloss translation failed: %w", err)
	}
	if len(translations) != len(verses) {
		return nil, fmt.Errorf("gloss returned %d result(s) for %d verse(s)", len(translations), len(verses))
	}

	out := make([]string, len(translations))
	for i, t := range translations {
		out[i] = t.Text
	}
	return out, nil
}
