// Package insights produces a short AI-written buying summary for a
// product from its details and review aggregate. The panel is strictly
// optional: no API key means no panel, never an error page.
package insights

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"trolley/internal/api"
	"trolley/internal/logging"
)

// Generator produces text for a prompt. Satisfied by the Gemini client;
// tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service generates and caches per-product insight blurbs.
type Service struct {
	gen   Generator
	sleep func(time.Duration)

	mu    sync.Mutex
	cache map[int64]string
}

// NewService wires the insight service over a text generator. A nil
// generator disables the panel.
func NewService(gen Generator) *Service {
	return &Service{
		gen:   gen,
		sleep: time.Sleep,
		cache: map[int64]string{},
	}
}

// Enabled reports whether a generator is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.gen != nil
}

// For returns the insight blurb for a product, generating it on first
// use. Retries transient failures with exponential backoff: 1s, 2s, 4s.
func (s *Service) For(ctx context.Context, product api.Product, stats api.ReviewStats) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("insights not configured")
	}

	s.mu.Lock()
	if cached, ok := s.cache[product.ID]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	prompt := buildPrompt(product, stats)

	const maxRetries = 2
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			logging.Insights("Retrying insight generation for product %d (attempt %d)", product.ID, i+1)
			s.sleep(time.Duration(1<<uint(i-1)) * time.Second)
		}
		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			lastErr = fmt.Errorf("empty response from model")
			continue
		}
		s.mu.Lock()
		s.cache[product.ID] = text
		s.mu.Unlock()
		return text, nil
	}
	return "", fmt.Errorf("insight generation failed after %d attempts: %w", maxRetries+1, lastErr)
}

// Invalidate drops a cached blurb, forcing regeneration on next view.
func (s *Service) Invalidate(productID int64) {
	s.mu.Lock()
	delete(s.cache, productID)
	s.mu.Unlock()
}

func buildPrompt(product api.Product, stats api.ReviewStats) string {
	var b strings.Builder
	b.WriteString("You are a concise shopping assistant. In at most three sentences, ")
	b.WriteString("tell a shopper what to know before buying this product. ")
	b.WriteString("Mention the rating only if reviews exist. Plain text, no markdown.\n\n")
	fmt.Fprintf(&b, "Product: %s\n", product.Name)
	fmt.Fprintf(&b, "Category: %s\n", product.Category)
	fmt.Fprintf(&b, "Price: $%.2f\n", product.Price)
	if product.OnSale && product.OriginalPrice > product.Price {
		fmt.Fprintf(&b, "On sale, was $%.2f\n", product.OriginalPrice)
	}
	if product.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", product.Description)
	}
	if stats.ReviewCount > 0 {
		fmt.Fprintf(&b, "Rating: %.1f/5 from %d reviews\n", stats.AverageRating, stats.ReviewCount)
	}
	return b.String()
}
