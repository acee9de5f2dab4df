package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trolley/internal/api"
)

type fakeGenerator struct {
	calls   int
	failFor int
	text    string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.calls <= f.failFor {
		return "", errors.New("model overloaded")
	}
	return f.text, nil
}

func newTestService(gen Generator) *Service {
	svc := NewService(gen)
	svc.sleep = func(time.Duration) {}
	return svc
}

func TestForCachesPerProduct(t *testing.T) {
	gen := &fakeGenerator{text: "Well reviewed and fairly priced."}
	svc := newTestService(gen)
	product := api.Product{ID: 10, Name: "Kettle", Price: 25}

	text, err := svc.For(context.Background(), product, api.ReviewStats{})
	require.NoError(t, err)
	assert.Equal(t, "Well reviewed and fairly priced.", text)

	_, err = svc.For(context.Background(), product, api.ReviewStats{})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls, "second view must hit the cache")
}

func TestForRetriesTransientFailures(t *testing.T) {
	gen := &fakeGenerator{failFor: 2, text: "Solid pick."}
	svc := newTestService(gen)

	text, err := svc.For(context.Background(), api.Product{ID: 10}, api.ReviewStats{})
	require.NoError(t, err)
	assert.Equal(t, "Solid pick.", text)
	assert.Equal(t, 3, gen.calls)
}

func TestForGivesUpAfterThreeAttempts(t *testing.T) {
	gen := &fakeGenerator{failFor: 10}
	svc := newTestService(gen)

	_, err := svc.For(context.Background(), api.Product{ID: 10}, api.ReviewStats{})
	require.Error(t, err)
	assert.Equal(t, 3, gen.calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestInvalidateForcesRegeneration(t *testing.T) {
	gen := &fakeGenerator{text: "First take."}
	svc := newTestService(gen)
	product := api.Product{ID: 10}

	_, err := svc.For(context.Background(), product, api.ReviewStats{})
	require.NoError(t, err)

	svc.Invalidate(product.ID)
	_, err = svc.For(context.Background(), product, api.ReviewStats{})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestDisabledService(t *testing.T) {
	var nilSvc *Service
	assert.False(t, nilSvc.Enabled())

	svc := NewService(nil)
	assert.False(t, svc.Enabled())
	_, err := svc.For(context.Background(), api.Product{ID: 10}, api.ReviewStats{})
	require.Error(t, err)
}

func TestBuildPromptIncludesSignal(t *testing.T) {
	product := api.Product{
		ID:            10,
		Name:          "Kettle",
		Category:      "Kitchen",
		Price:         20,
		OriginalPrice: 25,
		OnSale:        true,
		Description:   "Boils fast.",
	}
	prompt := buildPrompt(product, api.ReviewStats{AverageRating: 4.5, ReviewCount: 12})

	assert.Contains(t, prompt, "Kettle")
	assert.Contains(t, prompt, "$20.00")
	assert.Contains(t, prompt, "was $25.00")
	assert.Contains(t, prompt, "4.5/5 from 12 reviews")

	// No reviews, no rating line.
	bare := buildPrompt(api.Product{ID: 11, Name: "Mug"}, api.ReviewStats{})
	assert.NotContains(t, bare, "Rating:")
}
