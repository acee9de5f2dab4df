package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/glamour"

	"trolley/internal/api"
	"trolley/internal/reviews"
)

// ProductPage is the detail view: description, reviews and the optional
// AI insight panel.
type ProductPage struct {
	product api.Product
	summary *reviews.Summary
	insight string

	loadingReviews bool
	loadingInsight bool

	// Review composition
	composing bool
	rating    int
	comment   textinput.Model

	renderer *glamour.TermRenderer
}

// NewProductPage creates the detail page.
func NewProductPage() ProductPage {
	ti := textinput.New()
	ti.Placeholder = "Share your experience..."
	ti.CharLimit = 500
	ti.Width = 60

	return ProductPage{rating: 5, comment: ti}
}

// Show resets the page for a product.
func (p *ProductPage) Show(product api.Product) {
	p.product = product
	p.summary = nil
	p.insight = ""
	p.loadingReviews = true
	p.loadingInsight = false
	p.composing = false
	p.rating = 5
	p.comment.SetValue("")
}

// Product returns the product being shown.
func (p *ProductPage) Product() api.Product {
	return p.product
}

// SetSummary installs the loaded review data.
func (p *ProductPage) SetSummary(summary *reviews.Summary) {
	p.summary = summary
	p.loadingReviews = false
}

// description renders the product description as markdown when a
// renderer is available.
func (p *ProductPage) description(styles Styles, width int) string {
	text := p.product.Description
	if text == "" {
		return styles.Muted.Render("No description.")
	}
	if p.renderer == nil {
		style := "light"
		if styles.Theme.IsDark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width-4),
		)
		if err == nil {
			p.renderer = r
		}
	}
	if p.renderer != nil {
		if out, err := p.renderer.Render(text); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return styles.Body.Render(text)
}

// View renders the detail page.
func (p *ProductPage) View(styles Styles, width int, inWishlist bool, insightsEnabled bool, spinnerView string) string {
	var sb strings.Builder

	title := p.product.Name
	if inWishlist {
		title += " " + styles.Error.Render("♥")
	}
	sb.WriteString(styles.Title.Render(title) + "\n")
	sb.WriteString(PriceTag(styles, p.product) + "  " + StockTag(styles, p.product) + "\n")
	if p.product.Category != "" {
		sb.WriteString(styles.Subtitle.Render(p.product.Category) + "\n")
	}
	sb.WriteString("\n" + p.description(styles, width) + "\n\n")

	if insightsEnabled {
		sb.WriteString(styles.Bold.Render("Insight") + "\n")
		switch {
		case p.loadingInsight:
			sb.WriteString(spinnerView + " thinking...\n\n")
		case p.insight != "":
			sb.WriteString(styles.Info.Render(p.insight) + "\n\n")
		default:
			sb.WriteString(styles.Muted.Render("Press i for an AI summary") + "\n\n")
		}
	}

	sb.WriteString(styles.Bold.Render("Reviews") + "\n")
	switch {
	case p.loadingReviews:
		sb.WriteString(spinnerView + " loading reviews...\n")
	case p.summary == nil || p.summary.Stats.ReviewCount == 0:
		sb.WriteString(styles.Muted.Render("No reviews yet.") + "\n")
	default:
		sb.WriteString(p.reviewBlock(styles))
	}

	if p.composing {
		sb.WriteString("\n" + styles.Bold.Render("Your review") + "\n")
		sb.WriteString(reviews.Stars(p.rating) + styles.Muted.Render("  (↑/↓ adjusts, enter submits, esc cancels)") + "\n")
		sb.WriteString(p.comment.View() + "\n")
	} else if p.summary != nil && p.summary.CanReview {
		sb.WriteString("\n" + styles.Muted.Render("Press r to write a review") + "\n")
	}

	return sb.String()
}

func (p *ProductPage) reviewBlock(styles Styles) string {
	var sb strings.Builder
	stats := p.summary.Stats
	sb.WriteString(fmt.Sprintf("%s %.1f from %d reviews\n",
		styles.Warning.Render(reviews.Stars(int(stats.AverageRating+0.5))),
		stats.AverageRating, stats.ReviewCount))

	for stars := reviews.MaxRating; stars >= 1; stars-- {
		share := reviews.DistributionShare(stats, stars)
		bar := strings.Repeat("█", int(share*20+0.5))
		sb.WriteString(fmt.Sprintf("%d★ %-20s %3.0f%%\n", stars, bar, share*100))
	}
	sb.WriteString("\n")

	shown := p.summary.Reviews
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, r := range shown {
		verified := ""
		if r.VerifiedPurchase {
			verified = " " + styles.Success.Render("✓ verified")
		}
		sb.WriteString(fmt.Sprintf("%s %s%s\n",
			styles.Warning.Render(reviews.Stars(r.Rating)),
			styles.Bold.Render(r.User.Username), verified))
		sb.WriteString("  " + styles.Body.Render(r.Comment) + "\n")
	}
	return sb.String()
}
