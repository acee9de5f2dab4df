package ui

import (
	"fmt"
	"strings"

	"trolley/internal/checkout"
)

// CheckoutPage renders the shipping chooser and the order confirmation.
// All state lives in the orchestrator; this page only draws it.
type CheckoutPage struct {
	orchestrator *checkout.Orchestrator
	cursor       int
}

// NewCheckoutPage creates the checkout page.
func NewCheckoutPage() CheckoutPage {
	return CheckoutPage{}
}

// Bind attaches the orchestrator. Called once at wiring time.
func (p *CheckoutPage) Bind(o *checkout.Orchestrator) {
	p.orchestrator = o
}

// Reset moves the cursor to the orchestrator's selection.
func (p *CheckoutPage) Reset() {
	p.cursor = 0
}

// MoveCursor shifts the highlighted option and selects it.
func (p *CheckoutPage) MoveCursor(delta int) {
	options := p.orchestrator.Options()
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(options) {
		p.cursor = len(options) - 1
	}
	p.orchestrator.Select(p.cursor)
}

// View renders the checkout screen for the orchestrator's current state.
func (p CheckoutPage) View(styles Styles, spinnerView string) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Checkout") + "\n")

	switch p.orchestrator.State() {
	case checkout.StateFetchingShipping:
		sb.WriteString(spinnerView + " fetching shipping options...\n")
		return sb.String()
	case checkout.StateSubmitting:
		sb.WriteString(spinnerView + " placing your order...\n")
		return sb.String()
	case checkout.StateIdle:
		sb.WriteString(styles.Muted.Render("Nothing in progress.") + "\n")
		return sb.String()
	}

	sb.WriteString(styles.Bold.Render("Shipping") + "\n")
	for i, opt := range p.orchestrator.Options() {
		marker := "  "
		name := styles.Body.Render(opt.Name)
		if i == p.cursor {
			marker = styles.Selected.Render("> ")
			name = styles.Selected.Render(opt.Name)
		}
		sb.WriteString(fmt.Sprintf("%s%s  %s  %s\n",
			marker, name, Money(opt.Cost), styles.Muted.Render(opt.EstimatedDeliveryTime)))
	}

	sb.WriteString("\n" + styles.Bold.Render(fmt.Sprintf("Order total: %s", Money(p.orchestrator.Total()))) + "\n")
	sb.WriteString(styles.Muted.Render("enter confirms · esc cancels") + "\n")
	return sb.String()
}
