package ui

import (
	"strings"
	"testing"
)

func TestToastLifecycle(t *testing.T) {
	styles := testStyles()
	var toast Toast

	if toast.View(styles) != "" {
		t.Fatalf("idle toast must render nothing")
	}

	toast.Show(ToastSuccess, "Added Kettle to cart")
	if !strings.Contains(toast.View(styles), "Added Kettle to cart") {
		t.Fatalf("expected the toast text")
	}

	// The first toast's expiry fires after a newer toast replaced it.
	firstSeq := toast.seq
	toast.Show(ToastError, "Cannot reach the shop")
	toast.Update(toastExpiredMsg{seq: firstSeq})
	if !strings.Contains(toast.View(styles), "Cannot reach the shop") {
		t.Fatalf("stale expiry must not clear a newer toast")
	}

	toast.Update(toastExpiredMsg{seq: toast.seq})
	if toast.View(styles) != "" {
		t.Fatalf("expected the toast to clear on its own expiry")
	}
}
