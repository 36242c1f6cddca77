package core

import (
	"context"
	"fmt"
)

// ElementHandle is a lazily-resolved reference to a UI element.
// It holds the selector, never a server-side element ID: every operation
// resolves the selector again, so a handle stays usable across navigation.
type ElementHandle struct {
	driver   Driver
	name     string
	selector string
}

// NewElementHandle creates a handle for selector. name is the logical key
// used in error messages.
func NewElementHandle(d Driver, name, selector string) ElementHandle {
	return ElementHandle{driver: d, name: name, selector: selector}
}

// Name returns the logical key of the element.
func (h ElementHandle) Name() string { return h.name }

// Selector returns the platform selector string.
func (h ElementHandle) Selector() string { return h.selector }

// Describe returns a human-readable identification of the element
func (h ElementHandle) Describe() string {
	if h.name == "" {
		return fmt.Sprintf("%q", h.selector)
	}
	return fmt.Sprintf("%s (%s)", h.name, h.selector)
}

// Resolve finds the element in the current UI tree and returns its ID.
func (h ElementHandle) Resolve(ctx context.Context) (string, error) {
	id, err := h.driver.FindElement(ctx, h.selector)
	if err != nil {
		return "", fmt.Errorf("%s: %w", h.Describe(), err)
	}
	return id, nil
}

// Exists reports whether the element is present. A not-found lookup is
// (false, nil); any other failure is returned.
func (h ElementHandle) Exists(ctx context.Context) (bool, error) {
	_, err := h.Resolve(ctx)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// IsDisplayed resolves the element and reports its visibility.
// A missing element is (false, nil).
func (h ElementHandle) IsDisplayed(ctx context.Context) (bool, error) {
	id, err := h.Resolve(ctx)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return h.driver.IsDisplayed(ctx, id)
}

// IsEnabled resolves the element and reports whether it accepts input.
// A missing element is (false, nil).
func (h ElementHandle) IsEnabled(ctx context.Context) (bool, error) {
	id, err := h.Resolve(ctx)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return h.driver.IsEnabled(ctx, id)
}

// Probe is the best-effort visibility check: every failure reads as false.
func (h ElementHandle) Probe(ctx context.Context) bool {
	displayed, err := h.IsDisplayed(ctx)
	return err == nil && displayed
}

// Click resolves the element and clicks it.
func (h ElementHandle) Click(ctx context.Context) error {
	id, err := h.Resolve(ctx)
	if err != nil {
		return err
	}
	return h.driver.Click(ctx, id)
}

// SetValue resolves the element and sends text to it.
func (h ElementHandle) SetValue(ctx context.Context, text string) error {
	id, err := h.Resolve(ctx)
	if err != nil {
		return err
	}
	return h.driver.SetValue(ctx, id, text)
}

// Text resolves the element and returns its rendered text.
func (h ElementHandle) Text(ctx context.Context) (string, error) {
	id, err := h.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return h.driver.Text(ctx, id)
}

// Bounds resolves the element and returns its location and size.
func (h ElementHandle) Bounds(ctx context.Context) (Bounds, error) {
	id, err := h.Resolve(ctx)
	if err != nil {
		return Bounds{}, err
	}
	return h.driver.Bounds(ctx, id)
}

// ScrollIntoView asks the driver to scroll until the element is visible.
func (h ElementHandle) ScrollIntoView(ctx context.Context) error {
	if err := h.driver.ScrollIntoView(ctx, h.selector); err != nil {
		return fmt.Errorf("scroll to %s: %w", h.Describe(), err)
	}
	return nil
}
