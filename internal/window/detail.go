package window

import (
	"context"
	"sync"

	"modq/internal/itemstore"
	"modq/internal/review"
)

// DetailController fetches the full record for a single item on demand.
// It keeps no state beyond the id currently on display and never touches
// the window; an item decided elsewhere simply fails the next Open with
// the store's error.
type DetailController struct {
	client itemstore.Client

	mu      sync.Mutex
	current string
}

// NewDetailController builds a detail controller over client.
func NewDetailController(client itemstore.Client) *DetailController {
	return &DetailController{client: client}
}

// Open fetches the identified item and marks it as the one on display.
// Failures leave the previous display untouched.
func (d *DetailController) Open(ctx context.Context, id string) (*review.Item, error) {
	item, err := d.client.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.current = id
	d.mu.Unlock()
	return item, nil
}

// Close clears the current display.
func (d *DetailController) Close() {
	d.mu.Lock()
	d.current = ""
	d.mu.Unlock()
}

// CloseIf clears the display only when it is showing id.
func (d *DetailController) CloseIf(id string) {
	d.mu.Lock()
	if d.current == id {
		d.current = ""
	}
	d.mu.Unlock()
}

// CurrentID reports the id on display, or an empty string when the
// detail view is closed.
func (d *DetailController) CurrentID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}
