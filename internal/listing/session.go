package listing

import (
	"context"

	"product-catalog-admin/internal/domain"
	"product-catalog-admin/internal/form"
)

// OpenCreate opens an empty form for a new product.
func (c *Controller) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saving {
		return ErrSaveInFlight
	}
	c.form = form.NewSession(nil)
	c.notifyLocked()
	return nil
}

// OpenEdit opens the form on the product with the given id.
func (c *Controller) OpenEdit(id domain.ProductID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saving {
		return ErrSaveInFlight
	}
	i := c.indexLocked(id)
	if i < 0 {
		return ErrProductNotFound
	}
	c.form = form.NewSession(&c.products[i])
	c.notifyLocked()
	return nil
}

// CloseForm discards the open form. It is refused while a save is running.
func (c *Controller) CloseForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saving {
		return ErrSaveInFlight
	}
	if c.form == nil {
		return nil
	}
	c.form = nil
	c.notifyLocked()
	return nil
}

// SetField updates one draft field and clears its error.
func (c *Controller) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return ErrNoForm
	}
	if c.saving {
		return ErrSaveInFlight
	}
	if err := c.form.Set(field, value); err != nil {
		return err
	}
	c.notifyLocked()
	return nil
}

// Submit validates the open form and saves it. Invalid drafts keep their
// field errors and never reach the backend. On success the result is
// reconciled into the collection (new records first, edits in place) and the
// form closes; on failure the collection is unchanged and the form stays
// open with the save error set. Only one save may run at a time.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.form == nil {
		c.mu.Unlock()
		return ErrNoForm
	}
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	session := c.form
	input, ok := session.Submit(c.now())
	if !ok {
		c.notifyLocked()
		c.mu.Unlock()
		return ErrInvalidForm
	}
	editing := session.Editing
	c.saving = true
	c.err = ""
	c.notifyLocked()
	c.mu.Unlock()

	var (
		saved *domain.Product
		err   error
	)
	if editing != nil {
		saved, err = c.store.UpdateProduct(ctx, editing.ID, input)
	} else {
		saved, err = c.store.CreateProduct(ctx, input)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if c.closed {
		return ErrDiscarded
	}
	if err != nil {
		c.log.Error().Err(err).Bool("editing", editing != nil).Msg("saving product failed")
		c.err = MsgSaveFailed
		c.notifyLocked()
		return err
	}

	if editing != nil {
		if saved.ID == "" {
			saved.ID = editing.ID
		}
		c.replaceLocked(editing.ID, *saved)
	} else {
		c.products = append([]domain.Product{*saved}, c.products...)
	}
	if c.form == session {
		c.form = nil
	}
	c.page = clampPage(c.page, c.totalPagesLocked())
	c.notifyLocked()
	return nil
}

// Delete removes a product from the backend and then from the collection.
// Failures leave the collection unchanged and set the delete error. It
// shares the single in-flight slot with saves.
func (c *Controller) Delete(ctx context.Context, id domain.ProductID) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	if c.indexLocked(id) < 0 {
		c.mu.Unlock()
		return ErrProductNotFound
	}
	c.saving = true
	c.err = ""
	c.notifyLocked()
	c.mu.Unlock()

	err := c.store.DeleteProduct(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if c.closed {
		return ErrDiscarded
	}
	if err != nil {
		c.log.Error().Err(err).Str("product_id", string(id)).Msg("deleting product failed")
		c.err = MsgDeleteFailed
		c.notifyLocked()
		return err
	}
	if i := c.indexLocked(id); i >= 0 {
		c.products = append(c.products[:i:i], c.products[i+1:]...)
	}
	if c.form != nil && c.form.Editing != nil && c.form.Editing.ID == id {
		c.form = nil
	}
	c.page = clampPage(c.page, c.totalPagesLocked())
	c.notifyLocked()
	return nil
}

// replaceLocked swaps the entry with the given id for p, keeping its
// position. The collection is copied so earlier snapshots stay intact.
func (c *Controller) replaceLocked(id domain.ProductID, p domain.Product) {
	i := c.indexLocked(id)
	if i < 0 {
		return
	}
	next := make([]domain.Product, len(c.products))
	copy(next, c.products)
	next[i] = p
	c.products = next
}

func (c *Controller) indexLocked(id domain.ProductID) int {
	for i := range c.products {
		if c.products[i].ID == id {
			return i
		}
	}
	return -1
}
