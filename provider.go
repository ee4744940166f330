package combobox

import "context"

// Query identifies what an OptionProvider should fetch. Source is the
// identity of the option source (an object name, a table); Text is the
// search text, empty for an initial load.
type Query struct {
	Source string
	Text   string
}

// OptionProvider fetches options asynchronously from an external source.
// Implementations do not retry and do not cache.
type OptionProvider interface {
	Fetch(ctx context.Context, q Query) ([]Option, error)
}

// ProviderFunc adapts a function to the OptionProvider interface.
type ProviderFunc func(ctx context.Context, q Query) ([]Option, error)

// Fetch calls f(ctx, q).
func (f ProviderFunc) Fetch(ctx context.Context, q Query) ([]Option, error) {
	return f(ctx, q)
}

// Load fetches options for q from the configured provider on a new goroutine.
//
// Every call is tagged with a token that increases monotonically. The
// response is applied only if no later Load, SetOptions or Close happened in
// the meantime, so a slow response can never overwrite newer state. On
// failure the option list is left untouched and ErrorMessage reports the
// error. The returned channel is closed once the response has been applied
// or discarded; it is closed immediately when no provider is configured.
func (c *Combobox) Load(ctx context.Context, q Query) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	provider := c.config.Provider
	if provider == nil || c.closed {
		c.mu.Unlock()
		close(done)
		return done
	}
	c.token++
	token := c.token
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()
	c.commit(effects{update: true})

	go func() {
		defer close(done)
		options, err := provider.Fetch(ctx, q)
		c.applyFetch(token, q, options, err)
	}()
	return done
}

func (c *Combobox) applyFetch(token uint64, q Query, options []Option, err error) {
	c.mutate(func() effects {
		if c.closed || token != c.token {
			c.logger.Debug("discarding stale provider response", "source", q.Source, "token", token, "latest", c.token)
			return effects{}
		}
		c.loading = false
		if err != nil {
			c.errMsg = err.Error()
			c.logger.Warn("provider fetch failed", "source", q.Source, "text", q.Text, "err", err)
			return effects{update: true}
		}
		c.store.SetOptions(options)
		if c.afterLoad != nil {
			c.afterLoad(q, c.store.Options())
		}
		c.refilterLocked()
		c.logger.Debug("provider response applied", "source", q.Source, "count", len(options))
		return effects{update: true}
	})
}

// Source returns the current source identity.
func (c *Combobox) Source() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// SetSource switches the combobox to another option source and loads it.
//
// When a previous source was set and the identity differs, the selection is
// cleared and a ChangeEvent with no values is emitted before the new options
// are requested. Preselected values survive the first load. An empty source
// empties the option list and fetches nothing. Setting the current source
// again is a no-op.
func (c *Combobox) SetSource(ctx context.Context, source string) <-chan struct{} {
	var fx effects
	c.mu.Lock()
	if c.hasSource && source == c.source {
		c.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}
	changed := c.hasSource
	c.source = source
	c.hasSource = source != ""
	if changed {
		c.logger.Debug("source changed, clearing selection", "source", source)
		c.selection.Clear()
		fx.change = c.changeEventLocked()
	}
	if source == "" {
		c.token++
		c.loading = false
		c.store.SetOptions(nil)
		fx.update = true
	}
	c.refilterLocked()
	c.mu.Unlock()
	c.commit(fx)

	if source == "" {
		done := make(chan struct{})
		close(done)
		return done
	}
	return c.Load(ctx, Query{Source: source})
}
