package combobox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedProvider blocks every fetch of a source until its gate is released.
type gatedProvider struct {
	gates   map[string]chan struct{}
	options map[string][]Option
	errs    map[string]error
}

func (p *gatedProvider) Fetch(ctx context.Context, q Query) ([]Option, error) {
	if gate, ok := p.gates[q.Source]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := p.errs[q.Source]; err != nil {
		return nil, err
	}
	return p.options[q.Source], nil
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("provider response was never applied")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()
		provider := ProviderFunc(func(_ context.Context, q Query) ([]Option, error) {
			assert.Equal(t, Query{Source: "fruit", Text: "an"}, q)
			return fruits, nil
		})
		box := New(WithProvider(provider), WithMultiselect(true))
		defer box.Close()
		box.Input(context.Background(), "an")

		wait(t, box.Load(context.Background(), Query{Source: "fruit", Text: "an"}))

		assert.False(t, box.IsLoading())
		assert.Empty(t, box.ErrorMessage())
		assert.Len(t, box.Options(), 2)
		assert.Equal(t, []int{1}, box.VisibleIndices())
	})

	t.Run("failure keeps options", func(t *testing.T) {
		t.Parallel()
		provider := ProviderFunc(func(context.Context, Query) ([]Option, error) {
			return nil, errors.New("connection refused")
		})
		box := New(WithProvider(provider), WithOptions(fruits))
		defer box.Close()

		wait(t, box.Load(context.Background(), Query{Source: "fruit"}))

		assert.Equal(t, "connection refused", box.ErrorMessage())
		assert.False(t, box.IsLoading())
		assert.Len(t, box.Options(), 2)
	})

	t.Run("no provider", func(t *testing.T) {
		t.Parallel()
		box := New(WithOptions(fruits))
		defer box.Close()

		wait(t, box.Load(context.Background(), Query{Source: "fruit"}))
		assert.False(t, box.IsLoading())
	})
}

func TestLoadMarksLoading(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	provider := &gatedProvider{
		gates:   map[string]chan struct{}{"fruit": gate},
		options: map[string][]Option{"fruit": fruits},
	}
	box := New(WithProvider(provider))
	defer box.Close()

	done := box.Load(context.Background(), Query{Source: "fruit"})
	assert.True(t, box.IsLoading())
	assert.True(t, box.InputDisabled())
	assert.True(t, box.Snapshot().Loading)

	close(gate)
	wait(t, done)
	assert.False(t, box.IsLoading())
	assert.False(t, box.InputDisabled())
}

func TestLoadDiscardsStaleResponse(t *testing.T) {
	t.Parallel()

	slow := make(chan struct{})
	provider := &gatedProvider{
		gates: map[string]chan struct{}{"slow": slow},
		options: map[string][]Option{
			"slow": {{Value: "old", Label: "Old"}},
			"fast": {{Value: "new", Label: "New"}},
		},
	}
	box := New(WithProvider(provider))
	defer box.Close()
	ctx := context.Background()

	first := box.Load(ctx, Query{Source: "slow"})
	wait(t, box.Load(ctx, Query{Source: "fast"}))
	close(slow)
	wait(t, first)

	options := box.Options()
	require.Len(t, options, 1)
	assert.Equal(t, "new", options[0].Value)
	assert.False(t, box.IsLoading())
}

func TestSetOptionsSupersedesFetch(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	provider := &gatedProvider{
		gates:   map[string]chan struct{}{"fruit": gate},
		options: map[string][]Option{"fruit": {{Value: "x", Label: "X"}}},
	}
	box := New(WithProvider(provider))
	defer box.Close()

	done := box.Load(context.Background(), Query{Source: "fruit"})
	box.SetOptions(fruits)
	assert.False(t, box.IsLoading())
	close(gate)
	wait(t, done)

	assert.Len(t, box.Options(), 2)
}

func TestCloseDiscardsFetch(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	provider := &gatedProvider{
		gates:   map[string]chan struct{}{"fruit": gate},
		options: map[string][]Option{"fruit": fruits},
	}
	box := New(WithProvider(provider))

	done := box.Load(context.Background(), Query{Source: "fruit"})
	require.NoError(t, box.Close())
	close(gate)
	wait(t, done)

	assert.Empty(t, box.Options())
}

func TestSetSource(t *testing.T) {
	t.Parallel()

	accounts := []Option{{Value: "acme", Label: "Acme"}, {Value: "globex", Label: "Globex"}}
	contacts := []Option{{Value: "jane", Label: "Jane"}}
	provider := &gatedProvider{
		options: map[string][]Option{"Account": accounts, "Contact": contacts},
	}

	t.Run("first load keeps preselected values", func(t *testing.T) {
		t.Parallel()
		box := New(WithProvider(provider), WithMultiselect(true), WithValues("globex"))
		defer box.Close()
		rec := record(box)

		wait(t, box.SetSource(context.Background(), "Account"))

		assert.Equal(t, "Account", box.Source())
		assert.Equal(t, []string{"globex"}, box.Values())
		assert.Equal(t, []int{0}, box.VisibleIndices())
		assert.Equal(t, 0, rec.changeCount())
	})

	t.Run("identity change clears before new options arrive", func(t *testing.T) {
		t.Parallel()
		box := New(WithProvider(provider), WithMultiselect(true))
		defer box.Close()
		ctx := context.Background()

		wait(t, box.SetSource(ctx, "Account"))
		box.SelectValue("acme")

		var (
			cleared      ChangeEvent
			optionsAtEvt []Option
		)
		box.OnChange(func(ev ChangeEvent) {
			cleared = ev
			optionsAtEvt = box.Options()
		})
		wait(t, box.SetSource(ctx, "Contact"))

		assert.Empty(t, cleared.Values)
		assert.Empty(t, cleared.Value)
		require.Len(t, optionsAtEvt, 2)
		assert.Equal(t, "acme", optionsAtEvt[0].Value)

		assert.Empty(t, box.Values())
		assert.Equal(t, contacts[0].Value, box.Options()[0].Value)
	})

	t.Run("same source is a no-op", func(t *testing.T) {
		t.Parallel()
		box := New(WithProvider(provider), WithValues("acme"))
		defer box.Close()
		ctx := context.Background()

		wait(t, box.SetSource(ctx, "Account"))
		rec := record(box)
		wait(t, box.SetSource(ctx, "Account"))

		assert.Equal(t, []string{"acme"}, box.Values())
		assert.Equal(t, 0, rec.changeCount())
		assert.Equal(t, 0, rec.updates)
	})

	t.Run("empty source empties options", func(t *testing.T) {
		t.Parallel()
		box := New(WithProvider(provider), WithValues("acme"))
		defer box.Close()
		ctx := context.Background()

		wait(t, box.SetSource(ctx, "Account"))
		rec := record(box)
		wait(t, box.SetSource(ctx, ""))

		assert.Empty(t, box.Options())
		assert.Empty(t, box.Values())
		assert.Equal(t, 1, rec.changeCount())
		assert.Equal(t, "", box.Source())
	})
}
