package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcWorker struct {
	name string
	run  func(ctx context.Context) error
}

func (f funcWorker) Name() string                    { return f.name }
func (f funcWorker) Start(ctx context.Context) error { return f.run(ctx) }

func TestGroup_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{}, 2)

	blocking := func(ctx context.Context) error {
		<-ctx.Done()
		stopped <- struct{}{}
		return nil
	}
	g := Group{funcWorker{"a", blocking}, funcWorker{"b", blocking}}

	done := make(chan error)
	go func() { done <- g.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("group did not stop")
	}
	assert.Len(t, stopped, 2)
}

func TestGroup_FailureStopsOthers(t *testing.T) {
	g := Group{
		funcWorker{"broken", func(context.Context) error { return errors.New("bind failed") }},
		funcWorker{"waiting", func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}},
	}

	err := g.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: bind failed")
}
