package kv_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/on-the-ground/interpret_ive_go/effects"
	"github.com/on-the-ground/interpret_ive_go/effects/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := kv.NewMemoryClient()

	_, found, err := client.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, client.Set(ctx, "greeting", "hello", 0))
	val, found, err := client.Get(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "hello", val)

	deleted, err := client.Delete(ctx, "greeting")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = client.Delete(ctx, "greeting")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryClient_TTLExpiresLazily(t *testing.T) {
	ctx := context.Background()
	client := kv.NewMemoryClient()

	require.NoError(t, client.Set(ctx, "flash", "gone soon", 5*time.Millisecond))

	_, found, err := client.Get(ctx, "flash")
	require.NoError(t, err)
	assert.True(t, found)

	time.Sleep(10 * time.Millisecond)

	_, found, err = client.Get(ctx, "flash")
	require.NoError(t, err)
	assert.False(t, found, "expired key must read as missing")

	deleted, err := client.Delete(ctx, "flash")
	require.NoError(t, err)
	assert.False(t, deleted, "expired key must not count as deleted")
}

func TestMemoryClient_PublishRecordsPayloads(t *testing.T) {
	ctx := context.Background()
	client := kv.NewMemoryClient()

	receivers, err := client.Publish(ctx, "events", "first")
	require.NoError(t, err)
	assert.Zero(t, receivers)

	_, err = client.Publish(ctx, "events", "second")
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, client.Published("events"))
	assert.Empty(t, client.Published("other"))
}

func TestMemoryClient_ClosedClientErrors(t *testing.T) {
	ctx := context.Background()
	client := kv.NewMemoryClient()
	require.NoError(t, client.Close())

	_, _, err := client.Get(ctx, "any")
	assert.Error(t, err)
	assert.Error(t, client.Set(ctx, "any", "v", 0))
}

func TestWithClient_ClosesOnEveryPath(t *testing.T) {
	ctx := context.Background()

	t.Run("fn succeeds", func(t *testing.T) {
		client := kv.NewMemoryClient()
		dial := func(context.Context) (kv.Client, error) { return client, nil }

		err := kv.WithClient(ctx, dial, func(c kv.Client) error {
			return c.Set(ctx, "k", "v", 0)
		})
		require.NoError(t, err)

		_, _, err = client.Get(ctx, "k")
		assert.Error(t, err, "client must be closed after WithClient returns")
	})

	t.Run("fn fails", func(t *testing.T) {
		client := kv.NewMemoryClient()
		dial := func(context.Context) (kv.Client, error) { return client, nil }
		boom := fmt.Errorf("boom")

		err := kv.WithClient(ctx, dial, func(kv.Client) error { return boom })
		require.ErrorIs(t, err, boom)

		_, _, err = client.Get(ctx, "k")
		assert.Error(t, err, "client must be closed even when fn fails")
	})

	t.Run("dial fails", func(t *testing.T) {
		boom := fmt.Errorf("no backend")
		dial := func(context.Context) (kv.Client, error) { return nil, boom }

		err := kv.WithClient(ctx, dial, func(kv.Client) error { return nil })
		assert.ErrorIs(t, err, boom)
	})
}

func TestDialRedis_RejectsBadURL(t *testing.T) {
	_, err := kv.DialRedis(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestInterpreter_ModeledOutcomes(t *testing.T) {
	ctx := context.Background()
	it := kv.NewInterpreter(kv.NewMemoryClient())

	out, err := it.Handle(ctx, kv.Get{Key: "missing"})
	require.NoError(t, err, "a missing key is an outcome, not an error")
	assert.Equal(t, kv.GetResult{Found: false}, out)

	out, err = it.Handle(ctx, kv.Set{Key: "greeting", Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, kv.SetDone{}, out)

	out, err = it.Handle(ctx, kv.Get{Key: "greeting"})
	require.NoError(t, err)
	assert.Equal(t, kv.GetResult{Value: "hello", Found: true}, out)

	out, err = it.Handle(ctx, kv.Delete{Key: "greeting"})
	require.NoError(t, err)
	assert.Equal(t, kv.DeleteResult{Deleted: true}, out)

	out, err = it.Handle(ctx, kv.Publish{Channel: "events", Payload: "bye"})
	require.NoError(t, err)
	assert.Equal(t, kv.PublishResult{Receivers: 0}, out)
}

func TestInterpreter_BackendFailureIsAnError(t *testing.T) {
	ctx := context.Background()
	client := kv.NewMemoryClient()
	require.NoError(t, client.Close())
	it := kv.NewInterpreter(client)

	_, err := it.Handle(ctx, kv.Get{Key: "any"})
	require.Error(t, err)
}

func TestKV_EndToEndThroughRunner(t *testing.T) {
	ctx := context.Background()
	client := kv.NewMemoryClient()
	comp := effects.MustComposite(effects.Registration{
		Family:      kv.Family,
		Interpreter: kv.NewInterpreter(client),
	})

	prog := func(ctx context.Context, sc *effects.Scope) (string, error) {
		res, err := effects.Perform[kv.GetResult](ctx, sc, kv.Get{Key: "greeting"})
		if err != nil {
			return "", err
		}
		if !res.Found {
			if _, err := effects.Perform[kv.SetDone](ctx, sc, kv.Set{Key: "greeting", Value: "hello"}); err != nil {
				return "", err
			}
			if _, err := effects.Perform[kv.PublishResult](ctx, sc, kv.Publish{
				Channel: "events", Payload: "greeting seeded",
			}); err != nil {
				return "", err
			}
			res, err = effects.Perform[kv.GetResult](ctx, sc, kv.Get{Key: "greeting"})
			if err != nil {
				return "", err
			}
		}
		return res.Value, nil
	}

	got, err := effects.Run(ctx, prog, comp)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, []string{"greeting seeded"}, client.Published("events"))
}
