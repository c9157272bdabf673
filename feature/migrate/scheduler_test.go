package migrate

import (
	"context"
	"sync"
	"testing"
	"time"

	"catalog-sync/core/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_Start(t *testing.T) {
	env := setupTestApp(t, nil)

	disabled := NewScheduler("", platform.WooCommerce, nil, env.svc, zap.NewNop())
	assert.NoError(t, disabled.Start())

	invalid := NewScheduler("every day", platform.WooCommerce, nil, env.svc, zap.NewNop())
	assert.Error(t, invalid.Start())

	valid := NewScheduler("*/5 * * * *", platform.WooCommerce, []platform.Kind{platform.KindProduct}, env.svc, zap.NewNop())
	require.NoError(t, valid.Start())
	valid.Stop()
}

func TestScheduler_Trigger(t *testing.T) {
	env := setupTestApp(t, nil)
	env.woo.Seed(product("mug", "Mug"), product("tee", "Tee"))

	s := NewScheduler("@hourly", platform.WooCommerce, []platform.Kind{platform.KindProduct, platform.KindCollection}, env.svc, zap.NewNop())
	s.Trigger()

	list := env.svc.Jobs()
	require.Len(t, list, 1, "collections are in sync, only products need a job")
	waitJob(t, env.svc, list[0].ID)
	assert.Equal(t, 2, env.shop.Len(platform.KindProduct))

	s.Trigger()
	assert.Len(t, env.svc.Jobs(), 1)
}

func TestService_Busy(t *testing.T) {
	env := setupTestApp(t, nil)
	release := make(chan struct{})
	env.shop.SetWriteHook(func(string, platform.Kind, string, platform.Payload) error {
		<-release
		return nil
	})
	env.woo.Seed(product("mug", "Mug"))

	res, err := env.svc.Run(context.Background(), platform.WooCommerce, platform.KindProduct)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return env.svc.Busy(platform.WooCommerce, platform.KindProduct)
	}, time.Second, time.Millisecond)
	assert.False(t, env.svc.Busy(platform.Shopify, platform.KindProduct))

	close(release)
	waitJob(t, env.svc, res.JobID)
	assert.False(t, env.svc.Busy(platform.WooCommerce, platform.KindProduct))
}

func TestScheduler_ConcurrentTriggersEnqueueOneJob(t *testing.T) {
	env := setupTestApp(t, nil)
	release := make(chan struct{})
	env.shop.SetWriteHook(func(string, platform.Kind, string, platform.Payload) error {
		<-release
		return nil
	})
	env.woo.Seed(product("mug", "Mug"))

	s := NewScheduler("@hourly", platform.WooCommerce, []platform.Kind{platform.KindProduct}, env.svc, zap.NewNop())
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Trigger()
		}()
	}
	wg.Wait()

	list := env.svc.Jobs()
	require.Len(t, list, 1)
	close(release)
	waitJob(t, env.svc, list[0].ID)
	assert.Equal(t, 1, env.shop.Len(platform.KindProduct))
}
