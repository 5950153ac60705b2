package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuiesceBlocksUntilLoadEventFired(t *testing.T) {
	q := newNetworkQuiesce()
	q.arm()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.Error(t, q.wait(ctx, 10*time.Millisecond))

	q.handle(&page.EventLoadEventFired{})

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	assert.NoError(t, q.wait(ctx2, 10*time.Millisecond))
}

func TestQuiesceBlocksWhileRequestInFlight(t *testing.T) {
	q := newNetworkQuiesce()
	q.arm()
	q.handle(&page.EventLoadEventFired{})
	q.handle(&network.EventRequestWillBeSent{RequestID: network.RequestID("img-1")})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.Error(t, q.wait(ctx, 10*time.Millisecond))

	q.handle(&network.EventLoadingFinished{RequestID: network.RequestID("img-1")})

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	assert.NoError(t, q.wait(ctx2, 10*time.Millisecond))
}

func TestQuiesceTreatsFailedLoadAsFinished(t *testing.T) {
	q := newNetworkQuiesce()
	q.arm()
	q.handle(&page.EventLoadEventFired{})
	q.handle(&network.EventRequestWillBeSent{RequestID: network.RequestID("font-1")})
	q.handle(&network.EventLoadingFailed{RequestID: network.RequestID("font-1")})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, q.wait(ctx, 10*time.Millisecond))
}

func TestQuiesceHonorsQuietWindow(t *testing.T) {
	q := newNetworkQuiesce()
	q.arm()
	q.handle(&page.EventLoadEventFired{})

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.wait(ctx, 50*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestQuiesceArmDiscardsEarlierLoad(t *testing.T) {
	q := newNetworkQuiesce()
	q.handle(&page.EventLoadEventFired{})
	q.arm()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, q.wait(ctx, 10*time.Millisecond))
}
