package remote

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCall(t *testing.T) {
	ctx := context.Background()

	res := Call(ctx, time.Second, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	assert.True(t, res.OK())
	assert.Equal(t, 42, res.Value)
	assert.Equal(t, ReasonNone, res.Reason)

	res = Call(ctx, time.Second, func(ctx context.Context) (int, error) {
		return 0, fmt.Errorf("select failed: %w", ErrUnavailable)
	})
	assert.False(t, res.OK())
	assert.Equal(t, ReasonRemoteError, res.Reason)
	assert.ErrorIs(t, res.Err, ErrUnavailable)
}

func TestCall_Timeout(t *testing.T) {
	res := Call(context.Background(), 20*time.Millisecond, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.Equal(t, ReasonTimeout, res.Reason)
}

func TestOffline(t *testing.T) {
	res := Offline[[]string]()
	assert.False(t, res.OK())
	assert.Equal(t, ReasonOffline, res.Reason)
	assert.Nil(t, res.Err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ReasonNone, Classify(nil))
	assert.Equal(t, ReasonNotFound, Classify(&StatusError{Status: 404}))
	assert.Equal(t, ReasonTimeout, Classify(fmt.Errorf("x: %w", context.DeadlineExceeded)))
	assert.Equal(t, ReasonRemoteError, Classify(errors.New("boom")))
	assert.Equal(t, ReasonRemoteError, Classify(&StatusError{Status: 409}))
}
