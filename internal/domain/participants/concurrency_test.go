package participants

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Many registrations race for a small ticket pool. The conditional decrement
// must hand out exactly capacity tickets, never more, and the counter must
// never go negative.
func TestRegister_ConcurrentNeverOversubscribes(t *testing.T) {
	const (
		capacity   = 5
		contenders = 40
	)

	repo := newMemRepo()
	repo.addEvent("event-1", capacity)
	service := NewService(repo)

	var won, lost atomic.Int64
	var group errgroup.Group
	for i := 0; i < contenders; i++ {
		email := fmt.Sprintf("runner%02d@example.com", i)
		group.Go(func() error {
			err := service.Register(context.Background(), "event-1", RegisterInput{
				Name:  "Runner",
				Email: email,
			})
			switch err {
			case nil:
				won.Add(1)
			case ErrSoldOut:
				lost.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())

	require.Equal(t, int64(capacity), won.Load())
	require.Equal(t, int64(contenders-capacity), lost.Load())
	require.Equal(t, 0, repo.tickets("event-1"))
}
