package redisstream

import (
	"runtime"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

type dbgLogger struct{}

func (dbgLogger) Infof(_ context.Context, f string, a ...any)  { fmt.Printf("INFO "+f+"\n", a...) }
func (dbgLogger) Warnf(_ context.Context, f string, a ...any)  { fmt.Printf("WARN "+f+"\n", a...) }
func (dbgLogger) Errorf(_ context.Context, f string, a ...any) { fmt.Printf("ERR  "+f+"\n", a...) }

func TestZZDebugRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	p := NewPublisher(c, dbgLogger{})
	publishN(t, p, "before")

	col := &collector{}
	l := NewListener(c, ListenerConfig{
		StartID:       "0-0",
		BlockTimeout:  100 * time.Millisecond,
		ReconnectWait: 50 * time.Millisecond,
		RetryWait:     20 * time.Millisecond,
		StopTimeout:   2 * time.Second,
	}, dbgLogger{})
	require.NoError(t, l.Start(col.handle))
	defer l.Stop()

	require.Eventually(t, func() bool { return len(col.seen()) == 1 }, 5*time.Second, 20*time.Millisecond)

	fmt.Println("=== closing server")
	mr.Close()
	mr.Ctx, mr.CtxCancel = context.WithCancel(context.Background())
	fmt.Println("=== restarting server")
	require.NoError(t, mr.Restart())
	fmt.Println("=== restarted, addr:", mr.Addr())

	require.Eventually(t, func() bool {
		id, err := p.Publish(context.Background(), map[string]string{"q": "after"})
		fmt.Println("publish:", id, err)
		return err == nil
	}, 5*time.Second, 250*time.Millisecond)

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if len(col.seen()) == 2 {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	fmt.Println("seen:", col.seen())
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	fmt.Println(string(buf[:n]))
	fmt.Println("stream now:", func() any {
		conn := c.Conn()
		if conn == nil {
			return "no conn"
		}
		msgs, err := conn.XRange(context.Background(), testStreamKey, "-", "+").Result()
		return fmt.Sprint(msgs, err)
	}())
}
