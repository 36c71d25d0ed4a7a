package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-management-hub/internal/domain/mail"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

// fakeStore implements the store interface without a Redis server.
type fakeStore struct {
	mu      sync.Mutex
	pushes  map[string][]string
	lengths map[string]int64

	pushErr error
	lenErr  error

	popKeys  []string
	popReply []string
	popErr   error

	closeCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pushes:  make(map[string][]string),
		lengths: make(map[string]int64),
	}
}

func (f *fakeStore) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if f.pushErr != nil {
		cmd.SetErr(f.pushErr)
		return cmd
	}
	for _, v := range values {
		switch b := v.(type) {
		case []byte:
			f.pushes[key] = append(f.pushes[key], string(b))
		case string:
			f.pushes[key] = append(f.pushes[key], b)
		}
	}
	cmd.SetVal(int64(len(f.pushes[key])))
	return cmd
}

func (f *fakeStore) LLen(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.lenErr != nil {
		cmd.SetErr(f.lenErr)
		return cmd
	}
	cmd.SetVal(f.lengths[key])
	return cmd
}

func (f *fakeStore) BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd {
	f.popKeys = append([]string(nil), keys...)
	cmd := redis.NewStringSliceCmd(ctx)
	if f.popErr != nil {
		cmd.SetErr(f.popErr)
		return cmd
	}
	cmd.SetVal(f.popReply)
	return cmd
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeStore) Close() error {
	f.closeCalls++
	return nil
}

func newTestQueue(store *fakeStore) *Queue {
	return &Queue{
		client: store,
		config: DefaultConfig(),
		log:    logger.New(logger.Options{Output: io.Discard}),
	}
}

func TestQueue_Enqueue_AssignsIDAndStampsCreatedAt(t *testing.T) {
	store := newFakeStore()
	q := newTestQueue(store)

	job := &mail.Job{
		To:       []string{"student@campushub.edu"},
		Subject:  "hello",
		Metadata: map[string]string{"custom": "kept"},
	}
	require.NoError(t, q.Enqueue(context.Background(), job))

	assert.NotEmpty(t, job.ID)
	assert.NotEmpty(t, job.Metadata[mail.MetadataCreatedAt])
	assert.Equal(t, "kept", job.Metadata["custom"])

	require.Len(t, store.pushes[mail.LaneNormal], 1)

	var stored mail.Job
	require.NoError(t, json.Unmarshal([]byte(store.pushes[mail.LaneNormal][0]), &stored))
	assert.Equal(t, job.ID, stored.ID)
	assert.Equal(t, "kept", stored.Metadata["custom"])
}

func TestQueue_Enqueue_PreservesCallerID(t *testing.T) {
	store := newFakeStore()
	q := newTestQueue(store)

	job := &mail.Job{ID: "reset_req7", To: []string{"a@b.edu"}}
	require.NoError(t, q.Enqueue(context.Background(), job))
	assert.Equal(t, "reset_req7", job.ID)
}

func TestQueue_Enqueue_LaneSelection(t *testing.T) {
	tests := []struct {
		name     string
		priority mail.Priority
		wantLane string
	}{
		{"high goes to the high lane", mail.PriorityHigh, mail.LaneHigh},
		{"normal goes to the normal lane", mail.PriorityNormal, mail.LaneNormal},
		{"low shares the normal lane", mail.PriorityLow, mail.LaneNormal},
		{"absent defaults to the normal lane", "", mail.LaneNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			q := newTestQueue(store)

			job := &mail.Job{To: []string{"a@b.edu"}, Priority: tt.priority}
			require.NoError(t, q.Enqueue(context.Background(), job))
			assert.Len(t, store.pushes[tt.wantLane], 1)
		})
	}
}

func TestQueue_Enqueue_StoreErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.pushErr = errors.New("connection reset")
	q := newTestQueue(store)

	err := q.Enqueue(context.Background(), &mail.Job{To: []string{"a@b.edu"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")
}

func TestQueue_Enqueue_ConcurrentProducersBothCount(t *testing.T) {
	store := newFakeStore()
	q := newTestQueue(store)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			job := &mail.Job{
				To:      []string{"student@campushub.edu"},
				Subject: fmt.Sprintf("notice %d", n),
			}
			assert.NoError(t, q.Enqueue(context.Background(), job))
		}(i)
	}
	wg.Wait()

	require.Len(t, store.pushes[mail.LaneNormal], 2)

	store.lengths[mail.LaneNormal] = int64(len(store.pushes[mail.LaneNormal]))
	assert.Equal(t, int64(2), q.Depth(context.Background()))
}

func TestQueue_Depth_SumsBothLanes(t *testing.T) {
	store := newFakeStore()
	store.lengths[mail.LaneNormal] = 3
	store.lengths[mail.LaneHigh] = 2
	q := newTestQueue(store)

	assert.Equal(t, int64(5), q.Depth(context.Background()))
}

func TestQueue_Depth_BestEffortOnError(t *testing.T) {
	store := newFakeStore()
	store.lenErr = errors.New("store down")
	q := newTestQueue(store)

	assert.Equal(t, int64(0), q.Depth(context.Background()))
}

func TestQueue_Close_Idempotent(t *testing.T) {
	store := newFakeStore()
	q := newTestQueue(store)

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.Equal(t, 1, store.closeCalls)

	// Operations on a closed queue fail fast / degrade safely.
	assert.ErrorIs(t, q.Enqueue(context.Background(), &mail.Job{To: []string{"a@b.edu"}}), ErrQueueClosed)
	assert.Equal(t, int64(0), q.Depth(context.Background()))
}

func TestQueue_Dequeue_HighLaneFirst(t *testing.T) {
	store := newFakeStore()
	payload, err := json.Marshal(&mail.Job{ID: "exam_e1", To: []string{"a@b.edu"}, Priority: mail.PriorityHigh})
	require.NoError(t, err)
	store.popReply = []string{mail.LaneHigh, string(payload)}

	q := newTestQueue(store)
	job, err := q.Dequeue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "exam_e1", job.ID)
	// The high lane must be polled before the normal lane.
	require.Len(t, store.popKeys, 2)
	assert.Equal(t, mail.LaneHigh, store.popKeys[0])
	assert.Equal(t, mail.LaneNormal, store.popKeys[1])
}

func TestQueue_Dequeue_ContextCancelled(t *testing.T) {
	store := newFakeStore()
	store.popErr = context.Canceled

	q := newTestQueue(store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
