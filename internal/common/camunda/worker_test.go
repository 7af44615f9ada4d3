// internal/common/camunda/worker_test.go
package camunda

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

// ==========================
// Fake gateway and job client
// ==========================

type fakeGateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (f *fakeGateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (f *fakeGateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (f *fakeGateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.thrown = append(f.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

type fakeJobClient struct {
	gw *fakeGateway
}

func noRetry(context.Context, error) bool { return false }

func (c *fakeJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gw, noRetry)
}

func (c *fakeJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gw, noRetry)
}

func (c *fakeJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gw, noRetry)
}

func newJob(key int64, retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               "create-bill",
		ProcessInstanceKey: key * 10,
		Retries:            retries,
		Variables:          `{"franchiseId":"FR-7"}`,
	}}
}

func newTestRunner(t *testing.T) *Runner {
	return NewRunner("create-bill", time.Second, logger.NewTestLogger(t), nil)
}

// ==========================
// Tests
// ==========================

func TestRunner_CompletesWithOutput(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRunner(t)

	r.Run(&fakeJobClient{gw: gw}, newJob(1, 3), func(ctx context.Context) (interface{}, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return map[string]interface{}{"billId": "b-1"}, nil
	})

	require.Len(t, gw.completed, 1)
	assert.Equal(t, int64(1), gw.completed[0].JobKey)
	assert.JSONEq(t, `{"billId":"b-1"}`, gw.completed[0].Variables)
	assert.Empty(t, gw.failed)
	assert.Empty(t, gw.thrown)
}

func TestRunner_ThrowsBusinessErrors(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRunner(t)

	r.Run(&fakeJobClient{gw: gw}, newJob(2, 3), func(context.Context) (interface{}, error) {
		return nil, errors.NewValidationError("items must not be empty")
	})

	require.Len(t, gw.thrown, 1)
	assert.Equal(t, "VALIDATION_FAILED", gw.thrown[0].ErrorCode)
	assert.Empty(t, gw.failed)
}

func TestRunner_FailsRetryableWithRemainingRetries(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRunner(t)

	r.Run(&fakeJobClient{gw: gw}, newJob(3, 3), func(context.Context) (interface{}, error) {
		return nil, errors.NewDatabaseInsertFailedError(stderrors.New("connection reset"))
	})

	require.Len(t, gw.failed, 1)
	assert.Equal(t, int32(2), gw.failed[0].Retries)
	assert.Contains(t, gw.failed[0].ErrorMessage, "BACKEND_UNAVAILABLE")
}

func TestRunner_LastRetryThrows(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRunner(t)

	r.Run(&fakeJobClient{gw: gw}, newJob(4, 1), func(context.Context) (interface{}, error) {
		return nil, errors.NewDatabaseInsertFailedError(stderrors.New("connection reset"))
	})

	assert.Empty(t, gw.failed)
	require.Len(t, gw.thrown, 1)
	assert.Equal(t, "BACKEND_UNAVAILABLE", gw.thrown[0].ErrorCode)
}

func TestRunner_PlainErrorIsInternal(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRunner(t)

	r.Run(&fakeJobClient{gw: gw}, newJob(5, 3), func(context.Context) (interface{}, error) {
		return nil, stderrors.New("nil pointer somewhere")
	})

	require.Len(t, gw.thrown, 1)
	assert.Equal(t, "INTERNAL_ERROR", gw.thrown[0].ErrorCode)
}
