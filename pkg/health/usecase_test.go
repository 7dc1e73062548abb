package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/expenses/pkg/health"
)

type stubChecker struct {
	name  string
	err   error
	calls int
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(context.Context) error {
	s.calls++
	return s.err
}

func TestReady_NoCheckers(t *testing.T) {
	require.NoError(t, health.NewService().Ready(context.Background()))
}

func TestReady_StopsOnFirstFailure(t *testing.T) {
	down := errors.New("connection refused")
	first := &stubChecker{name: "mongo", err: down}
	second := &stubChecker{name: "postgres"}

	err := health.NewService(first, second).Ready(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "mongo")
	assert.Equal(t, 0, second.calls)
}
