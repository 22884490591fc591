package bootstrap

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jt828/go-graphql-tracing/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPodNodeID(t *testing.T) {
	t.Run("different hostnames produce different node IDs", func(t *testing.T) {
		t.Setenv("HOSTNAME", "go-graphql-tracing-7f8b9c6d4-x2k9p")
		id1, err := PodNodeID()
		require.NoError(t, err)

		t.Setenv("HOSTNAME", "go-graphql-tracing-7f8b9c6d4-a3m7n")
		id2, err := PodNodeID()
		require.NoError(t, err)

		assert.NotEqual(t, id1, id2)
	})

	t.Run("same hostname produces same node ID", func(t *testing.T) {
		t.Setenv("HOSTNAME", "go-graphql-tracing-7f8b9c6d4-x2k9p")
		id1, err := PodNodeID()
		require.NoError(t, err)

		id2, err := PodNodeID()
		require.NoError(t, err)

		assert.Equal(t, id1, id2)
	})

	t.Run("node ID is within valid range", func(t *testing.T) {
		for _, hostname := range []string{"a", "my-app-pod-zzzzz", "go-graphql-tracing-abc123-def456"} {
			id := nodeIDFor(hostname)
			assert.GreaterOrEqual(t, id, int64(0))
			assert.Less(t, id, int64(maxNodeID))
		}
	})

	t.Run("falls back to the os hostname", func(t *testing.T) {
		t.Setenv("HOSTNAME", "")
		id, err := PodNodeID()
		require.NoError(t, err)
		assert.Less(t, id, int64(maxNodeID))
	})
}

func TestInitializeSnowflake(t *testing.T) {
	t.Setenv("HOSTNAME", "go-graphql-tracing-0")
	ids, err := InitializeSnowflake()
	require.NoError(t, err)

	a, b := ids.Generate(), ids.Generate()
	assert.Greater(t, b, a)
	assert.NotEmpty(t, ids.GenerateString())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"wrapped connection failure", fmt.Errorf("query: %w", &pgconn.PgError{Code: "08001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"network error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"not found", apperror.ErrNotFound, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsBreakerSuccess(t *testing.T) {
	assert.True(t, IsBreakerSuccess(nil))
	assert.True(t, IsBreakerSuccess(fmt.Errorf("user 1: %w", apperror.ErrNotFound)))
	assert.True(t, IsBreakerSuccess(gorm.ErrRecordNotFound))
	assert.False(t, IsBreakerSuccess(errors.New("connection reset")))
}
