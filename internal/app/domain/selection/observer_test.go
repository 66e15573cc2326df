package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingObserverRecordsChangesAndClears(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := NewCoordinator(zap.NewNop())
	c.Register(NewLoggingObserver(zap.New(core)))

	c.Select("session-1", 2, "Colosseum")
	c.Clear("session-1")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Selection changed", entries[0].Message)
	assert.Equal(t, "Selection cleared", entries[1].Message)
}
