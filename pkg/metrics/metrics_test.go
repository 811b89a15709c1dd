package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(sectionsCompleted.WithLabelValues("evening"))
	RecordSectionCompleted("evening")
	assert.Equal(t, before+1, testutil.ToFloat64(sectionsCompleted.WithLabelValues("evening")))

	failed := testutil.ToFloat64(ocrCalls.WithLabelValues("openai", "error"))
	RecordOCRCall("openai", 0.4, errors.New("boom"))
	assert.Equal(t, failed+1, testutil.ToFloat64(ocrCalls.WithLabelValues("openai", "error")))

	resets := testutil.ToFloat64(streakResets)
	RecordStreakResets(0)
	RecordStreakResets(3)
	assert.Equal(t, resets+3, testutil.ToFloat64(streakResets))
}
