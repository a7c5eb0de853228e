package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResultOf(t *testing.T) {
	t.Parallel()

	errMissing := errors.New("missing")
	result := ResultOf(map[error]string{errMissing: "not_found"})

	assert.Equal(t, "ok", result(nil))
	assert.Equal(t, "not_found", result(fmt.Errorf("get: %w", errMissing)))
	assert.Equal(t, "error", result(errors.New("boom")))
}

func TestObserve(t *testing.T) {
	before := testutil.ToFloat64(operations.WithLabelValues("metrics_test", "ok"))

	Observe("metrics_test", time.Now(), "ok")
	Observe("metrics_test", time.Now(), "ok")

	after := testutil.ToFloat64(operations.WithLabelValues("metrics_test", "ok"))
	assert.Equal(t, before+2, after)
}
