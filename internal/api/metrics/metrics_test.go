package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(OperationRequestsTotal.WithLabelValues("list jobs", "success"))

	Recorder{}.ObserveRequest("list jobs", "success", 20*time.Millisecond)

	after := testutil.ToFloat64(OperationRequestsTotal.WithLabelValues("list jobs", "success"))
	if after-before != 1 {
		t.Fatalf("expected one request counted, got %v", after-before)
	}
}

func TestRecorder_CacheAndValidation(t *testing.T) {
	r := Recorder{}
	hits := testutil.ToFloat64(CacheQueriesTotal.WithLabelValues("mails", "hit"))
	inv := testutil.ToFloat64(CacheInvalidationsTotal.WithLabelValues("prompts"))
	rej := testutil.ToFloat64(ValidationRejectionsTotal.WithLabelValues("smtp"))

	r.QueryServed("mails", "hit")
	r.KeyInvalidated("prompts")
	r.Rejected("smtp")

	if testutil.ToFloat64(CacheQueriesTotal.WithLabelValues("mails", "hit")) != hits+1 {
		t.Fatalf("cache hit not counted")
	}
	if testutil.ToFloat64(CacheInvalidationsTotal.WithLabelValues("prompts")) != inv+1 {
		t.Fatalf("invalidation not counted")
	}
	if testutil.ToFloat64(ValidationRejectionsTotal.WithLabelValues("smtp")) != rej+1 {
		t.Fatalf("rejection not counted")
	}
}

func TestSampleQueue(t *testing.T) {
	sampleQueue([]int{3, 0})

	if got := testutil.ToFloat64(DispatchQueueDepth.WithLabelValues("0")); got != 3 {
		t.Fatalf("worker 0 depth = %v, want 3", got)
	}
	if got := testutil.ToFloat64(DispatchQueueDepth.WithLabelValues("1")); got != 0 {
		t.Fatalf("worker 1 depth = %v, want 0", got)
	}
}
