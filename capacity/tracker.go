package capacity

import (
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Request statuses carried on the emitted usage record.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Usage is a read/write capacity-unit pair for one table or index.
type Usage struct {
	RCU float64 `json:"rcu"`
	WCU float64 `json:"wcu"`
}

// Tracker accumulates consumed capacity across every storage call made
// during one logical request. It is a per-request value: each request
// constructs its own tracker and threads it through the services it calls,
// so concurrent requests never share accumulator state. The mutex only
// covers folds within one request (parallel batches).
type Tracker struct {
	mu         sync.Mutex
	totalRCU   float64
	totalWCU   float64
	table      Usage
	gsi        map[string]Usage
	operations []string
	status     string
	errMsg     string
	start      time.Time
}

// NewTracker returns a reset tracker with its latency timer started.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Reset clears all accumulators and restarts the latency timer.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalRCU = 0
	t.totalWCU = 0
	t.table = Usage{}
	t.gsi = make(map[string]Usage)
	t.operations = nil
	t.status = StatusSuccess
	t.errMsg = ""
	t.start = time.Now()
}

// Record folds one call's consumption report into the running totals and
// appends the operation name to the history exactly once. It never fails:
// a partially populated report contributes zero for its missing fields,
// since accounting must not abort the request it instruments.
func (t *Tracker) Record(operation string, report Report) {
	t.mu.Lock()
	defer t.mu.Unlock()
	report.each(func(cc types.ConsumedCapacity) {
		t.fold(operation, cc)
	})
	t.operations = append(t.operations, operation)
}

// fold applies one ConsumedCapacity entry. Base table and each GSI entry
// either expose a read/write pair directly or a single undifferentiated
// figure classified by the operation name. The overall total comes from the
// entry's own CapacityUnits when present, otherwise from the sum of the
// components just computed; never both.
func (t *Tracker) fold(operation string, cc types.ConsumedCapacity) {
	read := ReadShaped(operation)

	tableRCU, tableWCU := splitCapacity(cc.Table, read)
	t.table.RCU += tableRCU
	t.table.WCU += tableWCU

	var gsiRCU, gsiWCU float64
	for name, indexCapacity := range cc.GlobalSecondaryIndexes {
		rcu, wcu := splitCapacity(&indexCapacity, read)
		usage := t.gsi[name]
		usage.RCU += rcu
		usage.WCU += wcu
		t.gsi[name] = usage
		gsiRCU += rcu
		gsiWCU += wcu
	}

	if cc.CapacityUnits != nil {
		if read {
			t.totalRCU += *cc.CapacityUnits
		} else {
			t.totalWCU += *cc.CapacityUnits
		}
	} else {
		t.totalRCU += tableRCU + gsiRCU
		t.totalWCU += tableWCU + gsiWCU
	}
}

// splitCapacity extracts the read/write unit pair from one table or index
// entry, falling back to the undifferentiated CapacityUnits figure when the
// pair is absent.
func splitCapacity(c *types.Capacity, read bool) (rcu, wcu float64) {
	if c == nil {
		return 0, 0
	}
	rcu = aws.ToFloat64(c.ReadCapacityUnits)
	wcu = aws.ToFloat64(c.WriteCapacityUnits)
	if rcu == 0 && wcu == 0 {
		units := aws.ToFloat64(c.CapacityUnits)
		if read {
			rcu = units
		} else {
			wcu = units
		}
	}
	return rcu, wcu
}

// MarkFailed sets the failed status and message without discarding totals
// accumulated so far.
func (t *Tracker) MarkFailed(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusFailed
	t.errMsg = message
}

// MarkSucceeded clears a previously recorded failure. The join session uses
// this when a fallback attempt succeeds after earlier maps came up empty.
func (t *Tracker) MarkSucceeded() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusSuccess
	t.errMsg = ""
}

// Failed reports whether the request has a recorded failure.
func (t *Tracker) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status == StatusFailed
}

// ElapsedMillis returns wall-clock milliseconds since the last Reset.
func (t *Tracker) ElapsedMillis() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(time.Since(t.start)) / float64(time.Millisecond)
}

// Snapshot returns the accumulated usage for emission. Identity fields
// (timestamp, module, actor, region, request id) are filled in by the
// emitter.
func (t *Tracker) Snapshot() Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	operations := make([]string, len(t.operations))
	copy(operations, t.operations)

	var gsiUsage map[string]Usage
	if len(t.gsi) > 0 {
		gsiUsage = make(map[string]Usage, len(t.gsi))
		for name, usage := range t.gsi {
			gsiUsage[name] = usage
		}
	}

	return Record{
		Operations: operations,
		RCU:        t.totalRCU,
		WCU:        t.totalWCU,
		Status:     t.status,
		LatencyMS:  float64(time.Since(t.start)) / float64(time.Millisecond),
		TableUsage: t.table,
		GSIUsage:   gsiUsage,
		Error:      t.errMsg,
	}
}
