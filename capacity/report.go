// Package capacity accumulates DynamoDB consumed-capacity reports for one
// logical request into a single usage record, split by base table and by
// global secondary index.
package capacity

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Report is the consumed-capacity payload of one storage call. DynamoDB
// returns either nothing, a single ConsumedCapacity (GetItem, Query, Scan,
// PutItem, UpdateItem), or a list of them (TransactWriteItems, BatchGetItem).
// The three shapes are kept as an explicit variant so callers never probe.
type Report struct {
	kind    reportKind
	single  types.ConsumedCapacity
	entries []types.ConsumedCapacity
}

type reportKind int

const (
	reportNone reportKind = iota
	reportSingle
	reportMany
)

// None is the report for a call that returned no consumption information.
// Recording it contributes zero units but still logs the operation name.
func None() Report {
	return Report{kind: reportNone}
}

// Single wraps the consumed capacity of a single-item call. A nil pointer
// degrades to None.
func Single(cc *types.ConsumedCapacity) Report {
	if cc == nil {
		return None()
	}
	return Report{kind: reportSingle, single: *cc}
}

// Many wraps the per-item consumed capacities of a transactional or batch
// call. Each entry is folded independently into the same running totals.
func Many(entries []types.ConsumedCapacity) Report {
	if len(entries) == 0 {
		return None()
	}
	return Report{kind: reportMany, entries: entries}
}

func (r Report) each(fn func(types.ConsumedCapacity)) {
	switch r.kind {
	case reportSingle:
		fn(r.single)
	case reportMany:
		for _, entry := range r.entries {
			fn(entry)
		}
	}
}

// readShapedPrefixes classify an operation as read-shaped by naming
// convention. The classification decides whether an undifferentiated
// CapacityUnits figure counts as read or write units; it is driven by the
// name the caller supplies, never inferred from the response.
var readShapedPrefixes = []string{"get_", "query_", "scan_"}

// ReadShaped reports whether the named operation consumes read capacity
// under the naming convention. Operations outside the convention count as
// writes, so a misnamed read silently misclassifies its units.
func ReadShaped(operation string) bool {
	for _, prefix := range readShapedPrefixes {
		if strings.HasPrefix(operation, prefix) {
			return true
		}
	}
	return false
}
