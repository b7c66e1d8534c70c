package db

// BulkAction selects what a bulk item does.
type BulkAction string

const (
	// BulkIndex upserts the full document under ID.
	BulkIndex BulkAction = "index"
	// BulkDelete removes the document under ID. Deleting an absent id succeeds.
	BulkDelete BulkAction = "delete"
)

// BulkOp is a single item of a bulk request. Doc values are string, int,
// int64, bool, time.Time, map[string]any or nil.
type BulkOp struct {
	Action BulkAction
	ID     string
	Doc    map[string]any
}

// BulkItemResult is the outcome of one bulk item.
type BulkItemResult struct {
	ID     string
	Action BulkAction
	Err    error
}

// BulkResult holds per-item outcomes in request order.
type BulkResult struct {
	Items []BulkItemResult
}

// Failed returns the items that did not succeed.
func (r *BulkResult) Failed() []BulkItemResult {
	var out []BulkItemResult
	for _, it := range r.Items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}
