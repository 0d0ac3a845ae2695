package citation

import "fmt"

// Collect flattens the item records of groups into the pool used to build
// the engine source. Records keep group order and item order; duplicates
// across groups are kept, the engine resolves them by id.
//
// Items without itemData refer to an external library entry and contribute
// nothing to the pool. A record without an id is fatal: the engine could not
// index it.
func Collect(groups []Group) ([]Record, error) {
	var pool []Record
	for gi, g := range groups {
		for ii, it := range g.Items {
			if it.Data == nil {
				continue
			}
			if _, ok := it.Data.Key(); !ok {
				return nil, fmt.Errorf("%w: citation %q (group %d, item %d)", ErrMissingItemID, g.ID, gi+1, ii+1)
			}
			pool = append(pool, it.Data)
		}
	}
	return pool, nil
}
