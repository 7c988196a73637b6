package catalog

// Predicate is an optional filtering stage applied to a category's items.
type Predicate func(Item) bool

// DietaryFilter keeps items that carry all of the given tags. An empty tag set
// keeps everything.
func DietaryFilter(tags []string) Predicate {
	if len(tags) == 0 {
		return nil
	}
	wanted := make([]string, len(tags))
	copy(wanted, tags)
	return func(item Item) bool {
		return item.HasAllTags(wanted)
	}
}
