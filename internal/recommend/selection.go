package recommend

import (
	"sort"

	"shelfpick/internal/media"
)

// orderByPriority stably reorders candidates so that items from
// higher-priority buckets come first. Buckets absent from the priority list
// follow in alphabetical order; order within a bucket is preserved.
func orderByPriority(candidates []media.Item, priority []string) []media.Item {
	rank := make(map[string]int, len(priority))
	for i, bucket := range priority {
		rank[bucket] = i
	}

	buckets := make(map[string][]media.Item)
	for _, candidate := range candidates {
		bucket := candidate.Source.Bucket()
		buckets[bucket] = append(buckets[bucket], candidate)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iKnown := rank[names[i]]
		rj, jKnown := rank[names[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return names[i] < names[j]
		}
	})

	ordered := make([]media.Item, 0, len(candidates))
	for _, name := range names {
		ordered = append(ordered, buckets[name]...)
	}
	return ordered
}

// balanced selects up to quota.Total items, spreading the picks as evenly as
// possible across the source buckets present in candidates. Selection walks
// the buckets round robin in priority order, so the quota remainder lands on
// the higher-priority buckets and shortfall from a starved bucket flows to
// the remaining ones. When quota.PerSource is set, a first pass respects the
// cap; a second pass redistributes any leftover capacity. The result never
// holds fewer than min(quota.Total, len(candidates)) items.
func balanced(candidates []media.Item, priority []string, quota Quota) []media.Item {
	if len(candidates) == 0 || quota.Total <= 0 {
		return []media.Item{}
	}

	ordered := orderByPriority(candidates, priority)

	bucketOrder := make([]string, 0)
	queues := make(map[string][]media.Item)
	for _, candidate := range ordered {
		bucket := candidate.Source.Bucket()
		if _, ok := queues[bucket]; !ok {
			bucketOrder = append(bucketOrder, bucket)
		}
		queues[bucket] = append(queues[bucket], candidate)
	}

	selection := make([]media.Item, 0, quota.Total)
	taken := make(map[string]int, len(bucketOrder))

	take := func(capPerBucket int) {
		for len(selection) < quota.Total {
			progress := false
			for _, bucket := range bucketOrder {
				if len(selection) >= quota.Total {
					break
				}
				queue := queues[bucket]
				if len(queue) == 0 {
					continue
				}
				if capPerBucket > 0 && taken[bucket] >= capPerBucket {
					continue
				}
				selection = append(selection, queue[0])
				queues[bucket] = queue[1:]
				taken[bucket]++
				progress = true
			}
			if !progress {
				break
			}
		}
	}

	take(quota.PerSource)
	if quota.PerSource > 0 {
		// Redistribute capacity left over by capped or starved buckets.
		take(0)
	}
	return selection
}
