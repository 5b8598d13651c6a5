package reconcile

import "sort"

// Diff is the work needed to make the managed events match the desired set.
// The three lists are disjoint.
type Diff struct {
	ToCreate  []DesiredEvent
	ToDelete  []ManagedEvent
	ToRecolor []ManagedEvent
}

func (d Diff) Empty() bool {
	return len(d.ToCreate) == 0 && len(d.ToDelete) == 0 && len(d.ToRecolor) == 0
}

func ComputeDiff(desired DesiredSet, managed ManagedSet, busyColor string) Diff {
	var d Diff

	for key, ev := range desired {
		m, ok := managed[key]
		if !ok {
			d.ToCreate = append(d.ToCreate, ev)
			continue
		}
		if m.Kind == KindBusy && m.Event.ColorID != busyColor {
			d.ToRecolor = append(d.ToRecolor, m)
		}
	}
	for key, m := range managed {
		if _, ok := desired[key]; !ok {
			d.ToDelete = append(d.ToDelete, m)
		}
	}

	// map order is random; sort for stable logs
	sort.Slice(d.ToCreate, func(i, j int) bool { return d.ToCreate[i].Key().less(d.ToCreate[j].Key()) })
	sort.Slice(d.ToDelete, func(i, j int) bool { return d.ToDelete[i].Key().less(d.ToDelete[j].Key()) })
	sort.Slice(d.ToRecolor, func(i, j int) bool { return d.ToRecolor[i].Key().less(d.ToRecolor[j].Key()) })
	return d
}
