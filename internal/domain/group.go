package domain

import (
	"crypto/md5" //nolint:gosec // short DOM identifier, not a security boundary
	"encoding/hex"
	"slices"
	"sort"
	"strings"
)

// SortOrder is the direction rows are ordered by display time within a group.
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// RegionGroup holds every row of one region.
type RegionGroup[R any] struct {
	Region string
	ID     string
	Rows   []R
}

// Groups is the partition of a row set by region, in first-seen order.
type Groups[R any] []RegionGroup[R]

// GroupOptions describes how a row type is partitioned and ordered.
type GroupOptions[R any] struct {
	// Tag prefixes region IDs ("station", "chart").
	Tag         string
	Region      func(R) string
	DisplayTime func(R) string
	Order       SortOrder
}

// RegionID derives the DOM-safe identifier of a region. Collisions are
// tolerated; lookups always go through the region name.
func RegionID(tag, name string) string {
	sum := md5.Sum([]byte(name)) //nolint:gosec // see import
	return tag + "-" + hex.EncodeToString(sum[:])[:8]
}

// GroupByRegion partitions rows by region and sorts each group by display time.
// Display times are "MM/DD HH:MM" strings and are compared lexically.
func GroupByRegion[R any](rows []R, opts GroupOptions[R]) Groups[R] {
	index := make(map[string]int)
	var groups Groups[R]
	for _, row := range rows {
		key := opts.Region(row)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, RegionGroup[R]{Region: key, ID: RegionID(opts.Tag, key)})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Rows, func(a, b R) int {
			c := strings.Compare(opts.DisplayTime(a), opts.DisplayTime(b))
			if opts.Order == SortDescending {
				return -c
			}
			return c
		})
	}
	return groups
}

// ByRegion returns the rows keyed by region name.
func (g Groups[R]) ByRegion() map[string][]R {
	out := make(map[string][]R, len(g))
	for _, grp := range g {
		out[grp.Region] = grp.Rows
	}
	return out
}

// IDs returns the region ID keyed by region name.
func (g Groups[R]) IDs() map[string]string {
	out := make(map[string]string, len(g))
	for _, grp := range g {
		out[grp.Region] = grp.ID
	}
	return out
}

// Regions returns the region names sorted lexically.
func (g Groups[R]) Regions() []string {
	names := make([]string, 0, len(g))
	for _, grp := range g {
		names = append(names, grp.Region)
	}
	sort.Strings(names)
	return names
}

// RowCount returns the total number of rows across all groups.
func (g Groups[R]) RowCount() int {
	n := 0
	for _, grp := range g {
		n += len(grp.Rows)
	}
	return n
}
