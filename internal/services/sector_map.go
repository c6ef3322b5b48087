package services

import (
	"slices"
)

// SectorRange is a run of 512-byte sectors. End is exclusive.
type SectorRange struct {
	Start uint64 `json:"start" yaml:"start"`
	End   uint64 `json:"end" yaml:"end"`
}

// Len returns the number of sectors in the range
func (r SectorRange) Len() uint64 {
	return r.End - r.Start
}

// SectorMap is a set of sectors kept as sorted, non-overlapping ranges
type SectorMap struct {
	ranges []SectorRange
	dirty  bool
}

// NewSectorMap creates an empty map
func NewSectorMap() *SectorMap {
	return &SectorMap{}
}

// Mark adds the sectors [start, end)
func (m *SectorMap) Mark(start, end uint64) {
	if end <= start {
		return
	}
	m.ranges = append(m.ranges, SectorRange{Start: start, End: end})
	m.dirty = true
}

// MarkSector adds a single sector
func (m *SectorMap) MarkSector(sector uint64) {
	m.Mark(sector, sector+1)
}

func (m *SectorMap) normalize() {
	if !m.dirty {
		return
	}
	slices.SortFunc(m.ranges, func(a, b SectorRange) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})

	merged := m.ranges[:0]
	for _, r := range m.ranges {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End {
			if r.End > merged[n-1].End {
				merged[n-1].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	m.ranges = merged
	m.dirty = false
}

// Contains reports whether sector is marked
func (m *SectorMap) Contains(sector uint64) bool {
	m.normalize()
	i, found := slices.BinarySearchFunc(m.ranges, sector, func(r SectorRange, s uint64) int {
		switch {
		case r.End <= s:
			return -1
		case r.Start > s:
			return 1
		}
		return 0
	})
	return found && i < len(m.ranges)
}

// Ranges returns the marked ranges in ascending order
func (m *SectorMap) Ranges() []SectorRange {
	m.normalize()
	return slices.Clone(m.ranges)
}

// Clip returns the ranges that fall below limit, truncating the one that straddles it
func (m *SectorMap) Clip(limit uint64) []SectorRange {
	m.normalize()
	var out []SectorRange
	for _, r := range m.ranges {
		if r.Start >= limit {
			break
		}
		if r.End > limit {
			r.End = limit
		}
		out = append(out, r)
	}
	return out
}

// Count returns the number of marked sectors
func (m *SectorMap) Count() uint64 {
	m.normalize()
	var n uint64
	for _, r := range m.ranges {
		n += r.Len()
	}
	return n
}
