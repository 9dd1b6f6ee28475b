package memutils

import "math"

// Statistics is a snapshot of basic allocation traffic through a resource
// or device heap.
type Statistics struct {
	AllocationCount int
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.AllocationCount = 0
	s.AllocationBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.AllocationCount += other.AllocationCount
	s.AllocationBytes += other.AllocationBytes
}

// RemoveAllocation unwinds a previous AddAllocation when the allocation
// is returned.
func (s *Statistics) RemoveAllocation(size int) {
	s.AllocationCount--
	s.AllocationBytes -= size
}

// DetailedStatistics extends Statistics with per-allocation size extremes
// and the running peak of outstanding bytes.
type DetailedStatistics struct {
	Statistics
	AllocationSizeMin int
	AllocationSizeMax int
	PeakBytes         int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.PeakBytes = 0
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.AllocationCount++
	s.AllocationBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}

	if s.AllocationBytes > s.PeakBytes {
		s.PeakBytes = s.AllocationBytes
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}

	if other.PeakBytes > s.PeakBytes {
		s.PeakBytes = other.PeakBytes
	}
}
