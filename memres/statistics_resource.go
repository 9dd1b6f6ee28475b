package memres

import (
	"github.com/gpumem/reservoir/driver"
	"github.com/gpumem/reservoir/internal/utils"
	"github.com/gpumem/reservoir/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// StatisticsResource is a decorator that tracks live allocation counts,
// byte usage, size extremes, and peak usage of the wrapped resource.
//
// Like LoggingResource, it changes nothing about which memory the wrapped
// resource can free- equality delegates downward.
type StatisticsResource struct {
	upstream Resource

	mutex                 utils.OptionalRWMutex
	stats                 memutils.DetailedStatistics
	failedAllocationCount int
	failedAllocationBytes int
}

var _ Resource = (*StatisticsResource)(nil)

// NewStatisticsResource creates a StatisticsResource wrapping upstream.
// When externallySynchronized is true the internal counters are not
// protected by a mutex, and the consumer must guarantee single-threaded
// access.
func NewStatisticsResource(upstream Resource, externallySynchronized bool) *StatisticsResource {
	resource := &StatisticsResource{
		upstream: upstream,
		mutex:    utils.OptionalRWMutex{UseMutex: !externallySynchronized},
	}
	resource.stats.Clear()
	return resource
}

// Upstream returns the resource this decorator wraps.
func (r *StatisticsResource) Upstream() Resource {
	return r.upstream
}

// SupportsStreams reports whether the wrapped resource orders against
// streams.
func (r *StatisticsResource) SupportsStreams() bool {
	return r.upstream.SupportsStreams()
}

// SupportsGetMemInfo reports whether the wrapped resource implements
// GetMemInfo.
func (r *StatisticsResource) SupportsGetMemInfo() bool {
	return r.upstream.SupportsGetMemInfo()
}

// Allocate forwards to the wrapped resource and accounts for the outcome.
func (r *StatisticsResource) Allocate(size int, stream driver.Stream) (driver.DevicePtr, error) {
	ptr, err := r.upstream.Allocate(size, stream)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err != nil {
		r.failedAllocationCount++
		r.failedAllocationBytes += size
		return ptr, err
	}

	r.stats.AddAllocation(size)
	return ptr, nil
}

// Deallocate forwards to the wrapped resource and unwinds the accounting
// for the freed block.
func (r *StatisticsResource) Deallocate(ptr driver.DevicePtr, size int, stream driver.Stream) {
	r.upstream.Deallocate(ptr, size, stream)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.stats.RemoveAllocation(size)
}

// GetMemInfo forwards to the wrapped resource.
func (r *StatisticsResource) GetMemInfo(stream driver.Stream) (free, total int, err error) {
	return r.upstream.GetMemInfo(stream)
}

// IsEqual delegates to the wrapped resource.
func (r *StatisticsResource) IsEqual(other Resource) bool {
	return r.upstream.IsEqual(unwrapResource(other))
}

// Statistics returns a snapshot of the live allocation count and bytes.
func (r *StatisticsResource) Statistics() memutils.Statistics {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.stats.Statistics
}

// DetailedStatistics returns a snapshot including size extremes and the
// peak of outstanding bytes.
func (r *StatisticsResource) DetailedStatistics() memutils.DetailedStatistics {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.stats
}

// FailedAllocations returns the number of allocation requests the wrapped
// resource rejected and the bytes they asked for in total.
func (r *StatisticsResource) FailedAllocations() (count, bytes int) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.failedAllocationCount, r.failedAllocationBytes
}

func (r *StatisticsResource) printParameters(json *jwriter.ObjectState) {
	json.Name("AllocationCount").Int(r.stats.AllocationCount)
	json.Name("AllocationBytes").Int(r.stats.AllocationBytes)
	json.Name("PeakBytes").Int(r.stats.PeakBytes)

	sizeMin := r.stats.AllocationSizeMin
	if r.stats.AllocationCount == 0 && sizeMin > r.stats.AllocationSizeMax {
		sizeMin = 0
	}
	json.Name("AllocationSizeMin").Int(sizeMin)
	json.Name("AllocationSizeMax").Int(r.stats.AllocationSizeMax)

	json.Name("FailedAllocationCount").Int(r.failedAllocationCount)
	json.Name("FailedAllocationBytes").Int(r.failedAllocationBytes)
}

// BuildStatsString renders the current statistics as a JSON document.
func (r *StatisticsResource) BuildStatsString() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	writer := jwriter.NewWriter()
	obj := writer.Object()
	r.printParameters(&obj)
	obj.End()

	return string(writer.Bytes())
}
