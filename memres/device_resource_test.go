package memres_test

import (
	"testing"

	"github.com/gpumem/reservoir/driver"
	"github.com/gpumem/reservoir/memres"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testHeapSize = 1024 * 1024

func createSimDevice(t *testing.T) *driver.SimDevice {
	t.Helper()

	device, err := driver.NewSimDevice(testHeapSize)
	require.NoError(t, err)
	return device
}

func TestDeviceResourceAllocateFree(t *testing.T) {
	device := createSimDevice(t)
	resource := memres.NewDeviceResource(device)

	ptr, err := resource.Allocate(1024, driver.DefaultStream)
	require.NoError(t, err)
	require.NotEqual(t, driver.NullPtr, ptr)
	require.Zero(t, uintptr(ptr)%uintptr(driver.MinimumAlignment))

	resource.Deallocate(ptr, 1024, driver.DefaultStream)
	require.Zero(t, device.AllocationCount())
	require.NoError(t, device.Validate())
}

func TestDeviceResourceZeroByteAllocate(t *testing.T) {
	device := createSimDevice(t)
	resource := memres.NewDeviceResource(device)

	ptr, err := resource.Allocate(0, driver.DefaultStream)
	require.NoError(t, err)

	resource.Deallocate(ptr, 0, driver.DefaultStream)
	require.Zero(t, device.AllocationCount())
}

func TestDeviceResourceCapabilities(t *testing.T) {
	resource := memres.NewDeviceResource(createSimDevice(t))

	require.False(t, resource.SupportsStreams())
	require.True(t, resource.SupportsGetMemInfo())

	// Capability flags are constant across calls and unaffected by traffic
	ptr, err := resource.Allocate(256, driver.DefaultStream)
	require.NoError(t, err)
	require.False(t, resource.SupportsStreams())
	require.True(t, resource.SupportsGetMemInfo())
	resource.Deallocate(ptr, 256, driver.DefaultStream)
}

func TestDeviceResourceIgnoresStreamToken(t *testing.T) {
	resource := memres.NewDeviceResource(createSimDevice(t))

	// A resource that does not support streams still accepts any token
	ptr, err := resource.Allocate(512, driver.Stream(0xdead))
	require.NoError(t, err)
	resource.Deallocate(ptr, 512, driver.Stream(0xbeef))
}

func TestDeviceResourceEquality(t *testing.T) {
	device := createSimDevice(t)
	resourceA := memres.NewDeviceResource(device)
	resourceB := memres.NewDeviceResource(device)

	require.True(t, resourceA.IsEqual(resourceB))
	require.True(t, resourceB.IsEqual(resourceA))
	require.True(t, resourceA.IsEqual(resourceA))

	// A block allocated through A can be freed through B
	ptr, err := resourceA.Allocate(2048, driver.DefaultStream)
	require.NoError(t, err)
	resourceB.Deallocate(ptr, 2048, driver.DefaultStream)
	require.Zero(t, device.AllocationCount())
}

func TestDeviceResourceEqualityAcrossRuntimes(t *testing.T) {
	resourceA := memres.NewDeviceResource(createSimDevice(t))
	resourceB := memres.NewDeviceResource(createSimDevice(t))

	// Different device runtimes mean different heaps
	require.False(t, resourceA.IsEqual(resourceB))
	require.False(t, resourceB.IsEqual(resourceA))
}

func TestDeviceResourceGetMemInfo(t *testing.T) {
	resource := memres.NewDeviceResource(createSimDevice(t))

	free, total, err := resource.GetMemInfo(driver.DefaultStream)
	require.NoError(t, err)
	require.Equal(t, testHeapSize, total)
	require.LessOrEqual(t, free, total)
	require.GreaterOrEqual(t, free, 0)

	// Free capacity does not increase while an allocation is outstanding
	ptr, err := resource.Allocate(4096, driver.DefaultStream)
	require.NoError(t, err)

	freeAfter, totalAfter, err := resource.GetMemInfo(driver.DefaultStream)
	require.NoError(t, err)
	require.Equal(t, total, totalAfter)
	require.Less(t, freeAfter, free)

	resource.Deallocate(ptr, 4096, driver.DefaultStream)
}

func TestDeviceResourceOutOfMemory(t *testing.T) {
	resource := memres.NewDeviceResource(createSimDevice(t))

	_, total, err := resource.GetMemInfo(driver.DefaultStream)
	require.NoError(t, err)

	_, err = resource.Allocate(total+1, driver.DefaultStream)
	require.Error(t, err)

	var allocErr *memres.AllocationError
	require.ErrorAs(t, err, &allocErr)
	require.Equal(t, total+1, allocErr.Size)
	require.Equal(t, driver.ErrorMemoryAllocation, allocErr.Result)
}

func TestDeviceResourceScenario(t *testing.T) {
	device := createSimDevice(t)
	resource := memres.NewDeviceResource(device)

	blockX, err := resource.Allocate(1024, driver.DefaultStream)
	require.NoError(t, err)
	require.NotEqual(t, driver.NullPtr, blockX)

	free1, total, err := resource.GetMemInfo(driver.DefaultStream)
	require.NoError(t, err)
	require.LessOrEqual(t, free1, total)

	blockY, err := resource.Allocate(1024, driver.DefaultStream)
	require.NoError(t, err)
	require.NotEqual(t, blockX, blockY)

	resource.Deallocate(blockX, 1024, driver.DefaultStream)
	resource.Deallocate(blockY, 1024, driver.DefaultStream)

	require.Zero(t, device.AllocationCount())
	require.NoError(t, device.Validate())
}

func TestDeviceResourceAllocationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := NewMockDevice(ctrl)
	device.EXPECT().Malloc(100).Return(driver.NullPtr, driver.ErrorMemoryAllocation)

	resource := memres.NewDeviceResource(device)
	ptr, err := resource.Allocate(100, driver.DefaultStream)
	require.Equal(t, driver.NullPtr, ptr)

	var allocErr *memres.AllocationError
	require.ErrorAs(t, err, &allocErr)
	require.Equal(t, 100, allocErr.Size)
	require.Equal(t, driver.ErrorMemoryAllocation, allocErr.Result)
}

func TestDeviceResourceDeallocateFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := NewMockDevice(ctrl)
	device.EXPECT().Free(driver.DevicePtr(0x1000)).Return(driver.ErrorInvalidValue)

	resource := memres.NewDeviceResource(device)
	require.Panics(t, func() {
		resource.Deallocate(driver.DevicePtr(0x1000), 256, driver.DefaultStream)
	})
}

func TestDeviceResourceGetMemInfoFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := NewMockDevice(ctrl)
	device.EXPECT().MemGetInfo().Return(0, 0, driver.ErrorUnknown)

	resource := memres.NewDeviceResource(device)
	_, _, err := resource.GetMemInfo(driver.DefaultStream)

	var queryErr *memres.QueryError
	require.ErrorAs(t, err, &queryErr)
	require.Equal(t, driver.ErrorUnknown, queryErr.Result)
}
