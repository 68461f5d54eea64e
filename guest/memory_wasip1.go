//go:build wasip1

package guest

import (
	"fmt"
	"sync"
	"unsafe"
)

// MaxTotalAllocations caps memory handed out through allocate.
const MaxTotalAllocations = 100 * 1024 * 1024

// memoryManager pins allocated slices so the GC keeps them alive until the
// host or guest frees them.
var memoryManager = struct {
	sync.Mutex
	ptrs           map[uint32][]byte
	totalAllocated int
}{
	ptrs: make(map[uint32][]byte),
}

// allocate reserves size bytes for the host to write a response into.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	memoryManager.Lock()
	defer memoryManager.Unlock()

	if memoryManager.totalAllocated+int(size) > MaxTotalAllocations {
		panic(fmt.Sprintf("guest: allocation limit exceeded (requested %d, in use %d, limit %d)",
			size, memoryManager.totalAllocated, MaxTotalAllocations))
	}

	buf := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))
	memoryManager.ptrs[ptr] = buf
	memoryManager.totalAllocated += int(size)
	return ptr
}

// deallocate unpins memory returned by allocate. Unknown pointers are ignored.
//
//go:wasmexport deallocate
func deallocate(ptr uint32, _ uint32) {
	memoryManager.Lock()
	defer memoryManager.Unlock()

	buf, ok := memoryManager.ptrs[ptr]
	if !ok {
		return
	}
	delete(memoryManager.ptrs, ptr)
	memoryManager.totalAllocated -= len(buf)
	if memoryManager.totalAllocated < 0 {
		memoryManager.totalAllocated = 0
	}
}

// PtrFromBytes copies data into tracked guest memory and returns it packed.
func PtrFromBytes(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	size := uint32(len(data))
	ptr := allocate(size)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), len(data)), data) //nolint:gosec // G103: WASM linear memory access
	return PackPtrLen(ptr, size)
}

// BytesFromPtr copies the bytes a packed pointer refers to.
func BytesFromPtr(packed uint64) []byte {
	ptr, length := UnpackPtrLen(packed)
	if ptr == 0 || length == 0 {
		return nil
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length) //nolint:gosec // G103: WASM linear memory access
	return append([]byte(nil), src...)
}

// DeallocatePacked frees memory referenced by a packed pointer.
func DeallocatePacked(packed uint64) {
	ptr, length := UnpackPtrLen(packed)
	if ptr != 0 && length > 0 {
		deallocate(ptr, length)
	}
}
