package cpu

// number of general purpose registers
const NumRegs = 32

const (
	// hook each executed instruction
	HOOK_CODE = 4

	// hook (after) each successful memory read/write issued by the cpu
	HOOK_MEM_READ  = 1024
	HOOK_MEM_WRITE = 2048

	// hook cache hit/miss/evict events
	HOOK_CACHE = 8192
)

// these constants are used in a hook to specify the type of memory access
const (
	MEM_WRITE = 16
	MEM_READ  = 17
)

// these constants are passed to HOOK_CACHE callbacks
const (
	CACHE_HIT   = 1
	CACHE_MISS  = 2
	CACHE_EVICT = 3
)

func CacheEventName(event int) string {
	switch event {
	case CACHE_HIT:
		return "hit"
	case CACHE_MISS:
		return "miss"
	case CACHE_EVICT:
		return "evict"
	}
	return "?"
}
