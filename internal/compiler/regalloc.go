package compiler

// NoRegister is the "no register" placeholder sentinel (spec.md §3.4's
// REGISTER_LIMIT row).
const NoRegister = -1

// RegisterAllocator is the compile-time shadow of the virtual-register
// file: a LIFO stack of currently-live register indices plus a monotonic
// scratch counter. Grounded on the teacher's internal/vm.Compiler
// slotCount/locals bookkeeping (vm/compiler.go, vm/compiler_scope.go)
// generalized into a standalone allocator, with the contiguous-argument
// fast path grounded on nooga-paserati/pkg/compiler/regalloc.go's
// AllocContiguous/TryAllocContiguous.
//
// Because GetRegister always assigns the next monotonically increasing
// scratch index and pushes it, any run of N consecutive GetRegister calls
// with no intervening GiveUpRegister is contiguous by construction — the
// probe-then-fallback dance nooga-paserati's allocator performs collapses
// here to "always contiguous", which AllocContiguous exploits directly.
type RegisterAllocator struct {
	stack       []int
	nextScratch int
	maxReg      int

	// cachedNumerals maps a numeral literal's value (so 0 and -0 share an
	// entry) to a register recorded by CacheNumeral as holding it (spec.md §3.4's
	// "numeral literal data... kept in register file").
	cachedNumerals map[float64]int
}

// NewRegisterAllocator returns an empty allocator.
func NewRegisterAllocator() *RegisterAllocator {
	return &RegisterAllocator{cachedNumerals: make(map[float64]int)}
}

// GetRegister assigns the next scratch index and pushes it onto the LIFO.
func (r *RegisterAllocator) GetRegister() int {
	idx := r.nextScratch
	r.nextScratch++
	r.stack = append(r.stack, idx)
	r.bump(idx)
	return idx
}

// GiveUpRegister pops the top of the LIFO. The popped index is reclaimed
// into the scratch counter only when it is in fact the most recently
// allocated scratch register, preserving monotonicity for injected
// (PushRegister) indices that live outside the scratch range.
func (r *RegisterAllocator) GiveUpRegister() {
	n := len(r.stack)
	top := r.stack[n-1]
	r.stack = r.stack[:n-1]
	if top == r.nextScratch-1 {
		r.nextScratch--
	}
}

// PushRegister injects an externally-owned index — used when an
// identifier resolves to a stack slot and the stack-slot-bypass fast path
// applies, so the consumer reads the binding directly instead of through a
// freshly copied scratch.
func (r *RegisterAllocator) PushRegister(i int) {
	r.stack = append(r.stack, i)
	r.bump(i)
}

func (r *RegisterAllocator) bump(i int) {
	if i+1 > r.maxReg {
		r.maxReg = i + 1
	}
}

// Depth reports the current LIFO depth, used to assert register-stack
// balance around statement and expression emission.
func (r *RegisterAllocator) Depth() int {
	return len(r.stack)
}

// LastRegisterIndex peeks the k-th-from-top entry.
func (r *RegisterAllocator) LastRegisterIndex(k int) int {
	return r.stack[len(r.stack)-1-k]
}

// AllocContiguous allocates count scratch registers guaranteed contiguous
// and returns the first index.
func (r *RegisterAllocator) AllocContiguous(count int) int {
	if count == 0 {
		return r.nextScratch
	}
	start := r.GetRegister()
	for i := 1; i < count; i++ {
		r.GetRegister()
	}
	return start
}

// FreeContiguous gives up count registers previously obtained via
// AllocContiguous, in reverse (LIFO) order.
func (r *RegisterAllocator) FreeContiguous(count int) {
	for i := 0; i < count; i++ {
		r.GiveUpRegister()
	}
}

// CacheNumeral registers v as kept-in-register-file at reg, so future
// references to the same literal value reuse reg instead of reloading.
func (r *RegisterAllocator) CacheNumeral(v float64, reg int) {
	r.cachedNumerals[v] = reg
	r.bump(reg)
}

// LookupCachedNumeral reports whether v has a preloaded register.
func (r *RegisterAllocator) LookupCachedNumeral(v float64) (int, bool) {
	reg, ok := r.cachedNumerals[v]
	return reg, ok
}

// RequiredRegisterFileSize reports the high-water mark of register indices
// ever allocated — required_register_file_size_in_value_size.
func (r *RegisterAllocator) RequiredRegisterFileSize() int {
	return r.maxReg
}
