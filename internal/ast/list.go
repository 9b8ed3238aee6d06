package ast

// listNode is one sentinel in a singly linked node list.
type listNode struct {
	value Node
	next  *listNode
}

// smallListCap is the size below which List keeps elements in a stack-
// resident array instead of allocating sentinel nodes, matching the
// contiguous fast path used to detect register-contiguity for call
// arguments, array elements, and similar short lists.
const smallListCap = 16

// List is a singly linked list of AST nodes with O(1) append and a small-
// size fast path. Argument lists, array/object elements, class bodies, and
// switch cases are all represented this way so that parse-time growth never
// requires copying, while codegen can still obtain a contiguous view for
// lists of up to smallListCap entries.
type List struct {
	small    [smallListCap]Node
	smallLen int

	head *listNode
	tail *listNode
	size int
}

// Append adds n to the end of the list in O(1).
func (l *List) Append(n Node) {
	if l.head == nil && l.smallLen < smallListCap {
		l.small[l.smallLen] = n
		l.smallLen++
		l.size++
		return
	}
	if l.head == nil {
		// migrate the small buffer into sentinel nodes once it overflows;
		// pushSentinel re-counts each migrated element, so uncount them first
		l.size -= l.smallLen
		for i := 0; i < l.smallLen; i++ {
			l.pushSentinel(l.small[i])
		}
		l.smallLen = 0
	}
	l.pushSentinel(n)
}

func (l *List) pushSentinel(n Node) {
	sn := &listNode{value: n}
	if l.tail == nil {
		l.head = sn
		l.tail = sn
	} else {
		l.tail.next = sn
		l.tail = sn
	}
	l.size++
}

// Len reports the number of elements.
func (l *List) Len() int {
	return l.size
}

// Each calls fn with every element, forward-only, in append order.
func (l *List) Each(fn func(Node)) {
	if l.head == nil {
		for i := 0; i < l.smallLen; i++ {
			fn(l.small[i])
		}
		return
	}
	for n := l.head; n != nil; n = n.next {
		fn(n.value)
	}
}

// Contiguous returns a slice view of the elements when the list is still in
// its small-buffer fast path (size <= smallListCap and never spilled to
// sentinels), and ok=false otherwise. Callers use this to detect
// register-contiguity candidates (e.g. call-argument lists) without paying
// for a full traversal.
func (l *List) Contiguous() (elems []Node, ok bool) {
	if l.head != nil {
		return nil, false
	}
	return l.small[:l.smallLen], true
}

// Slice materializes the list into a plain slice regardless of its
// internal representation; callers that need random access (e.g. switch
// case ordering) use this.
func (l *List) Slice() []Node {
	out := make([]Node, 0, l.size)
	l.Each(func(n Node) { out = append(out, n) })
	return out
}
