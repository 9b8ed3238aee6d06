package ast

import "testing"

func TestNodeKindAndPosImmutableAtConstruction(t *testing.T) {
	id := NewIdentifier(42, "x")
	if id.Kind() != KindIdentifier {
		t.Fatalf("got kind %v, want KindIdentifier", id.Kind())
	}
	if id.Pos() != 42 {
		t.Fatalf("got pos %d, want 42", id.Pos())
	}
}

func TestLiteralHoldsPrimitiveValue(t *testing.T) {
	lit := NewLiteral(0, float64(3.5))
	v, ok := lit.Value.(float64)
	if !ok || v != 3.5 {
		t.Fatalf("literal value not preserved: %#v", lit.Value)
	}
}

func TestListSmallFastPathContiguous(t *testing.T) {
	var l List
	for i := 0; i < 5; i++ {
		l.Append(NewIdentifier(i, "a"))
	}
	elems, ok := l.Contiguous()
	if !ok {
		t.Fatal("expected contiguous fast path for 5 elements")
	}
	if len(elems) != 5 {
		t.Fatalf("got %d elements, want 5", len(elems))
	}
}

func TestListSpillsPastSmallCap(t *testing.T) {
	var l List
	for i := 0; i < smallListCap+3; i++ {
		l.Append(NewIdentifier(i, "a"))
	}
	if _, ok := l.Contiguous(); ok {
		t.Fatal("expected spill past small-list fast path")
	}
	if l.Len() != smallListCap+3 {
		t.Fatalf("got len %d, want %d", l.Len(), smallListCap+3)
	}
	var seen int
	l.Each(func(n Node) { seen++ })
	if seen != l.Len() {
		t.Fatalf("Each visited %d nodes, want %d", seen, l.Len())
	}
}

func TestListPreservesAppendOrder(t *testing.T) {
	var l List
	for i := 0; i < 20; i++ {
		l.Append(NewIdentifier(i, "a"))
	}
	var order []int
	l.Each(func(n Node) { order = append(order, n.Pos()) })
	for i, p := range order {
		if p != i {
			t.Fatalf("order broken at %d: got pos %d", i, p)
		}
	}
}
