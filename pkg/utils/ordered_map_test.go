package utils_test

import (
	"encoding/json"
	"testing"

	"its-hmny.dev/nand2tetris/pkg/utils"
)

func TestOrderedMap_SetPreservesInsertionOrder(t *testing.T) {
	om := utils.NewOrderedMap[string, int]()
	om.Set("c", 3)
	om.Set("a", 1)
	om.Set("b", 2)
	om.Set("a", 42) // Update, should not move 'a' from its original position.

	entries := om.Entries()
	expected := []int{3, 42, 2}
	for i, want := range expected {
		if entries[i] != want {
			t.Fatalf("Entries()[%d] = %d, want %d", i, entries[i], want)
		}
	}

	if value, ok := om.Get("a"); !ok || value != 42 {
		t.Fatalf("Get(\"a\") = (%d, %v), want (42, true)", value, ok)
	}
	if _, ok := om.Get("z"); ok {
		t.Fatal("Get(\"z\") reported found for a key never set")
	}
}

func TestOrderedMap_JSONRoundTrip(t *testing.T) {
	om := utils.NewOrderedMapFromList([]utils.MapEntry[string, int]{
		{Key: "first", Value: 1},
		{Key: "second", Value: 2},
	})

	data, err := json.Marshal(om)
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}

	var restored utils.OrderedMap[string, int]
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}

	if restored.Size() != 2 {
		t.Fatalf("restored.Size() = %d, want 2", restored.Size())
	}
	if value, ok := restored.Get("second"); !ok || value != 2 {
		t.Fatalf("restored.Get(\"second\") = (%d, %v), want (2, true)", value, ok)
	}
	// Order must survive the round trip too, not just membership.
	pairs := restored.Pairs()
	if pairs[0].Key != "first" || pairs[1].Key != "second" {
		t.Fatalf("restored pairs out of order: %+v", pairs)
	}
}
