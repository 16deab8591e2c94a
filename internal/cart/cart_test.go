package cart

import "testing"

func TestAddItemIncrementsExistingQuantity(t *testing.T) {
	s := NewStore()

	item := Item{ProductID: "p1", Name: "Noir Intense", Price: 100}
	for i := 0; i < 3; i++ {
		s.AddItem("u1", item)
	}

	items := s.Items("u1")
	if len(items) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3 after 3 adds, got %d", items[0].Quantity)
	}
	if got := s.Total("u1"); got != 300 {
		t.Fatalf("expected total 300, got %v", got)
	}
}

func TestAddItemReportsNewVersusExisting(t *testing.T) {
	s := NewStore()

	if _, added := s.AddItem("u1", Item{ProductID: "p1", Price: 10}); !added {
		t.Fatal("first add should report a new item")
	}
	if _, added := s.AddItem("u1", Item{ProductID: "p1", Price: 10}); added {
		t.Fatal("second add of same product should report an increment")
	}
}

func TestUpdateQuantityZeroRemovesItem(t *testing.T) {
	s := NewStore()
	s.AddItem("u1", Item{ProductID: "p1", Price: 50})

	if !s.UpdateQuantity("u1", "p1", 0) {
		t.Fatal("expected update to quantity 0 to succeed as removal")
	}
	if len(s.Items("u1")) != 0 {
		t.Fatal("expected cart to be empty after quantity set to 0")
	}
	if got := s.Total("u1"); got != 0 {
		t.Fatalf("expected total 0, got %v", got)
	}
}

func TestUpdateQuantityOnlyTouchesTargetItem(t *testing.T) {
	s := NewStore()
	s.AddItem("u1", Item{ProductID: "p1", Price: 100})
	s.AddItem("u1", Item{ProductID: "p2", Price: 50})

	if !s.UpdateQuantity("u1", "p1", 2) {
		t.Fatal("expected update to succeed")
	}

	for _, item := range s.Items("u1") {
		switch item.ProductID {
		case "p1":
			if item.Quantity != 2 {
				t.Fatalf("expected p1 quantity 2, got %d", item.Quantity)
			}
		case "p2":
			if item.Quantity != 1 {
				t.Fatalf("expected p2 quantity untouched at 1, got %d", item.Quantity)
			}
		}
	}
}

func TestUpdateQuantityRejectsNegativeAndUnknown(t *testing.T) {
	s := NewStore()
	s.AddItem("u1", Item{ProductID: "p1", Price: 10})

	if s.UpdateQuantity("u1", "p1", -1) {
		t.Fatal("negative quantity should be rejected")
	}
	if s.UpdateQuantity("u1", "missing", 2) {
		t.Fatal("unknown product should be rejected")
	}
	if items := s.Items("u1"); len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("cart should be unchanged, got %+v", items)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	s := NewStore()
	s.AddItem("u1", Item{ProductID: "p1", Price: 100})
	s.AddItem("u1", Item{ProductID: "p2", Price: 50})

	s.Clear("u1")

	if len(s.Items("u1")) != 0 {
		t.Fatal("expected empty cart after clear")
	}
	if got := s.Total("u1"); got != 0 {
		t.Fatalf("expected total 0 after clear, got %v", got)
	}
}

func TestTotalAcrossMixedItems(t *testing.T) {
	s := NewStore()
	s.AddItem("u1", Item{ProductID: "a", Price: 100})
	s.AddItem("u1", Item{ProductID: "a", Price: 100})
	s.AddItem("u1", Item{ProductID: "b", Price: 50})

	if got := s.Total("u1"); got != 250 {
		t.Fatalf("expected total 250, got %v", got)
	}

	s.RemoveItem("u1", "b")
	if got := s.Total("u1"); got != 200 {
		t.Fatalf("expected total 200 after removing b, got %v", got)
	}
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	s := NewStore()
	s.AddItem("u1", Item{ProductID: "p1", Price: 10})
	s.AddItem("u2", Item{ProductID: "p1", Price: 10})

	s.Clear("u1")

	if len(s.Items("u2")) != 1 {
		t.Fatal("clearing one user's cart must not touch another's")
	}
}
