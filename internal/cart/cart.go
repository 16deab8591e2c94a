// Package cart holds per-user shopping carts in memory. Carts are ephemeral:
// nothing here is persisted, and a restart empties every cart. Durable state
// begins at checkout when the order document is written.
package cart

import "sync"

// Item is a lightweight product snapshot plus a quantity. A product id
// appears at most once per cart.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Size      string  `json:"size,omitempty"`
	ImagePath string  `json:"imagePath,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Store keeps one cart per user id. All methods are safe for concurrent use
// by request handlers.
type Store struct {
	mu    sync.Mutex
	carts map[string][]Item
}

func NewStore() *Store {
	return &Store{carts: make(map[string][]Item)}
}

// AddItem adds the product to the user's cart. If the product is already
// present its quantity is incremented by one and added is false; otherwise
// the item is appended with quantity 1 and added is true.
func (s *Store) AddItem(userID string, item Item) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity++
			return items[i], false
		}
	}

	item.Quantity = 1
	s.carts[userID] = append(items, item)
	return item, true
}

// UpdateQuantity sets the quantity for one product. Quantity zero removes the
// item. Negative quantities and unknown products report false with no change.
func (s *Store) UpdateQuantity(userID, productID string, quantity int) bool {
	if quantity < 0 {
		return false
	}
	if quantity == 0 {
		return s.RemoveItem(userID, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveItem deletes the product from the cart, reporting whether it was
// present.
func (s *Store) RemoveItem(userID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the user's cart.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Items returns a copy of the user's cart.
func (s *Store) Items(userID string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Total recomputes the cart total on every call.
func (s *Store) Total(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.carts[userID] {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
