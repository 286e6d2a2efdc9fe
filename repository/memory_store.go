package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inventory-order-service/models"

	"github.com/google/uuid"
)

// MemoryInventoryStore is an in-process InventoryStore. Every order and
// product row has its own lock, taken in ascending id order and released when
// the transaction ends. Writes are staged per transaction and applied
// atomically on commit, so an aborted transaction leaves no trace.
type MemoryInventoryStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]models.Product
	orders    map[uuid.UUID]models.Order
	items     map[uuid.UUID][]models.OrderItem
	movements []models.StockMovement
	rowLocks  map[uuid.UUID]chan struct{}
}

func NewMemoryInventoryStore() *MemoryInventoryStore {
	return &MemoryInventoryStore{
		products: make(map[uuid.UUID]models.Product),
		orders:   make(map[uuid.UUID]models.Order),
		items:    make(map[uuid.UUID][]models.OrderItem),
		rowLocks: make(map[uuid.UUID]chan struct{}),
	}
}

// PutProduct inserts or replaces a product row.
func (s *MemoryInventoryStore) PutProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products[p.ID] = p
}

func (s *MemoryInventoryStore) Product(id uuid.UUID) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// Order returns the committed order with its items.
func (s *MemoryInventoryStore) Order(id uuid.UUID) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, false
	}
	o.OrderItems = append([]models.OrderItem(nil), s.items[id]...)
	return o, true
}

func (s *MemoryInventoryStore) Movements(productID uuid.UUID) []models.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

func (s *MemoryInventoryStore) WithinTransaction(ctx context.Context, fn func(tx InventoryTx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	tx := &memoryTx{
		ctx:        ctx,
		store:      s,
		held:       make(map[uuid.UUID]struct{}),
		stock:      make(map[uuid.UUID]int),
		orders:     make(map[uuid.UUID]models.Order),
		deleted:    make(map[uuid.UUID]struct{}),
		newItems:   make(map[uuid.UUID][]models.OrderItem),
		quantities: make(map[uuid.UUID]int),
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

func (s *MemoryInventoryStore) rowLock(id uuid.UUID) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.rowLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[id] = ch
	}
	return ch
}

func (s *MemoryInventoryStore) commit(tx *memoryTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, stock := range tx.stock {
		p := s.products[id]
		p.CurrentStock = stock
		p.UpdatedAt = now
		s.products[id] = p
	}
	for id, o := range tx.orders {
		s.orders[id] = o
	}
	for orderID, items := range tx.newItems {
		s.items[orderID] = append(s.items[orderID], items...)
	}
	for orderID, items := range s.items {
		for i := range items {
			if q, ok := tx.quantities[items[i].ID]; ok {
				items[i].Quantity = q
			}
		}
		s.items[orderID] = items
	}
	for id := range tx.deleted {
		delete(s.orders, id)
		delete(s.items, id)
	}
	s.movements = append(s.movements, tx.movements...)
}

type memoryTx struct {
	ctx   context.Context
	store *MemoryInventoryStore

	held     map[uuid.UUID]struct{}
	acquired []chan struct{}

	stock      map[uuid.UUID]int
	orders     map[uuid.UUID]models.Order
	deleted    map[uuid.UUID]struct{}
	newItems   map[uuid.UUID][]models.OrderItem
	quantities map[uuid.UUID]int
	movements  []models.StockMovement
}

func (t *memoryTx) acquire(id uuid.UUID) error {
	if _, ok := t.held[id]; ok {
		return nil
	}
	ch := t.store.rowLock(id)
	select {
	case ch <- struct{}{}:
		t.held[id] = struct{}{}
		t.acquired = append(t.acquired, ch)
		return nil
	case <-t.ctx.Done():
		return fmt.Errorf("%w: waiting for row lock %s: %w", ErrTransient, id, t.ctx.Err())
	}
}

func (t *memoryTx) release() {
	for i := len(t.acquired) - 1; i >= 0; i-- {
		<-t.acquired[i]
	}
	t.acquired = nil
}

func (t *memoryTx) requireLock(id uuid.UUID) error {
	if _, ok := t.held[id]; !ok {
		return fmt.Errorf("row %s written without holding its lock", id)
	}
	return nil
}

func (t *memoryTx) LockOrder(orderID uuid.UUID) (*models.Order, error) {
	if err := t.acquire(orderID); err != nil {
		return nil, err
	}
	if _, gone := t.deleted[orderID]; gone {
		return nil, ErrNotFound
	}
	if o, ok := t.orders[orderID]; ok {
		return &o, nil
	}

	t.store.mu.Lock()
	o, ok := t.store.orders[orderID]
	t.store.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	o.OrderItems = nil
	return &o, nil
}

func (t *memoryTx) LockProducts(ids []uuid.UUID) ([]models.Product, error) {
	sorted := SortIDs(ids)
	for _, id := range sorted {
		if err := t.acquire(id); err != nil {
			return nil, err
		}
	}

	products := make([]models.Product, 0, len(sorted))
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, id := range sorted {
		p, ok := t.store.products[id]
		if !ok {
			continue
		}
		if stock, staged := t.stock[id]; staged {
			p.CurrentStock = stock
		}
		products = append(products, p)
	}
	return products, nil
}

func (t *memoryTx) SetProductStock(productID uuid.UUID, stock int) error {
	if err := t.requireLock(productID); err != nil {
		return err
	}
	if _, ok := t.store.Product(productID); !ok {
		return ErrNotFound
	}
	if stock < 0 {
		return fmt.Errorf("current_stock %d violates chk_products_current_stock", stock)
	}
	t.stock[productID] = stock
	return nil
}

func (t *memoryTx) RecordMovement(movement *models.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	movement.CreatedAt = time.Now()
	t.movements = append(t.movements, *movement)
	return nil
}

func (t *memoryTx) CreateOrder(order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if err := t.acquire(order.ID); err != nil {
		return err
	}
	row := *order
	row.OrderItems = nil
	t.orders[order.ID] = row
	return nil
}

func (t *memoryTx) UpdateOrderStatus(order *models.Order) error {
	if err := t.requireLock(order.ID); err != nil {
		return err
	}
	row := *order
	row.OrderItems = nil
	row.UpdatedAt = time.Now()
	t.orders[order.ID] = row
	return nil
}

func (t *memoryTx) DeleteOrder(orderID uuid.UUID) error {
	if err := t.requireLock(orderID); err != nil {
		return err
	}
	t.deleted[orderID] = struct{}{}
	delete(t.orders, orderID)
	delete(t.newItems, orderID)
	return nil
}

func (t *memoryTx) FindOrderItems(orderID uuid.UUID) ([]models.OrderItem, error) {
	t.store.mu.Lock()
	items := append([]models.OrderItem(nil), t.store.items[orderID]...)
	t.store.mu.Unlock()

	items = append(items, t.newItems[orderID]...)
	for i := range items {
		if q, ok := t.quantities[items[i].ID]; ok {
			items[i].Quantity = q
		}
	}
	return items, nil
}

func (t *memoryTx) CreateOrderItem(item *models.OrderItem) error {
	existing, _ := t.FindOrderItems(item.OrderID)
	for _, it := range existing {
		if it.ProductID == item.ProductID {
			return fmt.Errorf("%w: order %s already has a line for product %s", ErrDuplicate, item.OrderID, item.ProductID)
		}
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity %d violates chk_order_items_quantity", item.Quantity)
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	row := *item
	row.Product = nil
	t.newItems[item.OrderID] = append(t.newItems[item.OrderID], row)
	return nil
}

func (t *memoryTx) SetOrderItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity %d violates chk_order_items_quantity", quantity)
	}
	t.quantities[itemID] = quantity
	return nil
}
