// Package storetest provides in-memory store implementations for tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"verideal_back_end/internal/models"
	"verideal_back_end/internal/store"
)

type cartKey struct {
	userID    string
	productID int64
}

// Carts is a CartStore backed by a map. Set Err to make every call fail.
type Carts struct {
	mu    sync.Mutex
	rows  map[cartKey]models.CartLine
	clock int64
	Err   error
	Calls int
}

func NewCarts() *Carts {
	return &Carts{rows: map[cartKey]models.CartLine{}}
}

// tick returns strictly increasing timestamps so row versions always differ.
func (c *Carts) tick() time.Time {
	c.clock++
	return time.Unix(1700000000, 0).Add(time.Duration(c.clock) * time.Millisecond).UTC()
}

func (c *Carts) ListCart(_ context.Context, userID string) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	lines := []models.CartLine{}
	for k, v := range c.rows {
		if k.userID == userID {
			lines = append(lines, v)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].CreatedAt.Before(lines[j].CreatedAt) })
	return lines, nil
}

func (c *Carts) IncrementLine(_ context.Context, userID string, line models.CartLine) (models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return models.CartLine{}, c.Err
	}
	k := cartKey{userID, line.ProductID}
	now := c.tick()
	if cur, ok := c.rows[k]; ok {
		cur.Quantity += line.Quantity
		cur.UpdatedAt = now
		c.rows[k] = cur
		return cur, nil
	}
	line.CreatedAt, line.UpdatedAt = now, now
	c.rows[k] = line
	return line, nil
}

func (c *Carts) UpsertLine(_ context.Context, userID string, line models.CartLine) (models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return models.CartLine{}, c.Err
	}
	k := cartKey{userID, line.ProductID}
	now := c.tick()
	if cur, ok := c.rows[k]; ok {
		line.CreatedAt = cur.CreatedAt
	} else {
		line.CreatedAt = now
	}
	line.UpdatedAt = now
	c.rows[k] = line
	return line, nil
}

func (c *Carts) DeleteLine(_ context.Context, userID string, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return c.Err
	}
	delete(c.rows, cartKey{userID, productID})
	return nil
}

func (c *Carts) ClearCart(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return c.Err
	}
	for k := range c.rows {
		if k.userID == userID {
			delete(c.rows, k)
		}
	}
	return nil
}

// Line returns the stored row, bypassing Err.
func (c *Carts) Line(userID string, productID int64) (models.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.rows[cartKey{userID, productID}]
	return l, ok
}

// Put writes a row directly, as another device would.
func (c *Carts) Put(userID string, line models.CartLine) models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.tick()
	if line.CreatedAt.IsZero() {
		line.CreatedAt = now
	}
	if line.UpdatedAt.IsZero() {
		line.UpdatedAt = now
	}
	c.rows[cartKey{userID, line.ProductID}] = line
	return line
}

// Wishlists is a WishlistStore backed by a map.
type Wishlists struct {
	mu    sync.Mutex
	rows  map[cartKey]models.WishlistEntry
	clock int64
	Err   error
}

func NewWishlists() *Wishlists {
	return &Wishlists{rows: map[cartKey]models.WishlistEntry{}}
}

func (w *Wishlists) ListWishlist(_ context.Context, userID string) ([]models.WishlistEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return nil, w.Err
	}
	entries := []models.WishlistEntry{}
	for k, v := range w.rows {
		if k.userID == userID {
			entries = append(entries, v)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

func (w *Wishlists) InsertEntry(_ context.Context, entry models.WishlistEntry) (models.WishlistEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return models.WishlistEntry{}, w.Err
	}
	k := cartKey{entry.UserID, entry.ProductID}
	if _, ok := w.rows[k]; ok {
		return models.WishlistEntry{}, models.ErrDuplicateEntry
	}
	w.clock++
	entry.CreatedAt = time.Unix(1700000000, 0).Add(time.Duration(w.clock) * time.Millisecond).UTC()
	w.rows[k] = entry
	return entry, nil
}

func (w *Wishlists) DeleteEntry(_ context.Context, userID string, productID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	delete(w.rows, cartKey{userID, productID})
	return nil
}

// Reviews is a ReviewStore backed by a map.
type Reviews struct {
	mu   sync.Mutex
	rows map[cartKey]models.Review
	Err  error
}

func NewReviews() *Reviews {
	return &Reviews{rows: map[cartKey]models.Review{}}
}

func (r *Reviews) GetReview(_ context.Context, userID string, productID int64) (models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return models.Review{}, r.Err
	}
	rev, ok := r.rows[cartKey{userID, productID}]
	if !ok {
		return models.Review{}, models.ErrReviewNotFound
	}
	return rev, nil
}

func (r *Reviews) InsertReview(_ context.Context, review models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	k := cartKey{review.UserID, review.ProductID}
	if _, ok := r.rows[k]; ok {
		return models.ErrAlreadyReviewed
	}
	r.rows[k] = review
	return nil
}

func (r *Reviews) DeleteReview(_ context.Context, userID string, productID int64) (models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return models.Review{}, r.Err
	}
	k := cartKey{userID, productID}
	rev, ok := r.rows[k]
	if !ok {
		return models.Review{}, models.ErrReviewNotFound
	}
	delete(r.rows, k)
	return rev, nil
}

// Ratings is a RatingStore backed by a map.
type Ratings struct {
	mu   sync.Mutex
	rows map[int64]models.RatingState
	Err  error
}

func NewRatings() *Ratings {
	return &Ratings{rows: map[int64]models.RatingState{}}
}

func (r *Ratings) GetRating(_ context.Context, productID int64) (models.RatingState, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return models.RatingState{}, false, r.Err
	}
	s, ok := r.rows[productID]
	return s, ok, nil
}

func (r *Ratings) UpdateRating(_ context.Context, productID int64, fn store.RatingMutation) (models.RatingState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return models.RatingState{}, r.Err
	}
	cur, found := r.rows[productID]
	next, keep, err := fn(cur, found)
	if err != nil {
		return models.RatingState{}, err
	}
	if keep {
		r.rows[productID] = next
	} else {
		delete(r.rows, productID)
	}
	return next, nil
}

// Orders is an OrderStore backed by a map.
type Orders struct {
	mu   sync.Mutex
	rows map[string]models.Order
	Err  error
}

func NewOrders() *Orders {
	return &Orders{rows: map[string]models.Order{}}
}

func (o *Orders) SaveOrder(_ context.Context, order models.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.rows[order.UserID] = order
	return nil
}

func (o *Orders) LastOrder(_ context.Context, userID string) (models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.rows[userID]
	if !ok {
		return models.Order{}, models.ErrNotFound
	}
	return order, nil
}

// Users is a UserStore and ProfileStore backed by maps.
type Users struct {
	mu       sync.Mutex
	byID     map[string]models.User
	byEmail  map[string]string
	profiles map[string]models.Profile
}

func NewUsers() *Users {
	return &Users{
		byID:     map[string]models.User{},
		byEmail:  map[string]string{},
		profiles: map[string]models.Profile{},
	}
}

func (u *Users) CreateUser(_ context.Context, user models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.byEmail[user.Email]; ok {
		return models.ErrDuplicateEntry
	}
	u.byEmail[user.Email] = user.ID
	u.byID[user.ID] = user
	return nil
}

func (u *Users) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id, ok := u.byEmail[email]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u.byID[id], nil
}

func (u *Users) GetUserByID(_ context.Context, userID string) (models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[userID]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return user, nil
}

func (u *Users) GetProfile(_ context.Context, userID string) (models.Profile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	p, ok := u.profiles[userID]
	if !ok {
		return models.Profile{}, models.ErrNotFound
	}
	return p, nil
}

func (u *Users) UpsertProfile(_ context.Context, profile models.Profile) (models.Profile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	profile.UpdatedAt = time.Now().UTC()
	u.profiles[profile.UserID] = profile
	return profile, nil
}

var (
	_ store.CartStore     = (*Carts)(nil)
	_ store.WishlistStore = (*Wishlists)(nil)
	_ store.ReviewStore   = (*Reviews)(nil)
	_ store.RatingStore   = (*Ratings)(nil)
	_ store.OrderStore    = (*Orders)(nil)
	_ store.UserStore     = (*Users)(nil)
	_ store.ProfileStore  = (*Users)(nil)
)
