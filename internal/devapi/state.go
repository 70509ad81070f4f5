package devapi

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/artmarket-storefront/internal/fixtures"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

type account struct {
	user         types.User
	passwordHash string
}

type cartLine struct {
	id        string
	artworkID string
	quantity  int
}

type resetCode struct {
	userID    string
	expiresAt time.Time
}

// state is the whole in-memory backend. Every method takes the lock;
// callers get copies.
type state struct {
	mu sync.Mutex

	seq int

	artworks []types.Artwork
	artists  []types.Artist

	accounts map[string]*account
	byEmail  map[string]string

	likes     map[string]map[string]bool
	carts     map[string][]cartLine
	favorites map[string][]string
	addresses map[string][]types.Address
	orders    map[string][]types.Order

	revoked    map[string]struct{}
	resetCodes map[string]resetCode
}

func newState() *state {
	return &state{
		artworks:   fixtures.Artworks(),
		artists:    fixtures.Artists(),
		accounts:   make(map[string]*account),
		byEmail:    make(map[string]string),
		likes:      make(map[string]map[string]bool),
		carts:      make(map[string][]cartLine),
		favorites:  make(map[string][]string),
		addresses:  make(map[string][]types.Address),
		orders:     make(map[string][]types.Order),
		revoked:    make(map[string]struct{}),
		resetCodes: make(map[string]resetCode),
	}
}

func (s *state) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *state) artworkList() []types.Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.artworks)
}

func (s *state) artistList() []types.Artist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.artists)
}

func (s *state) artwork(id string) (types.Artwork, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.artworkIndex(id)
	if i < 0 {
		return types.Artwork{}, false
	}
	return s.artworks[i], true
}

func (s *state) artworkIndex(id string) int {
	return slices.IndexFunc(s.artworks, func(a types.Artwork) bool { return a.ID == id })
}

func (s *state) artist(id string) (types.Artist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.artists, func(a types.Artist) bool { return a.ID == id })
	if i < 0 {
		return types.Artist{}, false
	}
	return s.artists[i], true
}

// toggleLike flips the user's like and returns the new state and count.
func (s *state) toggleLike(userID, artworkID string) (bool, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.artworkIndex(artworkID)
	if i < 0 {
		return false, 0, false
	}
	liked := s.likes[userID]
	if liked == nil {
		liked = make(map[string]bool)
		s.likes[userID] = liked
	}
	if liked[artworkID] {
		delete(liked, artworkID)
		s.artworks[i].Likes--
	} else {
		liked[artworkID] = true
		s.artworks[i].Likes++
	}
	return liked[artworkID], s.artworks[i].Likes, true
}

func (s *state) createAccount(user types.User, hash string) (types.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := normalizeEmail(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return types.User{}, false
	}
	user.ID = s.nextID("user")
	user.Email = email
	s.accounts[user.ID] = &account{user: user, passwordHash: hash}
	s.byEmail[email] = user.ID
	return user, true
}

func (s *state) accountByEmail(email string) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return account{}, false
	}
	return *s.accounts[id], true
}

func (s *state) accountByID(id string) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return account{}, false
	}
	return *acc, true
}

func (s *state) user(id string) (types.User, bool) {
	acc, ok := s.accountByID(id)
	return acc.user, ok
}

func (s *state) updateUser(id string, fn func(*types.User)) (types.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return types.User{}, false
	}
	fn(&acc.user)
	return acc.user, true
}

func (s *state) setPassword(id, hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return false
	}
	acc.passwordHash = hash
	return true
}

func (s *state) revoke(jti string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = struct{}{}
}

func (s *state) isRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok
}

func (s *state) storeResetCode(code, userID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCodes[code] = resetCode{userID: userID, expiresAt: expiresAt}
}

// consumeResetCode returns the user the code was issued for. Codes are
// single use; expired codes are dropped.
func (s *state) consumeResetCode(code string, now time.Time) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rc, ok := s.resetCodes[code]
	if !ok {
		return "", false
	}
	delete(s.resetCodes, code)
	if now.After(rc.expiresAt) {
		return "", false
	}
	return rc.userID, true
}

func (s *state) cart(userID string) []cartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.carts[userID])
}

// addToCart merges into an existing line for the artwork.
func (s *state) addToCart(userID, artworkID string, quantity int) cartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	for i := range lines {
		if lines[i].artworkID == artworkID {
			lines[i].quantity += quantity
			return lines[i]
		}
	}
	line := cartLine{id: s.nextID("line"), artworkID: artworkID, quantity: quantity}
	s.carts[userID] = append(lines, line)
	return line
}

func (s *state) setCartQuantity(userID, lineID string, quantity int) (cartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	for i := range lines {
		if lines[i].id == lineID {
			lines[i].quantity = quantity
			return lines[i], true
		}
	}
	return cartLine{}, false
}

func (s *state) removeCartLine(userID, lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	i := slices.IndexFunc(lines, func(l cartLine) bool { return l.id == lineID })
	if i < 0 {
		return false
	}
	s.carts[userID] = slices.Delete(lines, i, i+1)
	return true
}

func (s *state) clearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

func (s *state) favoriteIDs(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites[userID])
}

func (s *state) addFavorite(userID, artworkID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.favorites[userID], artworkID) {
		return
	}
	s.favorites[userID] = append(s.favorites[userID], artworkID)
}

func (s *state) removeFavorite(userID, artworkID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.favorites[userID]
	i := slices.Index(ids, artworkID)
	if i < 0 {
		return false
	}
	s.favorites[userID] = slices.Delete(ids, i, i+1)
	return true
}

func (s *state) addressList(userID string) []types.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.addresses[userID])
}

// saveAddress inserts or replaces an address. The first address is the
// default, and a new default demotes the previous one.
func (s *state) saveAddress(userID string, addr types.Address) (types.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.addresses[userID]
	idx := -1
	if addr.ID == "" {
		addr.ID = s.nextID("addr")
	} else {
		idx = slices.IndexFunc(list, func(a types.Address) bool { return a.ID == addr.ID })
		if idx < 0 {
			return types.Address{}, false
		}
	}
	if len(list) == 0 || (idx >= 0 && len(list) == 1) {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		for i := range list {
			list[i].IsDefault = false
		}
	}
	if idx >= 0 {
		list[idx] = addr
	} else {
		list = append(list, addr)
	}
	s.addresses[userID] = list
	return addr, true
}

func (s *state) deleteAddress(userID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.addresses[userID]
	i := slices.IndexFunc(list, func(a types.Address) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	wasDefault := list[i].IsDefault
	list = slices.Delete(list, i, i+1)
	if wasDefault && len(list) > 0 {
		list[0].IsDefault = true
	}
	s.addresses[userID] = list
	return true
}

func (s *state) addOrder(userID string, order types.Order) types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = s.nextID("order")
	s.orders[userID] = append(s.orders[userID], order)
	return order
}

func (s *state) orderList(userID string) []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.orders[userID])
	slices.Reverse(out)
	return out
}

func (s *state) order(userID, id string) (types.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders[userID] {
		if o.ID == id {
			return o, true
		}
	}
	return types.Order{}, false
}
