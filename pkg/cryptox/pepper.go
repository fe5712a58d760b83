package cryptox

import "sync"

var (
	pepperMu sync.RWMutex
	pepper   string
)

// SetPepper sets the server-side secret mixed into every password before
// hashing. Changing it invalidates every stored hash, so it is set once at
// startup from PASSWORD_PEPPER. An empty pepper is allowed.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

// GetPepper returns the configured pepper.
func GetPepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
