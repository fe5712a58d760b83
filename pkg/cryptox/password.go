package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrMismatch is returned when a password does not match its hash.
	ErrMismatch = errors.New("password does not match")

	// ErrMalformedHash is returned for stored values that are not an
	// argon2id PHC string this package can verify.
	ErrMalformedHash = errors.New("malformed password hash")
)

// Params are the argon2id cost settings recorded in every hash.
type Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams follow the OWASP argon2id baseline (19 MiB, t=2, p=1).
var DefaultParams = Params{Memory: 19 * 1024, Time: 2, Threads: 1, KeyLen: 32, SaltLen: 16}

// Stored hashes are rejected above these costs so a tampered row cannot
// make a single login allocate unbounded memory.
const (
	maxMemory = 256 * 1024
	maxTime   = 16
)

// HashPassword hashes password with DefaultParams and the configured pepper
// and returns "$argon2id$v=19$m=..,t=..,p=..$salt$key".
func HashPassword(password string) (string, error) {
	return hashWith(DefaultParams, password)
}

func hashWith(p Params, password string) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}
	key := argon2.IDKey(peppered(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks password against an encoded hash using the cost
// settings stored in it. It returns nil, ErrMismatch or ErrMalformedHash.
func VerifyPassword(password, encoded string) error {
	p, salt, want, err := decodeHash(encoded)
	if err != nil {
		return err
	}
	got := argon2.IDKey(peppered(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedHash
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return Params{}, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, parts[2])
	}

	var p Params
	costs := strings.Split(parts[3], ",")
	if len(costs) != 3 {
		return Params{}, nil, nil, ErrMalformedHash
	}
	for i, dst := range []struct {
		prefix string
		bits   int
		set    func(uint64)
	}{
		{"m=", 32, func(v uint64) { p.Memory = uint32(v) }},
		{"t=", 32, func(v uint64) { p.Time = uint32(v) }},
		{"p=", 8, func(v uint64) { p.Threads = uint8(v) }},
	} {
		raw, ok := strings.CutPrefix(costs[i], dst.prefix)
		if !ok {
			return Params{}, nil, nil, ErrMalformedHash
		}
		v, err := strconv.ParseUint(raw, 10, dst.bits)
		if err != nil || v == 0 {
			return Params{}, nil, nil, ErrMalformedHash
		}
		dst.set(v)
	}
	if p.Memory > maxMemory || p.Time > maxTime {
		return Params{}, nil, nil, fmt.Errorf("%w: cost m=%d,t=%d out of range", ErrMalformedHash, p.Memory, p.Time)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}

// peppered keys the password with the pepper. Without a pepper the password
// is used as is.
func peppered(password string) []byte {
	pep := GetPepper()
	if pep == "" {
		return []byte(password)
	}
	mac := hmac.New(sha256.New, []byte(pep))
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// VerifyDummy burns the same amount of work as VerifyPassword against a
// throwaway hash. Callers use it when no account exists so that response
// timing does not reveal which usernames are registered.
func VerifyDummy(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("edunexia-dummy-password")
	})
	_ = VerifyPassword(password, dummyHash)
}
