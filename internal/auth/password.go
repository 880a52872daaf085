package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidHash = errors.New("invalid password hash")

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  int
	keyLength   int
}

var defaultParams = argon2Params{
	memory:      65536,
	iterations:  3,
	parallelism: 1,
	saltLength:  16,
	keyLength:   32,
}

// HashPassword returns an encoded argon2id hash in the PHC string format.
func HashPassword(raw string) (string, error) {
	p := defaultParams
	salt := make([]byte, p.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(raw), salt, p.iterations, p.memory, p.parallelism, uint32(p.keyLength))
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.iterations, p.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword accepts argon2id and bcrypt hashes. Anything else never matches.
func VerifyPassword(raw, hashed string) bool {
	switch {
	case strings.HasPrefix(hashed, "$argon2id$"):
		p, salt, want, err := decodeArgon2id(hashed)
		if err != nil {
			return false
		}
		got := argon2.IDKey([]byte(raw), salt, p.iterations, p.memory, p.parallelism, uint32(len(want)))
		return subtle.ConstantTimeCompare(got, want) == 1
	case strings.HasPrefix(hashed, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
	default:
		return false
	}
}

func decodeArgon2id(encoded string) (argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return argon2Params{}, nil, nil, ErrInvalidHash
	}
	var p argon2Params
	for _, kv := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return argon2Params{}, nil, nil, ErrInvalidHash
		}
		parsed, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return argon2Params{}, nil, nil, ErrInvalidHash
		}
		switch key {
		case "m":
			p.memory = uint32(parsed)
		case "t":
			p.iterations = uint32(parsed)
		case "p":
			p.parallelism = uint8(parsed)
		}
	}
	if p.memory == 0 || p.iterations == 0 || p.parallelism == 0 {
		return argon2Params{}, nil, nil, ErrInvalidHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Params{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return argon2Params{}, nil, nil, ErrInvalidHash
	}
	p.saltLength = len(salt)
	p.keyLength = len(key)
	return p, salt, key, nil
}
