package service

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"regexp"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	maxSlugLen     = 30
	suffixLen      = 6
	fallbackSlug   = "workspace"
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into "-", trims dashes at both ends and truncates to 30 bytes.
func Slugify(name string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// NewTenantID derives "<namespace>_<slug>_<suffix>" where suffix is six
// random base36 characters. Collisions are not rechecked.
func NewTenantID(namespace, name string) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		slug = fallbackSlug
	}
	suffix, err := randomBase36(suffixLen)
	if err != nil {
		return "", err
	}
	return namespace + "_" + slug + "_" + suffix, nil
}

func randomBase36(n int) (string, error) {
	max := big.NewInt(int64(len(base36Alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = base36Alphabet[idx.Int64()]
	}
	return string(b), nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemberKeyer derives membership document ids. The same identity always maps
// to the same id within a deployment, so invitations upsert instead of
// duplicating.
type MemberKeyer struct {
	key []byte
}

// NewMemberKeyer returns a keyer using salt as the BLAKE2b key. An empty salt
// gives an unkeyed hash.
func NewMemberKeyer(salt string) *MemberKeyer {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return &MemberKeyer{key: key}
}

// Key returns the member id for email, or for uid when email is empty.
func (k *MemberKeyer) Key(email, uid string) string {
	subject := NormalizeEmail(email)
	if subject == "" {
		return uid
	}
	h, err := blake2b.New256(k.key)
	if err != nil {
		// Only returned for keys longer than 64 bytes, which NewMemberKeyer prevents.
		panic(err)
	}
	h.Write([]byte(subject))
	return hex.EncodeToString(h.Sum(nil)[:16])
}
