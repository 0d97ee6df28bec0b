// Package identifier generates entity slugs and invitation tokens.
package identifier

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	SlugMinLength = 8
	SlugMaxLength = 12

	slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// Invitations are valid for 7 days from creation.
	InvitationTTL = 7 * 24 * time.Hour
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]{8,12}$`)

// GenerateSlug returns a uniformly random lowercase-alphanumeric slug of the
// given length, clamped to the valid slug range.
func GenerateSlug(length int) string {
	if length < SlugMinLength {
		length = SlugMinLength
	}
	if length > SlugMaxLength {
		length = SlugMaxLength
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("identifier: rand.Read: %v", err))
	}
	for i, b := range buf {
		buf[i] = slugAlphabet[int(b)%len(slugAlphabet)]
	}
	return string(buf)
}

// NormalizeSlug lowercases the input, strips everything outside [a-z0-9] and
// truncates to the maximum slug length. It never fails; the result may still
// be too short to be a valid slug.
func NormalizeSlug(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(input) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == SlugMaxLength {
			break
		}
	}
	return b.String()
}

// ValidateSlug reports whether slug is 8-12 lowercase alphanumeric characters.
func ValidateSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// GenerateUniqueSlug derives a slug from base that does not collide with the
// given snapshot of existing slugs. The base is normalized and cut to the
// minimum length; on collision, numeric suffixes 1..999 are appended, cutting
// the base so the total stays within the maximum length. If everything is
// taken it falls back to a fully random slug. The result is always
// syntactically valid, but global uniqueness must be re-checked against the
// store on insert.
func GenerateUniqueSlug(base string, existing map[string]bool) string {
	b := NormalizeSlug(base)
	if len(b) > SlugMinLength {
		b = b[:SlugMinLength]
	}
	if ValidateSlug(b) && !existing[b] {
		return b
	}

	for i := 1; i <= 999; i++ {
		suffix := strconv.Itoa(i)
		candidate := b
		if len(candidate)+len(suffix) > SlugMaxLength {
			candidate = candidate[:SlugMaxLength-len(suffix)]
		}
		candidate += suffix
		if ValidateSlug(candidate) && !existing[candidate] {
			return candidate
		}
	}

	return GenerateSlug(SlugMinLength)
}

// GenerateInvitationToken returns a 64-hex-character bearer token drawn from
// a cryptographically strong source.
func GenerateInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// InvitationExpiry returns the expiry timestamp for an invitation created now.
func InvitationExpiry() time.Time {
	return time.Now().UTC().Add(InvitationTTL)
}
