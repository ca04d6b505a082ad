package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

// HashFieldName is the inbound field carrying the gateway's signature. It is
// excluded from the digest input when verifying.
const HashFieldName = "hash"

// ComputeRequestHash builds the authentication tag for an outbound request:
// the shared salt followed by each trimmed field value in contract order,
// joined with "|", digested with SHA-512 and rendered as uppercase hex. The
// salt itself is never transmitted.
func ComputeRequestHash(values []string, salt string) string {
	parts := make([]string, 0, len(values)+1)
	parts = append(parts, salt)
	for _, v := range values {
		parts = append(parts, strings.TrimSpace(v))
	}
	sum := sha512.Sum512([]byte(strings.Join(parts, "|")))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyResponseHash checks an inbound field bag against the signature the
// gateway sent. The hash field itself and any empty-valued fields are dropped,
// the remaining field names are sorted lexicographically, and the digest is
// computed over salt + values exactly as in ComputeRequestHash.
//
// An empty receivedHash verifies trivially: the gateway documents unsigned
// callbacks as legitimate. Callers must record the lower trust level rather
// than rejecting them (see GatewayEvent.Signed).
func VerifyResponseHash(fields map[string]string, salt, receivedHash string) bool {
	if receivedHash == "" {
		return true
	}

	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if strings.EqualFold(name, HashFieldName) {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, fields[name])
	}

	computed := ComputeRequestHash(values, salt)
	expected := strings.ToUpper(strings.TrimSpace(receivedHash))

	return subtle.ConstantTimeCompare([]byte(computed), []byte(expected)) == 1
}

// IsSuccessful derives the payment outcome from the gateway's response
// fields. A response code of "0", a response message containing "success", or
// the legacy status field equal to "success" all count as success; anything
// else is a failure. The substring check mirrors the gateway's documented
// behavior and is kept in this one place.
func IsSuccessful(responseCode, responseMessage, legacyStatus string) bool {
	if responseCode == "0" {
		return true
	}
	if strings.Contains(strings.ToLower(responseMessage), "success") {
		return true
	}
	return strings.EqualFold(legacyStatus, "success")
}
