package bind

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainStatement prefixes statement fingerprints.
// The version suffix allows a future change of encoding.
const DomainStatement = "criteria/statement/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a rendered statement by its SQL text and bound
// parameters. Identical renders produce identical fingerprints.
func Fingerprint(sql string, params []Param) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"sql":    sql,
		"params": params,
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainStatement, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when params are known to be encodable.
func MustFingerprint(sql string, params []Param) string {
	fp, err := Fingerprint(sql, params)
	if err != nil {
		panic(err)
	}
	return fp
}
