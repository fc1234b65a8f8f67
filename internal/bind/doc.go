// Package bind holds the value layer shared by the query engine and its
// executors: abstract SQL types, bind parameters, and the canonical encoding
// used to fingerprint rendered statements.
//
// bind imports nothing internal. The criteria, querysql and store packages
// all build on it.
//
// Key constraints:
//   - Parameter order always equals placeholder order (:p1..:pN)
//   - Canonical JSON sorts object keys by UTF-16 code units and NFC
//     normalizes strings, so fingerprints are stable across platforms
package bind
