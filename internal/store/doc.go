// Package store executes compiled Criteria through database/sql.
//
// A Store pairs a *sql.DB with a dialect.Adapter. Statements are compiled
// with querysql, their ":pN" placeholders rewritten by the adapter, and
// parameters passed as driver values in placeholder order.
//
// # Inserts and generated keys
//
// Insert runs on a single pinned connection so that id lookups observe the
// INSERT they belong to:
//
//   - Before the INSERT, tables with an id generator on adapters that fetch
//     keys first (PostgreSQL sequences, UUID generators) draw one key, unless
//     the primary key already has a value. The key joins the column list.
//   - After the INSERT, adapters that fetch keys afterwards (SQLite, MySQL)
//     read the last inserted id.
//
// Failures of either lookup are returned as *GeneratorError.
//
// # Database Configuration
//
// SQLite databases are opened with a single connection and:
//
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
