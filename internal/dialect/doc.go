// Package dialect isolates everything that differs between SQL engines:
// identifier quoting, case-insensitive comparison, LIMIT/OFFSET syntax,
// row locks, joined UPDATE/DELETE forms, bind placeholder syntax and
// primary-key generation.
//
// Statements are rendered with portable ":pN" placeholders. BindPlaceholders
// rewrites them into the driver's native form right before execution.
package dialect
