// Package permissions answers whether a user may perform an operation.
//
// The calculator asks before every multiplication, passing a description such
// as "2 * 3" and the configured user. Backends:
//   - Policy: in-memory map of user to glob patterns (doublestar syntax),
//     optionally loaded from a YAML, TOML or JSON file
//   - RedisChecker: patterns stored in a Redis set per user
//   - RemoteChecker: an HTTP authorization service
//
// Decorators add cross-cutting behavior:
//   - WithTimeout bounds each check
//   - WithBreaker fails fast while a remote backend is unhealthy
//   - WithAudit logs every decision and reports it to metrics
//
// Any backend error is a denial; the calculator never multiplies on doubt.
package permissions
