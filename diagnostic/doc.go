// Package diagnostic provides structured warnings and errors about mapping
// configurations.
//
// Key capabilities:
//   - Unmapped member warnings with ranked suggestions
//   - Profile validation errors
//   - A combined error for callers that only need pass or fail
package diagnostic
