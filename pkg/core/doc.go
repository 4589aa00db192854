// Package core defines the shared language of the leapreq system.
//
// This package contains:
//   - Domain entities (TrackedFile, UID, Level)
//   - Diagnostic vocabulary (Severity, RuleInfo)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
