// Package preflight provides readiness checks for the local environment and
// the listing API that listwise depends on.
//
// The "listwise doctor" command runs RunAll and renders one row per check.
// Individual checks (CheckDirectoryAccess, CheckBinary, CheckAPI) are also
// usable on their own. A failed check never aborts the others.
package preflight
