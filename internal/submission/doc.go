// Package submission coordinates the final step of the wizard: validate,
// canonicalize, contract-check, and send the listing to the create or update
// endpoint. A successful submission yields the id of the stored listing and
// the path the client navigates to.
package submission
