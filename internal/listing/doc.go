// Package listing models the listing draft the wizard collects.
//
// Draft is a plain record; every change goes through an Event applied by
// Rules.Apply, which works on a copy and leaves the input untouched when the
// event is rejected. Hydrate back-fills records fetched for editing, and
// Canonicalize produces the outgoing create/update body.
package listing
