// Package core contains the tab-deck state machinery.
//
// Allowed here:
// - configuration parsing and validation, the condition model
// - visibility evaluation, the template subscription set and its cache
// - card lifecycle (lazy/eager slots), selection and overflow policy
// - the Deck render coordinator
//
// Not allowed here:
// - low-level drawing primitives (widgets)
// - host concerns: state stores, template engines, key handling
package core
