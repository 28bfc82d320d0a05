// Package normalize provides the text normalization used to build
// deduplication identifiers for imported events.
//
// Sources yield the same logical title or venue with cosmetic variance
// ("The Blue Note" vs "blue note "). Normalize folds case, collapses
// whitespace, and strips a single leading article so those variants
// compare equal.
package normalize
