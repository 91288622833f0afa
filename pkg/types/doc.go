// Package types defines the item identity model shared by the store, the
// resolver and the social features: item kinds, the ItemRef tagged union,
// concrete entity rows, link rows, resolution context, configuration and the
// standard errors.
package types
