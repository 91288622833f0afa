package crate

// Version is the release of this module.
const Version = "0.1.0"

// Revision is the git revision the binary was built from. It is set with
// -ldflags by the build target and empty otherwise.
var Revision string
