// Package version holds the build version reported by every front-end.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/ironsheep/receipt-crop/internal/version.Version=...".
var Version = "0.1.0"

// Name is the program name reported to clients.
const Name = "receipt-crop"
