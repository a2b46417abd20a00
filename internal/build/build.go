// Package build holds values stamped into the binary at link time.
package build

// Version is the pkgset release, set with
// -ldflags "-X go.trai.ch/pkgset/internal/build.Version=v1.2.3".
var Version = "dev"
