// Package version carries the build version stamped in via -ldflags.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/version.Version=1.2.0"
var Version = "dev"
