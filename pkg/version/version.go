package version

// Version and GitRef are overridden at build time with -ldflags "-X".
var Version = "v0.1.0-dev"

var GitRef = "unknown"
