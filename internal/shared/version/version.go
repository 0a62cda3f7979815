package version

// Version is overridden at build time with -ldflags "-X skiplint/internal/shared/version.Version=...".
var Version = "0.3.0"

const Name = "skiplint"
