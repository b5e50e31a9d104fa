package config

// Version is the borderhop binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/borderhop/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
