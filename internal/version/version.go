package version

// Version is set at build time with
// -ldflags "-X expertbook/internal/version.Version=v1.2.3".
var Version = "dev"

// Repository is the GitHub slug releases are published under.
const Repository = "eshopbox/expertbook"
