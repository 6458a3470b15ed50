package graphwalker

// Version is the release of the library and CLI. It is overridden at build
// time with -ldflags "-X github.com/hodaniel/graphwalker.Version=...".
var Version = "0.1.0-dev"
