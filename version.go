package turing

// Version is overridden at build time with -ldflags "-X github.com/aretw0/turing.Version=...".
var Version = "dev"
