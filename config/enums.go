package config

// Presentation of combined selectors.
// ENUM(text, tree)
type OutputFormat int
