package buildpack

// Buildpack is a buildpack reference as submitted by a caller, together with the data
// resolution fills in.
type Buildpack struct {
	// URI is the raw reference, optionally carrying a registry URN prefix and an @version suffix.
	URI string `json:"uri" yaml:"uri" toml:"uri"`
	// ID is derived from URI on resolution. A caller-supplied id is ignored.
	ID       string `json:"-" yaml:"-" toml:"-"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Optional *bool  `json:"optional,omitempty" yaml:"optional,omitempty" toml:"optional,omitempty"`

	// CompatibleStacks is nil until the buildpack has been resolved.
	CompatibleStacks []string `json:"-" yaml:"-" toml:"-"`
}

// Resolved reports whether the compatible stacks of the buildpack are known.
func (b *Buildpack) Resolved() bool {
	return b.CompatibleStacks != nil
}

// IsOptional reports whether the buildpack was marked optional.
func (b *Buildpack) IsOptional() bool {
	return b.Optional != nil && *b.Optional
}
