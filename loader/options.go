package loader

// Options controls how schema files are parsed.
type Options struct {
	// AlternateCommentMode attaches every comment as documentation. When off,
	// only doc-style comments ("/** ... */" and "///") are attached.
	AlternateCommentMode bool `yaml:"alternateCommentMode"`

	// PreferTrailingComment uses a definition's trailing comment instead of
	// its leading comment when both exist.
	PreferTrailingComment bool `yaml:"preferTrailingComment"`

	// ImportPaths are searched for imports before the directory containing
	// the matched files.
	ImportPaths []string `yaml:"importPaths" validate:"dive,required"`
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{
		AlternateCommentMode:  true,
		PreferTrailingComment: true,
	}
}
