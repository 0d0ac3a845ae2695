package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style definition by name.
// The name should not include the .yaml extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) ([]byte, error) {
	return defaultLoader.LoadStyle(name)
}

// ListStyles returns the names of the built-in styles, sorted.
func ListStyles() ([]string, error) {
	return defaultLoader.ListStyles()
}
