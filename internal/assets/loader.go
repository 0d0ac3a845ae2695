package assets

// StyleExt is the file extension of style definitions.
const StyleExt = ".yaml"

// StyleLoader defines the contract for loading citation style definitions.
// Implementations may load from embedded assets, filesystem, database, etc.
type StyleLoader interface {
	// LoadStyle loads a style definition by name (without .yaml extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) ([]byte, error)

	// ListStyles returns the available style names, sorted.
	ListStyles() ([]string, error)
}
