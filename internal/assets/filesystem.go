package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// stylesSubdir holds the definitions under a base path.
const stylesSubdir = "styles"

// FilesystemLoader reads style definitions from {basePath}/styles.
// The base path is absolute with symlinks resolved, so containment checks
// compare real paths.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader validates basePath and returns a loader rooted there.
// Returns ErrInvalidBasePath unless basePath is a readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := realPath(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, root)
	}

	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: root}, nil
}

// LoadStyle reads {basePath}/styles/{name}.yaml.
func (f *FilesystemLoader) LoadStyle(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(f.basePath, stylesSubdir, name+StyleExt)
	if err := f.contain(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- contained in basePath
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return data, nil
}

// ListStyles returns the style names found in {basePath}/styles, sorted.
// A missing styles directory yields an empty list.
func (f *FilesystemLoader) ListStyles() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(f.basePath, stylesSubdir))
	switch {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return styleNames(entries), nil
}

// contain rejects paths that resolve outside basePath, including through
// symlinks. A path that does not exist yet is checked as written.
func (f *FilesystemLoader) contain(path string) error {
	resolved, err := realPath(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	if !strings.HasPrefix(resolved, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// realPath returns the absolute form of path with symlinks resolved when
// the path exists.
func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

var _ StyleLoader = (*FilesystemLoader)(nil)
