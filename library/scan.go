package library

import (
	"fmt"
	"os"
	"strings"

	"github.com/librarium-app/librarium/filesystem"
	"github.com/librarium-app/librarium/log"
	"golang.org/x/exp/slices"
)

// Scan recursively enumerates recognized resources under root, sorted case-insensitively by display name.
// A root that is not a readable directory yields an error and an empty result.
func Scan(root string) ([]Resource, error) {
	fs := filesystem.API()

	isDir, err := fs.IsDir(root)
	if err != nil || !isDir {
		return nil, fmt.Errorf("library root %q is not a readable directory", root)
	}

	var resources []Resource
	err = fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped rather than aborting the whole scan.
			log.Warnf("scan: skipping %s: %v", path, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if KindOf(path) == KindUnknown {
			return nil
		}
		resources = append(resources, NewResource(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan library %q: %w", root, err)
	}

	slices.SortStableFunc(resources, func(a, b Resource) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	log.Infof("scanned %s: %d supported files", root, len(resources))
	return resources, nil
}

// Filter returns the resources whose display name contains the given substring, case-insensitively,
// preserving relative order. An empty substring returns the input unchanged.
func Filter(resources []Resource, substring string) []Resource {
	substring = strings.ToLower(strings.TrimSpace(substring))
	if substring == "" {
		return resources
	}

	filtered := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if strings.Contains(strings.ToLower(r.Name), substring) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
