package session

// ImportDirectoryCache remembers which import directories were already sent to
// the backend during one editing session. It only grows.
type ImportDirectoryCache struct {
	seen  map[string]struct{}
	order []string
}

// NewImportDirectoryCache creates an empty cache
func NewImportDirectoryCache() *ImportDirectoryCache {
	return &ImportDirectoryCache{seen: make(map[string]struct{})}
}

// Admit records dirs and returns, in order, the ones not seen before.
// Empty strings and repeats within dirs are dropped.
func (c *ImportDirectoryCache) Admit(dirs ...string) []string {
	var fresh []string
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if _, ok := c.seen[d]; ok {
			continue
		}
		c.seen[d] = struct{}{}
		c.order = append(c.order, d)
		fresh = append(fresh, d)
	}
	return fresh
}

// Pending returns, in order, the dirs not admitted yet without recording them.
// Empty strings and repeats within dirs are dropped.
func (c *ImportDirectoryCache) Pending(dirs ...string) []string {
	var fresh []string
	local := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if _, ok := c.seen[d]; ok {
			continue
		}
		if _, ok := local[d]; ok {
			continue
		}
		local[d] = struct{}{}
		fresh = append(fresh, d)
	}
	return fresh
}

// Contains reports whether dir was admitted
func (c *ImportDirectoryCache) Contains(dir string) bool {
	_, ok := c.seen[dir]
	return ok
}

// Dirs returns all admitted directories in admission order
func (c *ImportDirectoryCache) Dirs() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of admitted directories
func (c *ImportDirectoryCache) Len() int {
	return len(c.order)
}
