package index

// VaultIndex defines the interface for vault snapshot operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type VaultIndex interface {
	ReplaceSnapshot(files []FileRow, links []LinkRow) error
	File(name string) (*FileRow, error)
	Files(kind string, limit, offset int) ([]FileRow, int, error)
	Backlinks(name string) ([]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Graph() ([]GraphNode, []GraphLink, error)
	Meta(key string) (string, error)
	SetMeta(key, value string) error
	Close() error
}

// Verify *DB satisfies VaultIndex at compile time.
var _ VaultIndex = (*DB)(nil)
