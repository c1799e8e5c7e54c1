package hashing

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DedupIndex tracks which content fingerprints have already been processed,
// backed by a plain-text append-only log (one hex fingerprint per line) so
// ingestion state survives restarts. The log only ever grows; fingerprints
// are fixed-size and volumes are modest, so that is acceptable.
//
// Mark is idempotent in effect: a duplicate line in the log is tolerated,
// Contains only needs one occurrence. All methods are safe for concurrent
// use; check-then-mark callers should hold their own ordering (the pipeline
// processes documents sequentially).
type DedupIndex struct {
	mu   sync.Mutex
	path string
	seen map[Fingerprint]struct{}
}

// OpenDedupIndex loads (or creates) the log at path and returns the index.
func OpenDedupIndex(path string) (*DedupIndex, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open hash log: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	idx := &DedupIndex{path: path, seen: make(map[Fingerprint]struct{})}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		idx.seen[Fingerprint(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read hash log: %w", err)
	}
	return idx, nil
}

// Contains reports whether fp has been marked, now or in a prior run.
func (i *DedupIndex) Contains(fp Fingerprint) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.seen[fp]
	return ok
}

// Mark records fp as processed and appends it to the log. Marking an
// already-present fingerprint is a no-op.
func (i *DedupIndex) Mark(fp Fingerprint) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.seen[fp]; ok {
		return nil
	}

	f, err := os.OpenFile(i.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("append hash log: %w", err)
	}
	if _, err := fmt.Fprintln(f, string(fp)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write hash log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close hash log: %w", err)
	}

	i.seen[fp] = struct{}{}
	return nil
}

// Len returns the number of distinct fingerprints tracked.
func (i *DedupIndex) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.seen)
}
