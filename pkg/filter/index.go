package filter

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// MaxKeyLen bounds the bytes of each suffix stored in the trie, which keeps
// the index linear in the total candidate length.
const MaxKeyLen = 32

// Index answers substring queries with a prefix trie of suffixes: every
// lowercase suffix of every candidate, cut to MaxKeyLen bytes, is a key whose
// item is the ascending list of candidate positions having that suffix. A
// candidate contains q exactly when one of its suffixes starts with q, so a
// lookup is one subtree visit. Queries longer than MaxKeyLen visit with their
// first MaxKeyLen bytes and confirm each hit against the full text.
type Index struct {
	trie  *patricia.Trie
	lower []string
	size  int
	keys  int
	bytes int
}

// NewIndex builds the suffix trie for candidates.
func NewIndex(candidates []string) *Index {
	ix := &Index{
		trie:  patricia.NewTrie(),
		lower: make([]string, len(candidates)),
		size:  len(candidates),
	}

	for i, c := range candidates {
		lower := strings.ToLower(c)
		ix.lower[i] = lower
		for j := 0; j < len(lower); j++ {
			ix.add(patricia.Prefix(lower[j:min(j+MaxKeyLen, len(lower))]), i)
		}
	}
	log.Debugf("Built suffix index: %d candidates, %d keys, %d key bytes", ix.size, ix.keys, ix.bytes)
	return ix
}

func (ix *Index) add(key patricia.Prefix, id int) {
	if existing := ix.trie.Get(key); existing != nil {
		// candidates are indexed in order, so ids stay ascending
		ix.trie.Set(key, append(existing.([]int), id))
		return
	}
	ix.trie.Insert(key, []int{id})
	ix.keys++
	ix.bytes += len(key)
}

// Lookup returns the ascending positions of candidates whose lowercase form
// contains lowerQuery. The empty query matches every candidate.
func (ix *Index) Lookup(lowerQuery string) []int {
	if lowerQuery == "" {
		all := make([]int, ix.size)
		for i := range all {
			all[i] = i
		}
		return all
	}

	key := lowerQuery
	long := len(key) > MaxKeyLen
	if long {
		key = key[:MaxKeyLen]
	}

	seen := make(map[int]struct{})
	err := ix.trie.VisitSubtree(patricia.Prefix(key), func(_ patricia.Prefix, item patricia.Item) error {
		for _, id := range item.([]int) {
			seen[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting suffix trie: %v", err)
		return nil
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		if long && !strings.Contains(ix.lower[id], lowerQuery) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Stats returns statistics about the index
func (ix *Index) Stats() map[string]int {
	return map[string]int{
		"candidates": ix.size,
		"keys":       ix.keys,
		"keyBytes":   ix.bytes,
	}
}
