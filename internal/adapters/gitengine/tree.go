package gitengine

import (
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog/log"

	"github.com/kling-igor/gitops/internal/domain"
)

// WriteTree serializes the current index to a tree object in the
// repository's object store and returns its identifier. The index
// entries are folded into nested trees bottom-up; an empty index
// yields the empty tree. The index itself is left untouched.
func (e *Engine) WriteTree() (string, error) {
	idx, err := e.repo.Storer.Index()
	if err != nil {
		return "", domain.NewOpError("write-tree", err)
	}

	root := newTreeLevel()
	for _, entry := range idx.Entries {
		root.insert(strings.Split(entry.Name, "/"), entry)
	}

	hash, err := e.writeTreeLevel(root)
	if err != nil {
		return "", domain.NewOpError("write-tree", err)
	}

	log.Debug().Str("tree", hash.String()).Msg("wrote index tree")
	return hash.String(), nil
}

// treeLevel is one directory of index entries being folded into a tree.
type treeLevel struct {
	files map[string]*index.Entry
	dirs  map[string]*treeLevel
}

func newTreeLevel() *treeLevel {
	return &treeLevel{
		files: make(map[string]*index.Entry),
		dirs:  make(map[string]*treeLevel),
	}
}

func (l *treeLevel) insert(parts []string, entry *index.Entry) {
	if len(parts) == 1 {
		l.files[parts[0]] = entry
		return
	}

	sub, ok := l.dirs[parts[0]]
	if !ok {
		sub = newTreeLevel()
		l.dirs[parts[0]] = sub
	}
	sub.insert(parts[1:], entry)
}

// writeTreeLevel encodes one directory level, recursing into
// subdirectories first so their hashes are known.
func (e *Engine) writeTreeLevel(l *treeLevel) (plumbing.Hash, error) {
	entries := make([]object.TreeEntry, 0, len(l.files)+len(l.dirs))

	for name, sub := range l.dirs {
		hash, err := e.writeTreeLevel(sub)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{
			Name: name,
			Mode: filemode.Dir,
			Hash: hash,
		})
	}
	for name, entry := range l.files {
		entries = append(entries, object.TreeEntry{
			Name: name,
			Mode: entry.Mode,
			Hash: entry.Hash,
		})
	}

	// Canonical tree order: directories compare as if their name had a
	// trailing slash.
	sort.Slice(entries, func(i, j int) bool {
		return treeEntryKey(entries[i]) < treeEntryKey(entries[j])
	})

	tree := &object.Tree{Entries: entries}
	obj := e.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return e.repo.Storer.SetEncodedObject(obj)
}

func treeEntryKey(entry object.TreeEntry) string {
	if entry.Mode == filemode.Dir {
		return entry.Name + "/"
	}
	return entry.Name
}
