package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ! HUDフォルダ以下の全ファイル・フォルダ名を小文字化する。
// 衝突が1つでもあれば何もリネームせずに*CollisionErrorを返す。
func (n *Normalizer) LowercaseNames() (int, error) {
	var entries []string
	err := afero.Walk(n.fs, n.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path != n.root {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "走査に失敗: %s", n.root)
	}

	if cerr := findCollisions(entries, n.root); cerr != nil {
		return 0, cerr
	}

	// 深い順に処理し、親のリネームで未処理の子のパスが無効にならないようにする。
	sort.SliceStable(entries, func(i, j int) bool {
		return depthOfPath(entries[i]) > depthOfPath(entries[j])
	})

	count := 0
	for _, path := range entries {
		name := filepath.Base(path)
		lowerName := lower(name)
		if name == lowerName {
			continue
		}
		target := filepath.Join(filepath.Dir(path), lowerName)
		if err := n.fs.Rename(path, target); err != nil {
			return count, errors.Wrapf(err, "リネームに失敗: %s → %s", n.rel(path), lowerName)
		}
		n.log.Printf("リネーム: %s → %s", n.rel(path), lowerName)
		count++
	}
	return count, nil
}

// ! 同じ親の下で小文字化後に同名となるエントリを探す。
func findCollisions(entries []string, root string) *CollisionError {
	groups := map[string]map[string][]string{}
	for _, path := range entries {
		dir := filepath.Dir(path)
		name := filepath.Base(path)
		if groups[dir] == nil {
			groups[dir] = map[string][]string{}
		}
		key := lower(name)
		groups[dir][key] = append(groups[dir][key], name)
	}

	var found []Collision
	for dir, byLower := range groups {
		for lowerName, names := range byLower {
			if len(names) < 2 {
				continue
			}
			sort.Strings(names)
			found = append(found, Collision{Dir: relSlash(root, dir), Lower: lowerName, Names: names})
		}
	}
	if len(found) == 0 {
		return nil
	}
	sortCollisions(found)
	return &CollisionError{Collisions: found}
}

func depthOfPath(p string) int {
	return strings.Count(filepath.ToSlash(p), "/")
}

// ! HUDフォルダ自身の名前を小文字化し、新しいパスを返す。
// 親ディレクトリに小文字化後と同名の別エントリがあれば衝突とする。
func LowercaseRoot(fs afero.Fs, root string) (string, error) {
	root = filepath.Clean(root)
	if err := checkRoot(fs, root); err != nil {
		return root, err
	}

	name := filepath.Base(root)
	lowerName := lower(name)
	if name == lowerName {
		return root, nil
	}

	parent := filepath.Dir(root)
	siblings, err := afero.ReadDir(fs, parent)
	if err != nil {
		return root, errors.Wrapf(err, "親ディレクトリを読めません: %s", parent)
	}
	for _, s := range siblings {
		if s.Name() != name && lower(s.Name()) == lowerName {
			names := []string{name, s.Name()}
			sort.Strings(names)
			return root, &CollisionError{Collisions: []Collision{{
				Dir:   filepath.ToSlash(parent),
				Lower: lowerName,
				Names: names,
			}}}
		}
	}

	target := filepath.Join(parent, lowerName)
	if err := fs.Rename(root, target); err != nil {
		return root, errors.Wrapf(err, "HUDフォルダのリネームに失敗: %s → %s", root, lowerName)
	}
	return target, nil
}
