package main

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var (
	// "font" "resource/fonts/x.ttf" 形式。
	fontPattern = regexp.MustCompile(`(?i)("font"\s+")([^"\n]*)(")`)
	// 行頭の #base "file.res" 形式。
	basePattern = regexp.MustCompile(`(?im)^[ \t]*#base\s+"([^"]+)"`)
)

// ! clientscheme.resとそこから#baseで辿れるファイル、名前にschemeを含む.resのフォントパスを正規化する。
// 変更したファイル数を返す。
func (n *Normalizer) NormalizeClientschemes(rep *Report) int {
	var starts []string
	start := filepath.Join(n.root, "resource", "clientscheme.res")
	if ok, _ := afero.Exists(n.fs, start); ok {
		starts = append(starts, start)
	} else {
		n.log.Printf("clientscheme.resが見つかりません")
	}
	for _, f := range n.collectFiles(".res", rep) {
		if f != start && strings.Contains(lower(filepath.Base(f)), "scheme") {
			starts = append(starts, f)
		}
	}

	visited := map[string]bool{}
	modified := 0
	for _, f := range starts {
		modified += n.processClientscheme(f, visited, rep)
	}
	return modified
}

// ! 1つのclientschemeファイルを処理し、#baseで含まれるファイルを再帰的に辿る。
func (n *Normalizer) processClientscheme(file string, visited map[string]bool, rep *Report) int {
	file = filepath.Clean(file)
	if visited[file] {
		return 0
	}
	visited[file] = true

	modified := 0
	rel := n.rel(file)
	changed, err := n.rewriteFile(file, func(content string) string {
		out, errs := rewriteFontPaths(content, rel)
		for _, e := range errs {
			n.fail(rep, e)
		}
		return out
	})
	if err != nil {
		n.fail(rep, err)
		return 0
	}
	if changed {
		modified++
	}

	data, err := n.readString(file)
	if err != nil {
		n.fail(rep, err)
		return modified
	}
	for _, m := range basePattern.FindAllStringSubmatch(data, -1) {
		ref := normalizeRef(m[1])
		included, ok := resolveFrom(path.Dir(rel), ref)
		if !ok {
			n.log.Printf("HUDフォルダ外の#baseは辿りません: %s: %s", rel, m[1])
			continue
		}
		target := filepath.Join(n.root, filepath.FromSlash(included))
		if ok, _ := afero.Exists(n.fs, target); !ok {
			n.log.Printf("#baseのファイルが見つかりません: %s: %s", rel, m[1])
			continue
		}
		modified += n.processClientscheme(target, visited, rep)
	}
	return modified
}

// ! フォントパスを小文字・/区切り・HUDフォルダ相対にする。
// rel はファイルのHUDフォルダ相対パス。
func rewriteFontPaths(content, rel string) (string, []error) {
	var errs []error
	dir := path.Dir(rel)
	out := mapLines(content, func(lineNo int, line string) string {
		return fontPattern.ReplaceAllStringFunc(line, func(match string) string {
			m := fontPattern.FindStringSubmatch(match)
			ref := normalizeRef(m[2])
			if isRelativeMarked(ref) {
				resolved, ok := resolveFrom(dir, ref)
				if !ok {
					errs = append(errs, &PathError{File: rel, Line: lineNo, Path: m[2]})
					return match
				}
				ref = resolved
			}
			return m[1] + ref + m[3]
		})
	})
	return out, errs
}

func (n *Normalizer) readString(file string) (string, error) {
	data, err := afero.ReadFile(n.fs, file)
	if err != nil {
		return "", errors.Wrapf(err, "ファイル読み込みエラー: %s", file)
	}
	return string(data), nil
}
