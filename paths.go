package main

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ! 言語に依存しない小文字化。
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ! 区切り文字を/に統一する。
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// ! パス参照を小文字・/区切りにする。
func normalizeRef(p string) string {
	return lower(slashed(p))
}

// ! 先頭の"../"の数とその後ろを返す。pは/区切りであること。
// '../../../cfg/file.txt' -> 3, 'cfg/file.txt'
func splitAscent(p string) (int, string) {
	ups := 0
	for strings.HasPrefix(p, "../") {
		p = p[3:]
		ups++
	}
	return ups, p
}

func ascend(n int) string {
	return strings.Repeat("../", n)
}

// ! 先頭以外に".."を含むかどうか。深さを補正してもルートの外へ出てしまう。
func hasInnerAscent(rest string) bool {
	for _, seg := range strings.Split(rest, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// ! 深さを補正したパスを返す。okがfalseなら不正なパス。
func withDepth(p string, depth int) (string, bool) {
	p = normalizeRef(p)
	ups, rest := splitAscent(p)
	if hasInnerAscent(rest) {
		return p, false
	}
	if ups == depth {
		return p, true
	}
	return ascend(depth) + rest, true
}

// ! HUDフォルダからファイルまでのディレクトリ数。
// "cfg/a.cfg" は1、"resource/ui/x.res" は2。
func fileDepth(root, file string) int {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return 0
	}
	return len(strings.Split(filepath.ToSlash(rel), "/")) - 1
}

// ! HUDフォルダからの/区切り相対パス。
func relSlash(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// ! ref を HUDフォルダ相対の dir(/区切り)から解決する。外に出る場合はfalse。
func resolveFrom(dir, ref string) (string, bool) {
	joined := path.Join(dir, ref)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return ref, false
	}
	return joined, true
}

func isRelativeMarked(ref string) bool {
	return strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../")
}
