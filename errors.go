package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// 実行全体を中断するエラー。
var (
	ErrRootNotFound = errors.New("HUDフォルダが存在しません")
	ErrNotDirectory = errors.New("HUDフォルダではありません")
	ErrCollision    = errors.New("小文字化するとファイル名が衝突します")
)

// 参照単位で報告するエラー。
var ErrEscapesRoot = errors.New("パスがHUDフォルダの外を指しています")

// ! 同じディレクトリ内で小文字化後に同名となるエントリの組。
type Collision struct {
	Dir   string   // 親ディレクトリ。
	Lower string   // 小文字化後の名前。
	Names []string // 衝突している元の名前(ソート済み)。
}

// ! 小文字化パスで見つかった全ての衝突をまとめたエラー。
type CollisionError struct {
	Collisions []Collision
}

func (e *CollisionError) Error() string {
	parts := make([]string, 0, len(e.Collisions))
	for _, c := range e.Collisions {
		parts = append(parts, fmt.Sprintf("%s: [%s] -> %s", c.Dir, strings.Join(c.Names, ", "), c.Lower))
	}
	return fmt.Sprintf("%v: %s", ErrCollision, strings.Join(parts, "; "))
}

func (e *CollisionError) Unwrap() error { return ErrCollision }

func sortCollisions(cs []Collision) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Dir != cs[j].Dir {
			return cs[i].Dir < cs[j].Dir
		}
		return cs[i].Lower < cs[j].Lower
	})
}

// ! 設定ファイル内の不正なパス参照。
type PathError struct {
	File string // HUDフォルダからの相対パス。
	Line int    // 1始まりの行番号。
	Path string // 問題のあるパス(書き換え前)。
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.File, e.Line, ErrEscapesRoot, e.Path)
}

func (e *PathError) Unwrap() error { return ErrEscapesRoot }
