package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ! 1回の実行結果。
type Report struct {
	Renamed       int     // 小文字化したエントリ数。
	Clientschemes int     // 変更したclientschemeファイル数。
	ResFiles      int     // 変更した.resファイル数。
	CfgFiles      int     // 変更した.cfgファイル数。
	Errors        []error // ファイル単位のエラー。処理は続行済み。
}

// ! HUDフォルダを書き換える。
type Normalizer struct {
	fs      afero.Fs
	root    string
	hudName string
	log     *log.Logger
}

// ! rootはHUDフォルダ。loggerがnilなら標準のロガーを使う。
func NewNormalizer(fs afero.Fs, root string, logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Default()
	}
	root = filepath.Clean(root)
	return &Normalizer{
		fs:      fs,
		root:    root,
		hudName: filepath.Base(root),
		log:     logger,
	}
}

// ! 全パスを順に実行する。戻り値のerrorは実行全体が中断された場合のみ。
func (n *Normalizer) Run() (*Report, error) {
	rep := &Report{}

	if err := checkRoot(n.fs, n.root); err != nil {
		return rep, err
	}

	n.log.Printf("ファイル名を小文字化します...")
	renamed, err := n.LowercaseNames()
	rep.Renamed = renamed
	if err != nil {
		return rep, err
	}

	n.log.Printf("フォントパスを正規化します...")
	rep.Clientschemes = n.NormalizeClientschemes(rep)

	n.log.Printf("logbaseパスを正規化します...")
	rep.CfgFiles = n.NormalizeCfgFiles(rep)
	rep.ResFiles = n.NormalizeResFiles(rep)

	return rep, nil
}

func checkRoot(fs afero.Fs, root string) error {
	info, err := fs.Stat(root)
	if os.IsNotExist(err) {
		return errors.Wrapf(ErrRootNotFound, "%s", root)
	}
	if err != nil {
		return errors.Wrapf(err, "HUDフォルダを確認できません: %s", root)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrNotDirectory, "%s", root)
	}
	return nil
}

// ! 拡張子extのファイルを列挙する。読めないディレクトリは報告して飛ばす。
func (n *Normalizer) collectFiles(ext string, rep *Report) []string {
	var found []string
	afero.Walk(n.fs, n.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			n.fail(rep, errors.Wrapf(err, "走査に失敗: %s", path))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			found = append(found, path)
		}
		return nil
	})
	sort.Strings(found)
	return found
}

// ! ファイルを読み込み、transformで変換し、内容が変わった場合のみ書き戻す。
func (n *Normalizer) rewriteFile(path string, transform func(string) string) (bool, error) {
	info, err := n.fs.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, "ファイル情報の取得に失敗: %s", path)
	}
	data, err := afero.ReadFile(n.fs, path)
	if err != nil {
		return false, errors.Wrapf(err, "ファイル読み込みエラー: %s", path)
	}

	original := string(data)
	content := transform(original)
	if content == original {
		return false, nil
	}

	if err := afero.WriteFile(n.fs, path, []byte(content), info.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, "ファイル書き込みエラー: %s", path)
	}
	n.log.Printf("変更: %s", n.rel(path))
	return true, nil
}

func (n *Normalizer) fail(rep *Report, err error) {
	n.log.Printf("エラー: %v", err)
	rep.Errors = append(rep.Errors, err)
}

func (n *Normalizer) rel(path string) string {
	return relSlash(n.root, path)
}

// ! 行ごとに変換する。改行コードはそのまま残す。
func mapLines(content string, fn func(lineNo int, line string) string) string {
	lines := strings.SplitAfter(content, "\n")
	var b strings.Builder
	b.Grow(len(content))
	for i, line := range lines {
		b.WriteString(fn(i+1, line))
	}
	return b.String()
}

var discardLogger = log.New(io.Discard, "", 0)
