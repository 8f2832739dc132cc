package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// 終了コード。
const (
	exitOK      = 0
	exitFatal   = 1 // フォルダが無い、名前の衝突など。
	exitPartial = 2 // 完了したがファイル単位のエラーがあった。
)

// ! 引数を管理する構造体。
type Args struct {
	HudDir       string `arg:"positional,required" help:"変換対象のHUDフォルダ"`
	KeepRootName bool   `arg:"--keep-root-name" help:"HUDフォルダ自身の名前は小文字化しない"`
	Quiet        bool   `arg:"-q,--quiet" help:"進捗を出力しない"`
}

// ! 初期化処理でログ設定を行う。
func init() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ltime | log.Lshortfile)
}

// ! メイン関数。引数解析後に変換処理を実行する。
func main() {
	ParseArgs()
	rep, err := NormalizeHud(afero.NewOsFs(), args, progressLogger(args))
	os.Exit(exitCode(rep, err))
}

func (Args) Version() string {
	return GetVersion()
}

func (Args) Description() string {
	return "TF2のHUDをWindowsとLinuxの両方で動くように、ファイル名とパス参照を小文字・/区切りに統一する。"
}

func ShowHelp(post string) {
	buf := new(bytes.Buffer)
	parser.WriteHelp(buf)
	help := buf.String()
	help = strings.ReplaceAll(help, "display this help and exit", "ヘルプを出力する。")
	help = strings.ReplaceAll(help, "display version and exit", "バージョンを出力する。")
	fmt.Printf("%v\n", help)
	if len(post) != 0 {
		fmt.Println(post)
	}
	os.Exit(helpExitCode(post))
}

// ! --helpで明示的に要求された場合は正常終了、引数エラーで表示した場合は異常終了。
func helpExitCode(post string) int {
	if len(post) == 0 {
		return exitOK
	}
	return exitFatal
}

func GetFileNameWithoutExt(path string) string {
	return filepath.Base(path[:len(path)-len(filepath.Ext(path))])
}

func GetVersion() string {
	if len(revision) == 0 {
		// go installでビルドされた場合、gitの情報がなくなる。その場合v0.0.0.のように末尾に.がついてしまうのを避ける。
		return fmt.Sprintf("%v version %v", GetFileNameWithoutExt(os.Args[0]), version)
	}
	return fmt.Sprintf("%v version %v.%v", GetFileNameWithoutExt(os.Args[0]), version, revision)
}

func ShowVersion() {
	fmt.Printf("%s\n", GetVersion())
	os.Exit(exitOK)
}

// グローバル変数。
var (
	args   Args
	parser *arg.Parser // ShowHelp() で使う

	version  string = "debug build"   // makefileからビルドされると上書きされる。
	revision string = func() string { // {{{
		revision := ""
		modified := false
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					revision = setting.Value
					if len(setting.Value) > 7 {
						revision = setting.Value[:7] // 最初の7文字にする
					}
				}
				if setting.Key == "vcs.modified" {
					modified = setting.Value == "true"
				}
			}
		}
		if modified {
			revision = "develop+" + revision
		}
		return revision
	}() // }}}
)

// ! go-argを使用して引数を解析する。
func ParseArgs() {
	var err error
	parser, err = arg.NewParser(arg.Config{Program: GetFileNameWithoutExt(os.Args[0]), IgnoreEnv: false}, &args)
	if err != nil {
		log.Fatalf("%v", errors.Errorf("%v", err))
	}

	err = parser.Parse(os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, arg.ErrHelp):
		ShowHelp("")
	case errors.Is(err, arg.ErrVersion):
		ShowVersion()
	default:
		ShowHelp(fmt.Sprintf("%v", errors.Errorf("%v", err)))
	}
}

func progressLogger(a Args) *log.Logger {
	if a.Quiet {
		return discardLogger
	}
	return log.Default()
}

// ! HUDフォルダの変換処理を行う。
func NormalizeHud(fs afero.Fs, a Args, logger *log.Logger) (*Report, error) {
	root, err := filepath.Abs(a.HudDir)
	if err != nil {
		return nil, errors.Wrapf(err, "パスを解決できません: %s", a.HudDir)
	}
	logger.Printf("対象HUD: %s", root)

	if !a.KeepRootName {
		renamed, err := LowercaseRoot(fs, root)
		if err != nil {
			return nil, err
		}
		if renamed != root {
			logger.Printf("HUDフォルダをリネーム: %s → %s", filepath.Base(root), filepath.Base(renamed))
			root = renamed
		}
	}

	rep, err := NewNormalizer(fs, root, logger).Run()
	if err != nil {
		return rep, err
	}

	fmt.Printf("変換完了: %s (リネーム %d, clientscheme %d, .res %d, .cfg %d, エラー %d)\n",
		root, rep.Renamed, rep.Clientschemes, rep.ResFiles, rep.CfgFiles, len(rep.Errors))
	return rep, nil
}

// ! 結果から終了コードを決める。
func exitCode(rep *Report, err error) int {
	if err != nil {
		log.Printf("変換処理に失敗しました: %v", err)
		return exitFatal
	}
	if rep != nil && len(rep.Errors) > 0 {
		log.Printf("%d件のエラーがありました", len(rep.Errors))
		return exitPartial
	}
	return exitOK
}
