package main

import (
	"regexp"
	"strings"
)

// .resファイルからtf/cfg/までに必要な"../"は深さ+2(HUDフォルダ → custom → tf)。
const cfgDepthOffset = 2

var (
	// echo "#base" "../../resource/ui/x.res" 形式。.cfgからコンソールログ経由で#baseされる。
	echoBasePattern = regexp.MustCompile(`(?i)(echo\s+["']?#base["']?\s+["']?)(.*?\.(?:res|vmt))(["']?.*)`)
	// 先頭が"../"で始まるパス。直前はパス以外の文字であること。
	ascentPattern = regexp.MustCompile(`(^|[^\w./\\-])((?:\.\.[/\\])+[^\s"';]*)`)

	// .res内の #base "../../../cfg/hud.txt" 形式。
	cfgBasePattern = regexp.MustCompile(`(?i)(#base\s+")([^"]*cfg[^"]+)(")`)
	// .res内の #base "file.res" 形式。cfgを含むものは除く。
	resBasePattern = regexp.MustCompile(`(?i)(#base\s+")([^"]+\.res)(")`)
	// "resource/..." や "scripts/..." のスキーマ宣言。
	schemaPattern = regexp.MustCompile(`(?i)(")((?:resource|scripts)[/\\][^"\n]+)`)
	// "../hud/ico_x" のような"../"で始まる値。#base行は除く。
	relValuePattern = regexp.MustCompile(`(")((?:\.\.[/\\])+[^"\n]+)(")`)
	baseLine        = regexp.MustCompile(`(?i)^\s*#base\b`)

	resourceAscent = regexp.MustCompile(`(\.\./)+resource/`)
	scriptsAscent  = regexp.MustCompile(`(\.\./)+scripts/`)
)

// ! 全ての.cfgファイルのパスを正規化する。変更したファイル数を返す。
func (n *Normalizer) NormalizeCfgFiles(rep *Report) int {
	modified := 0
	for _, f := range n.collectFiles(".cfg", rep) {
		rel := n.rel(f)
		depth := fileDepth(n.root, f)
		changed, err := n.rewriteFile(f, func(content string) string {
			out, errs := rewriteCfg(content, rel, depth, n.hudName)
			for _, e := range errs {
				n.fail(rep, e)
			}
			return out
		})
		if err != nil {
			n.fail(rep, err)
			continue
		}
		if changed {
			modified++
		}
	}
	return modified
}

// ! 全ての.resファイルの#baseパスとスキーマ宣言を正規化する。変更したファイル数を返す。
func (n *Normalizer) NormalizeResFiles(rep *Report) int {
	modified := 0
	for _, f := range n.collectFiles(".res", rep) {
		rel := n.rel(f)
		depth := fileDepth(n.root, f)
		changed, err := n.rewriteFile(f, func(content string) string {
			out, errs := rewriteRes(content, rel, depth)
			for _, e := range errs {
				n.fail(rep, e)
			}
			return out
		})
		if err != nil {
			n.fail(rep, err)
			continue
		}
		if changed {
			modified++
		}
	}
	return modified
}

// ! .cfgの内容を書き換える。echo #base行はtf/cfg基準の明示パスにし、
// それ以外の"../"の数はファイルの深さに揃える。
func rewriteCfg(content, rel string, depth int, hudName string) (string, []error) {
	var errs []error
	out := mapLines(content, func(lineNo int, line string) string {
		if echoBasePattern.MatchString(line) {
			return rewriteEchoBase(line, hudName)
		}
		return ascentPattern.ReplaceAllStringFunc(line, func(match string) string {
			m := ascentPattern.FindStringSubmatch(match)
			fixed, ok := withDepth(m[2], depth)
			if !ok {
				errs = append(errs, &PathError{File: rel, Line: lineNo, Path: m[2]})
				return match
			}
			return m[1] + fixed
		})
	})
	return out, errs
}

// ! echo #base行のresource/scriptsパスを ../../custom/<hud>/... 形式にする。
// パス全体は小文字化するが、HUDフォルダ名はディスク上の表記に合わせる。
func rewriteEchoBase(line, hudName string) string {
	return echoBasePattern.ReplaceAllStringFunc(line, func(match string) string {
		m := echoBasePattern.FindStringSubmatch(match)
		p := lower(slashed(m[2]))
		custom := "/custom/" + hudName + "/"
		lowerCustom := lower(custom)

		if strings.Contains(p, "/resource/") && !strings.Contains(p, lowerCustom+"resource/") {
			p = resourceAscent.ReplaceAllLiteralString(p, "../.."+lowerCustom+"resource/")
		}
		if strings.Contains(p, "/scripts/") && !strings.Contains(p, lowerCustom+"scripts/") {
			p = scriptsAscent.ReplaceAllLiteralString(p, "../.."+lowerCustom+"scripts/")
		}
		p = strings.Replace(p, lowerCustom, custom, 1)
		return m[1] + p + m[3]
	})
}

// ! .resの内容を書き換える。depthはファイルの深さ。
func rewriteRes(content, rel string, depth int) (string, []error) {
	var errs []error
	out := mapLines(content, func(lineNo int, line string) string {
		line = cfgBasePattern.ReplaceAllStringFunc(line, func(match string) string {
			m := cfgBasePattern.FindStringSubmatch(match)
			p := normalizeRef(m[2])
			if strings.Contains(p, "/cfg/") {
				fixed, ok := withDepth(p, depth+cfgDepthOffset)
				if !ok {
					errs = append(errs, &PathError{File: rel, Line: lineNo, Path: m[2]})
					return match
				}
				p = fixed
			}
			return m[1] + p + m[3]
		})
		line = resBasePattern.ReplaceAllStringFunc(line, func(match string) string {
			m := resBasePattern.FindStringSubmatch(match)
			if strings.Contains(lower(m[2]), "cfg") {
				return match
			}
			return m[1] + normalizeRef(m[2]) + m[3]
		})
		line = schemaPattern.ReplaceAllStringFunc(line, func(match string) string {
			m := schemaPattern.FindStringSubmatch(match)
			return m[1] + normalizeRef(m[2])
		})
		if baseLine.MatchString(line) {
			return line
		}
		return relValuePattern.ReplaceAllStringFunc(line, func(match string) string {
			m := relValuePattern.FindStringSubmatch(match)
			return m[1] + normalizeRef(m[2]) + m[3]
		})
	})
	return out, errs
}
