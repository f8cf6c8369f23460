package idl

import (
	"encoding/json"

	"periscope-sol/internal/idlerr"
)

// Dialect IDL 的方言
type Dialect uint8

const (
	DialectCanonical Dialect = iota
	DialectLegacy
)

func (d Dialect) String() string {
	switch d {
	case DialectCanonical:
		return "canonical"
	case DialectLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Parse 自动识别方言并返回规范文档。判定顺序固定：
//  1. 根节点 address 为字符串 -> 规范格式，解析失败直接返回 ParseFailed
//  2. 否则存在 name -> 先尝试旧格式，失败继续往下
//  3. 依次尝试规范格式、旧格式
//  4. 全部失败 -> ParseFailed，cause 取规范格式的错误
func Parse(text []byte) (*Document, error) {
	doc, _, err := ParseWithDialect(text)
	return doc, err
}

// ParseWithDialect 同 Parse，额外返回识别出的方言
func ParseWithDialect(text []byte) (*Document, Dialect, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(text, &root); err != nil {
		return nil, DialectCanonical, idlerr.ParseFailed(err)
	}

	if raw, ok := root["address"]; ok && firstToken(raw) == '"' {
		doc, err := parseCanonical(text)
		if err != nil {
			return nil, DialectCanonical, idlerr.ParseFailed(err)
		}
		return doc, DialectCanonical, nil
	}

	if _, ok := root["name"]; ok {
		if doc, err := parseLegacy(text); err == nil {
			return doc, DialectLegacy, nil
		}
	}

	doc, canonicalErr := parseCanonical(text)
	if canonicalErr == nil {
		return doc, DialectCanonical, nil
	}
	if doc, err := parseLegacy(text); err == nil {
		return doc, DialectLegacy, nil
	}
	return nil, DialectCanonical, idlerr.ParseFailed(canonicalErr)
}

func parseCanonical(text []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(text, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func parseLegacy(text []byte) (*Document, error) {
	var legacy LegacyDocument
	if err := json.Unmarshal(text, &legacy); err != nil {
		return nil, err
	}
	return legacy.ToCanonical(), nil
}
