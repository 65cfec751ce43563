package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExtractJSONObject 去掉 markdown 包裹並截取第一個 { 到最後一個 } 之間的內容
func ExtractJSONObject(raw string) (string, bool) {
	txt := strings.TrimSpace(raw)
	txt = strings.TrimPrefix(txt, "```json")
	txt = strings.TrimPrefix(txt, "```")
	txt = strings.TrimSuffix(txt, "```")
	txt = strings.TrimSpace(txt)

	start, end := strings.Index(txt, "{"), strings.LastIndex(txt, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return txt[start : end+1], true
}

// DecodeModelJSON 解析模型輸出的 JSON 物件，容忍 markdown 包裹與未加引號的鍵
func DecodeModelJSON(raw string, v interface{}) error {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return fmt.Errorf("no JSON object in model output")
	}
	if err := ParseJSON(obj, v); err == nil {
		return nil
	}
	return ParseJSON(QuoteJSONKeys(obj), v)
}

// Validator 由需要自我檢查的模型輸出結構實作
type Validator interface {
	Validate() error
}

// DecodeModelReply 解析模型輸出並執行 Validate，兩者都通過才算可用的回覆
func DecodeModelReply(raw string, v interface{}) error {
	if err := DecodeModelJSON(raw, v); err != nil {
		return err
	}
	if check, ok := v.(Validator); ok {
		return check.Validate()
	}
	return nil
}
