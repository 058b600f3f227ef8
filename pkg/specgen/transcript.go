package specgen

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
)

const maxLineSize = 64 * 1024 * 1024

// TranscriptText returns the text to analyze. Claude Code JSONL transcripts
// are reduced to the text blocks of their user and assistant messages, one
// message per line; anything else is returned unchanged.
func TranscriptText(data []byte) string {
	if text, ok := jsonlText(data); ok {
		return text
	}
	return string(data)
}

func jsonlText(data []byte) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		parts    []string
		messages int
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return "", false
		}

		entryType := gjson.Get(line, "type").Str
		if entryType != "user" && entryType != "assistant" {
			continue
		}
		if entryType == "user" && (gjson.Get(line, "isMeta").Bool() || gjson.Get(line, "isCompactSummary").Bool()) {
			continue
		}
		messages++

		if text := contentText(gjson.Get(line, "message.content")); text != "" {
			parts = append(parts, text)
		}
	}
	if scanner.Err() != nil || messages == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}

// contentText handles both string content and arrays of content blocks,
// keeping only blocks of type "text".
func contentText(content gjson.Result) string {
	if content.Type == gjson.String {
		return content.Str
	}
	if !content.IsArray() {
		return ""
	}

	var parts []string
	content.ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").Str == "text" {
			if text := block.Get("text").Str; text != "" {
				parts = append(parts, text)
			}
		}
		return true
	})
	return strings.Join(parts, "\n")
}
