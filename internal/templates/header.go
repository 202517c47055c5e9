package templates

import (
	"bufio"
	"strings"
)

// FileHeader is the first line of every generated file
const FileHeader = "// <auto-generated/>"

const byteOrderMark = "\uFEFF"

// IsGeneratedContent reports whether content starts with the generated file header
func IsGeneratedContent(content string) bool {
	scanner := bufio.NewScanner(strings.NewReader(content))
	if !scanner.Scan() {
		return false
	}
	first := strings.TrimPrefix(scanner.Text(), byteOrderMark)
	return strings.TrimSpace(first) == FileHeader
}
