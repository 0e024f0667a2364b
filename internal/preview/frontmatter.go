package preview

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"siteseek/internal/domain"
)

const frontmatterFence = "+++"

// splitFrontmatter separates the TOML frontmatter block from the page body.
// Pages without a frontmatter fence yield a zero Frontmatter and the whole
// input as body.
func splitFrontmatter(source []byte) (domain.Frontmatter, []byte, error) {
	var fm domain.Frontmatter

	text := string(source)
	if !strings.HasPrefix(strings.TrimLeft(text, "\n\r"), frontmatterFence) {
		return fm, source, nil
	}

	trimmed := strings.TrimLeft(text, "\n\r")
	rest := trimmed[len(frontmatterFence):]
	end := strings.Index(rest, "\n"+frontmatterFence)
	if end < 0 {
		return fm, nil, fmt.Errorf("unterminated frontmatter block")
	}

	block := rest[:end]
	body := rest[end+1+len(frontmatterFence):]
	body = strings.TrimPrefix(body, "\r")
	body = strings.TrimPrefix(body, "\n")

	if err := toml.Unmarshal([]byte(block), &fm); err != nil {
		return fm, nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	return fm, []byte(body), nil
}
