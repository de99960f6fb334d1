package gemini

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Translate renders English recap text into the target language through the
// model chain. The target is named in English in the prompt so short codes
// like "es" or "ja" do not confuse the model.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf(`Translate the following MLB game recap from English to %s.
Return only the translated text, no commentary.

%s`, languageName(targetLanguage), text)

	raw, err := c.generateText(ctx, prompt, recapGenConfig)
	if err != nil {
		return "", err
	}
	return cleanRecapText(raw), nil
}

func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
