package components_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonpull/moonpull-web/internal/dependencies/mocks"
	"github.com/moonpull/moonpull-web/internal/prompt"
	"github.com/moonpull/moonpull-web/internal/web/templates/components"
)

func renderPrompt(t *testing.T, p *prompt.Prompt) (*goquery.Document, string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, components.LoginPrompt(p).Render(context.Background(), &buf))
	html := buf.String()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return doc, html
}

func TestLoginPromptStructure(t *testing.T) {
	doc, _ := renderPrompt(t, prompt.New("/dashboard", &mocks.Navigator{}))

	root := doc.Find("div.prompt[data-prompt='login-required']")
	require.Equal(t, 1, root.Length())
	requested, _ := root.Attr("data-requested")
	assert.Equal(t, "/dashboard", requested)

	// Backdrop and surface are siblings under the prompt root
	assert.Equal(t, 1, doc.Find(".prompt > a.prompt-backdrop").Length())
	assert.Equal(t, 1, doc.Find(".prompt > .prompt-surface").Length())
	assert.Equal(t, 0, doc.Find(".prompt-backdrop .prompt-surface").Length())

	backdrop, _ := doc.Find(".prompt-backdrop").Attr("href")
	assert.Equal(t, "/", backdrop)
	cancel, _ := doc.Find(".prompt-surface [data-action='dismiss']").Attr("href")
	assert.Equal(t, "/", cancel)
	proceed, _ := doc.Find(".prompt-surface [data-action='proceed']").Attr("href")
	assert.Equal(t, "/auth/login?redirect=/dashboard", proceed)
	assert.Equal(t, "Login required", doc.Find(".prompt-surface h2").Text())
}

func TestLoginPromptEscapesRequestedPath(t *testing.T) {
	doc, html := renderPrompt(t, prompt.New(`/x"><script>alert(1)</script>`, &mocks.Navigator{}))

	assert.NotContains(t, html, "<script>")
	assert.Equal(t, 0, doc.Find("script").Length())
	requested, _ := doc.Find(".prompt").Attr("data-requested")
	assert.Equal(t, `/x"><script>alert(1)</script>`, requested)
}

func TestLoginPromptClosedRendersNothing(t *testing.T) {
	p := prompt.New("/dashboard", &mocks.Navigator{})
	p.Dismiss()

	_, html := renderPrompt(t, p)
	assert.Empty(t, html)
}
