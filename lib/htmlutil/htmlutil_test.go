package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const anchorsPage = `<html><body>
<ul>
	<li><a href="/author/Albert-Einstein">(about)</a></li>
	<li><a href="page/2/#top">Next
		<span>→</span></a></li>
	<li><a>no href</a></li>
	<li><a href="https://other.example/x">elsewhere</a></li>
</ul>
<p>Hello, <b>bold</b> world</p>
</body></html>`

func TestGetLinks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(anchorsPage))
	if err != nil {
		t.Fatal(err)
	}
	base, err := url.Parse("https://quotes.toscrape.com/page/1/")
	if err != nil {
		t.Fatal(err)
	}

	links := GetLinks(context.Background(), base, doc.Find("a"))
	require.Equal(t, []string{
		"https://quotes.toscrape.com/author/Albert-Einstein",
		"https://quotes.toscrape.com/page/1/page/2/",
		"https://other.example/x",
	}, links)

	require.Empty(t, GetLinks(context.Background(), base, doc.Find("table a")))
}

func TestFirstText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(anchorsPage))
	if err != nil {
		t.Fatal(err)
	}

	text, ok := FirstText(doc.Find("p"))
	require.True(t, ok)
	require.Equal(t, "Hello, bold world", text)

	_, ok = FirstText(doc.Find("table"))
	require.False(t, ok)
}

func TestResolve(t *testing.T) {
	link, err := Resolve(nil, " /page/2/ ")
	require.NoError(t, err)
	require.Equal(t, "/page/2/", link)

	_, err = Resolve(nil, "http://[::1")
	require.Error(t, err)
}
