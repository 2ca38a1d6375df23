package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, contents string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestCleanText(t *testing.T) {
	doc := parse(t, "<span class=\"totalBalance\">\n  12\u00a0345,67 <b>kr</b>\n</span>")
	require.Equal(t, "12345,67kr", CleanText(doc.Find(".totalBalance")))
	require.Equal(t, "", CleanText(doc.Find(".missing")))
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, `<ul>
		<li><a href="/placera/telegram/1.html">First
			telegram</a></li>
		<li><a href="https://example.com/2">Second</a></li>
	</ul>`)

	base, err := url.Parse("https://avanza.se")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), base, doc.Find("a"))
	diff := cmp.Diff([]Anchor{
		{Name: "First telegram", Href: "https://avanza.se/placera/telegram/1.html"},
		{Name: "Second", Href: "https://example.com/2"},
	}, anchors)
	if diff != "" {
		t.Fatal(diff)
	}

	accounts := parse(t, "<a class=\"link\" href=\"/konto/1\">Aktie- och\n\t\tfondkonto</a>")
	named := GetAnchors(context.Background(), nil, accounts.Find("a.link"))
	require.Equal(t, "Aktie- och fondkonto", named[0].Name)

	relative := GetAnchors(context.Background(), nil, doc.Find("a").First())
	require.Equal(t, "/placera/telegram/1.html", relative[0].Href)
}

func TestNextElement(t *testing.T) {
	doc := parse(t, `<table><tr>
		<td class="first"><span title="a">inner</span></td>
		<td class="second">text only</td>
		<td class="third"></td>
	</tr></table><p id="after"></p>`)

	next := NextElement(doc.Find("td.first").Nodes[0])
	require.Equal(t, "span", next.Data)

	next = NextElement(doc.Find("td.second").Nodes[0])
	require.Equal(t, "td", next.Data)
	require.Equal(t, "third", goquery.NewDocumentFromNode(next).Selection.AttrOr("class", ""))

	next = NextElement(doc.Find("td.third").Nodes[0])
	require.Equal(t, "p", next.Data)

	require.Nil(t, NextElement(doc.Find("#after").Nodes[0]))
}
