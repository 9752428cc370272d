// Package scrape recovers catalog records from rendered product-card
// markup. It is the last resort before the hardcoded defaults: used only
// when both the remote store and the local blob are empty, and its
// result is persisted back so future loads skip it.
package scrape

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
)

// Products walks the markup and collects every .product-card element.
// Identity comes from data-id; name and price from the .product-name and
// .price children; sizes from the comma-separated data-sizes attribute.
func Products(r io.Reader) ([]domain.Product, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "product-card") {
			if p, ok := card(n); ok {
				out = append(out, p)
			}
			return // cards don't nest
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func card(n *html.Node) (domain.Product, bool) {
	p := domain.Product{
		ID:       attr(n, "data-id"),
		Category: attr(n, "data-category"),
		Image:    attr(n, "data-image"),
		Material: attr(n, "data-material"),
		Fit:      attr(n, "data-fit"),
	}
	if p.ID == "" {
		return domain.Product{}, false
	}
	if s := attr(n, "data-sizes"); s != "" {
		for _, sz := range strings.Split(s, ",") {
			if sz = strings.TrimSpace(sz); sz != "" {
				p.Sizes = append(p.Sizes, sz)
			}
		}
	}
	if s := attr(n, "data-thumbnails"); s != "" {
		for _, t := range strings.Split(s, ",") {
			if t = strings.TrimSpace(t); t != "" {
				p.Thumbnails = append(p.Thumbnails, t)
			}
		}
	}
	p.Name = textOfClass(n, "product-name")
	p.Price = textOfClass(n, "price")
	p.Description = textOfClass(n, "product-description")
	p.Badge = textOfClass(n, "product-badge")
	if p.Price == "" {
		p.Price = "0.00 " + domain.Currency
	}
	return p, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOfClass(n *html.Node, class string) string {
	var found *html.Node
	var find func(*html.Node)
	find = func(m *html.Node) {
		if found != nil {
			return
		}
		if m.Type == html.ElementNode && hasClass(m, class) {
			found = m
			return
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(n)
	if found == nil {
		return ""
	}
	var b strings.Builder
	var text func(*html.Node)
	text = func(m *html.Node) {
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			text(c)
		}
	}
	text(found)
	return strings.TrimSpace(b.String())
}
