package selector

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Preview is the card shown for the highlighted result.
type Preview struct {
	Title        string
	Code         string
	ImageURL     string
	Description  string
	MaterialLine string
	ItemGroup    string
	Dimensions   string
	UOM          string
}

// PreviewOf builds the preview card. Relative image paths are resolved
// against siteURL.
func PreviewOf(it Item, siteURL string) Preview {
	return Preview{
		Title:        it.Title(),
		Code:         it.Code,
		ImageURL:     fullURL(siteURL, it.Image),
		Description:  StripHTML(it.Description),
		MaterialLine: orDash(it.MaterialLine),
		ItemGroup:    orDash(it.ItemGroup),
		Dimensions:   Dimensions(it.Width, it.Height, it.Depth),
		UOM:          orDash(it.StockUOM),
	}
}

// Dimensions renders "W × H × D" with "-" for blank parts.
func Dimensions(w, h, d interface{}) string {
	parts := make([]string, 0, 3)
	for _, v := range []interface{}{w, h, d} {
		parts = append(parts, dimension(v))
	}
	return strings.Join(parts, " × ")
}

func dimension(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	}
	return fmt.Sprint(v)
}

// StripHTML returns the text content of an HTML fragment with whitespace
// collapsed.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func fullURL(siteURL, src string) string {
	if src == "" || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	if siteURL == "" {
		return src
	}
	return strings.TrimRight(siteURL, "/") + "/" + strings.TrimLeft(src, "/")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
