package model

// ProductMedia is one gallery entry of a product: a remote media id plus its
// position. The entry id is the product_media association id when known.
type ProductMedia struct {
	ID       string
	MediaID  string
	Position int
}

// SeoURL is one canonical SEO path of a product per sales channel.
type SeoURL struct {
	ID             string
	SalesChannelID string
	SeoPathInfo    string
	PathInfo       string
	RouteName      string
	IsCanonical    bool
}

func (s SeoURL) payload() map[string]any {
	data := map[string]any{
		"salesChannelId": s.SalesChannelID,
		"seoPathInfo":    s.SeoPathInfo,
		"pathInfo":       s.PathInfo,
		"routeName":      s.RouteName,
		"isCanonical":    s.IsCanonical,
	}
	if s.ID != "" {
		data["id"] = s.ID
	}
	return data
}
