package types

type ItemId uint
type CategoryId uint

// ProductImages is the pair of image lists every product surface renders
// from. Thumbnails and Previews are guaranteed non-empty after
// WithFallback, mirroring what the storefront does before items reach the
// cart.
type ProductImages struct {
	Thumbnails []string `json:"thumbnails"`
	Previews   []string `json:"previews"`
}

const placeholderImage = "/images/products/placeholder.png"

func (p ProductImages) WithFallback() ProductImages {
	out := p
	if len(out.Thumbnails) == 0 {
		if len(out.Previews) > 0 {
			out.Thumbnails = out.Previews
		} else {
			out.Thumbnails = []string{placeholderImage}
		}
	}
	if len(out.Previews) == 0 {
		out.Previews = out.Thumbnails
	}
	return out
}

type Attribute struct {
	Label LocalizedText `json:"label"`
	Value LocalizedText `json:"value"`
}

// Product is the canonical catalog record. Prices are integer minor units.
// OfferPrice of zero means no discount.
type Product struct {
	Id           ItemId        `json:"id"`
	Name         LocalizedText `json:"name"`
	Description  LocalizedText `json:"description,omitempty"`
	Price        int           `json:"price"`
	OfferPrice   int           `json:"offer_price,omitempty"`
	Stock        int           `json:"stock"`
	CategoryId   CategoryId    `json:"category_id"`
	Images       ProductImages `json:"imgs"`
	IsBestSeller bool          `json:"is_best_seller,omitempty"`
	Attributes   []Attribute   `json:"attributes,omitempty"`
}

// EffectivePrice is the price actually charged: the offer price when one is
// set and lower than the list price.
func (p *Product) EffectivePrice() int {
	if p.OfferPrice > 0 && p.OfferPrice < p.Price {
		return p.OfferPrice
	}
	return p.Price
}

func (p *Product) HasOffer() bool {
	return p.OfferPrice > 0 && p.OfferPrice < p.Price
}

func (p *Product) GetTitle(locale Locale) string {
	return p.Name.Resolve(locale)
}

type Category struct {
	Id    CategoryId    `json:"id"`
	Name  LocalizedText `json:"name"`
	Image string        `json:"img,omitempty"`
}
