package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"recwidget/lib/products"
	"recwidget/widget/dom"
	"recwidget/widget/source"
)

// display tuning attributes, set by the embedder and read only here
const (
	attrColumns      = "data-columns"
	attrIconStyle    = "data-icon-style"
	attrIconShape    = "data-icon-shape"
	attrSectionWidth = "data-section-width"
)

const defaultColumns = 4

var templates = template.Must(template.New("recs").Funcs(template.FuncMap{
	"price": formatPrice,
}).Parse(`
{{define "card" -}}
<a class="recs-card" href="{{.URL}}">
{{- if .ImageURL}}<img class="recs-card__image" src="{{.ImageURL}}" alt="{{.Title}}">{{end -}}
<span class="recs-card__title">{{.Title}}</span>
<span class="recs-card__price">{{price .Price}}</span>
{{- if .CompareAtPrice}}<s class="recs-card__compare">{{price .CompareAtPrice}}</s>{{end -}}
</a>
{{- end}}

{{define "grid" -}}
<div class="recs-grid" data-columns="{{.Columns}}"{{if .SectionWidth}} style="max-width: {{.SectionWidth}}"{{end}}>
{{- range .Products}}{{template "card" .}}{{end -}}
</div>
{{- end}}

{{define "carousel" -}}
<div class="recs-carousel"{{if .SectionWidth}} style="max-width: {{.SectionWidth}}"{{end}}>
<button class="recs-carousel__nav recs-carousel__nav--prev {{.IconClass}}" aria-label="previous"></button>
{{- range .Pages}}
<div class="recs-carousel__page">
{{- range .}}{{template "card" .}}{{end -}}
</div>
{{- end}}
<button class="recs-carousel__nav recs-carousel__nav--next {{.IconClass}}" aria-label="next"></button>
</div>
{{- end}}
`))

// HTMLRenderer renders the card templates into the element's content.
// Display tuning comes off the element's own attributes.
type HTMLRenderer struct{}

type gridData struct {
	Products     []products.Product
	Columns      int
	SectionWidth string
}

type carouselData struct {
	Pages        [][]products.Product
	IconClass    string
	SectionWidth string
}

func (HTMLRenderer) Render(el *dom.Element, list []products.Product, layout source.Layout) error {
	columns := columnCount(el)

	var out strings.Builder
	var err error
	switch layout {
	case source.LayoutCarousel:
		err = templates.ExecuteTemplate(&out, "carousel", carouselData{
			Pages:        paginate(list, columns),
			IconClass:    iconClass(el),
			SectionWidth: el.Attr(attrSectionWidth),
		})
	default:
		err = templates.ExecuteTemplate(&out, "grid", gridData{
			Products:     list,
			Columns:      columns,
			SectionWidth: el.Attr(attrSectionWidth),
		})
	}
	if err != nil {
		return err
	}

	el.SetContent(out.String())
	el.SetAttr(dom.AttrHasRecommendations, "true")
	return nil
}

// RenderMarkup installs a server-rendered fragment verbatim.
func (HTMLRenderer) RenderMarkup(el *dom.Element, markup string, _ source.Layout) error {
	if strings.TrimSpace(markup) == "" {
		return fmt.Errorf("refusing to render an empty fragment")
	}
	el.SetContent(markup)
	el.SetAttr(dom.AttrHasRecommendations, "true")
	return nil
}

func columnCount(el *dom.Element) int {
	columns, err := strconv.Atoi(el.Attr(attrColumns))
	if err != nil || columns <= 0 {
		return defaultColumns
	}
	return columns
}

func iconClass(el *dom.Element) string {
	style := el.Attr(attrIconStyle)
	if style == "" {
		style = "chevron"
	}
	shape := el.Attr(attrIconShape)
	if shape == "" {
		shape = "round"
	}
	return fmt.Sprintf("recs-icon--%s recs-icon--%s", style, shape)
}

func paginate(list []products.Product, perPage int) [][]products.Product {
	var pages [][]products.Product
	for start := 0; start < len(list); start += perPage {
		end := start + perPage
		if end > len(list) {
			end = len(list)
		}
		pages = append(pages, list[start:end])
	}
	return pages
}

func formatPrice(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
