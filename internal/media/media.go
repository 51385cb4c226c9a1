// Package media locates image and document references on a listing page,
// tags them by context, and runs the OCR sub-pipeline over the contexts that
// carry machine-readable facts (floorplans, maps, legal documents).
package media

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goleilao/internal/ocr"
)

// Context tags for located assets.
const (
	ContextGallery       = "gallery"
	ContextPrimary       = "primary"
	ContextFloorplan     = "floorplan"
	ContextMap           = "map"
	ContextLegalDocument = "legal-document"
)

// Asset is one located media reference with its context tag and, for OCR'd
// contexts, the recognition analysis.
type Asset struct {
	URL     string    `json:"url"`
	Context string    `json:"context"`
	Alt     string    `json:"alt,omitempty"`
	Title   string    `json:"title,omitempty"`
	OCR     *Analysis `json:"ocr,omitempty"`
}

// imageGroups maps each context to its ranked selector group, as observed
// across supported auction sites.
var imageGroups = []struct {
	context   string
	selectors []string
}{
	{ContextGallery, []string{"div.galeria img", ".fotos img", ".slider img", ".gallery img"}},
	{ContextPrimary, []string{".imagem-principal img", ".foto-destaque img"}},
	{ContextFloorplan, []string{".planta img", ".blueprint img"}},
	{ContextMap, []string{".mapa img", ".localizacao img"}},
	{ContextLegalDocument, []string{".documento img", ".certidao img", ".matricula img"}},
}

// documentLinkSelectors find attached legal documents (edital, matrícula,
// laudo, processo). They are tagged legal-document but never OCR'd here:
// only image bytes go through the recognition pipeline.
var documentLinkSelectors = []string{
	`a[href*="edital"]`, `.documentos a[href$=".pdf"]`,
	`a[href*="matricula"]`, `a[href*="certidao"]`,
	`a[href*="laudo"]`, `a[href*="avaliacao"]`,
	`a[href*="processo"]`, `a[href*="autos"]`,
}

var (
	imageExtensions    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}
	documentExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true, ".txt": true}
)

// ocrContexts are the tags whose images go through the sub-pipeline.
var ocrContexts = map[string]bool{ContextFloorplan: true, ContextMap: true, ContextLegalDocument: true}

// ByteFetcher retrieves asset bytes; the shared rate limiter sits behind it.
type ByteFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, string, error)
}

// Extractor scans one page for media. Construct a fresh instance per
// extraction call: the OCR result cache is owned exclusively by the instance,
// so it needs no locking and never outlives the call.
type Extractor struct {
	Fetcher    ByteFetcher
	Recognizer ocr.Recognizer

	cache map[string]*Analysis
}

// New builds a per-call extractor. Recognizer may be nil, which disables the
// OCR sub-pipeline but still locates and tags assets.
func New(fetcher ByteFetcher, recognizer ocr.Recognizer) *Extractor {
	return &Extractor{Fetcher: fetcher, Recognizer: recognizer, cache: map[string]*Analysis{}}
}

// Extract walks the category selector groups, resolves URLs against the page
// base, filters by allowed extensions, and OCRs the context-relevant images.
// It is best-effort throughout: a failing asset is skipped, never fatal.
func (e *Extractor) Extract(ctx context.Context, tree *goquery.Document, baseURL string) []Asset {
	if tree == nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var assets []Asset
	seen := map[string]bool{}

	for _, group := range imageGroups {
		for _, sel := range group.selectors {
			tree.Find(sel).Each(func(_ int, img *goquery.Selection) {
				src, ok := img.Attr("data-src")
				if !ok || src == "" {
					src, _ = img.Attr("src")
				}
				resolved := resolveURL(base, src)
				if resolved == "" || seen[group.context+"|"+resolved] || !hasExtension(resolved, imageExtensions) {
					return
				}
				seen[group.context+"|"+resolved] = true

				asset := Asset{
					URL:     resolved,
					Context: group.context,
					Alt:     strings.TrimSpace(img.AttrOr("alt", "")),
					Title:   strings.TrimSpace(img.AttrOr("title", "")),
				}
				if ocrContexts[group.context] {
					asset.OCR = e.recognize(ctx, resolved, group.context)
				}
				assets = append(assets, asset)
			})
		}
	}

	for _, sel := range documentLinkSelectors {
		tree.Find(sel).Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			resolved := resolveURL(base, href)
			if resolved == "" || seen[ContextLegalDocument+"|"+resolved] || !hasExtension(resolved, documentExtensions) {
				return
			}
			seen[ContextLegalDocument+"|"+resolved] = true
			assets = append(assets, Asset{
				URL:     resolved,
				Context: ContextLegalDocument,
				Title:   strings.TrimSpace(link.Text()),
			})
		})
	}
	return assets
}

// recognize runs the sub-pipeline for one image: fetch bytes, preprocess,
// recognize, contextual parse. Results are cached by URL for the lifetime of
// the extractor so repeated references cost one OCR pass.
func (e *Extractor) recognize(ctx context.Context, imageURL, contextTag string) *Analysis {
	if e.Recognizer == nil || e.Fetcher == nil {
		return nil
	}
	if cached, ok := e.cache[imageURL]; ok {
		return cached
	}

	raw, _, err := e.Fetcher.FetchBytes(ctx, imageURL)
	if err != nil {
		log.Debug().Str("url", imageURL).Err(err).Msg("asset fetch failed")
		return nil
	}
	prepared, err := ocr.Preprocess(raw)
	if err != nil {
		log.Debug().Str("url", imageURL).Err(err).Msg("preprocess failed")
		return nil
	}
	res, err := e.Recognizer.Recognize(ctx, prepared)
	if err != nil {
		log.Debug().Str("url", imageURL).Err(err).Msg("recognition failed")
		return nil
	}

	analysis := analyzeText(res, contextTag)
	e.cache[imageURL] = analysis
	return analysis
}

func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func hasExtension(rawURL string, allowed map[string]bool) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return allowed[strings.ToLower(path.Ext(u.Path))]
}
