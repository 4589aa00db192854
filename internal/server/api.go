package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapreq/internal/document"
)

// routes mounts the REST API, the HTML pages and the reload stream.
func (s *Server) routes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/index", s.handleIndex)
	r.Get("/traceability", s.handleTraceability)

	r.Get("/documents", s.handleDocuments)
	r.Get("/documents/all", s.handleAllDocuments)
	r.Route("/documents/{prefix}", func(r chi.Router) {
		r.Get("/", s.handleDocument)
		r.Post("/numbers", s.handleNumbers)
		r.Get("/items", s.handleItems)
		r.Get("/items/{uid}", s.handleItem)
		r.Get("/items/{uid}/attrs", s.handleAttrs)
		r.Get("/items/{uid}/attrs/{name}", s.handleAttr)
	})

	r.Get("/events", s.handleEvents)
	r.Handle("/static/*", staticHandler())
}

// wantsJSON reports whether the request asked for a JSON response,
// either with a format=json query parameter or a JSON body carrying
// {"format": "json"}.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	var body struct {
		Format string `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return false
	}
	return body.Format == "json"
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// findDocument wraps the tree lookup with the HTTP error response.
func (s *Server) findDocument(w http.ResponseWriter, r *http.Request) *document.Document {
	doc, err := s.snapshot().FindDocument(chi.URLParam(r, "prefix"))
	if err != nil {
		http.Error(w, fmt.Sprintf("document %s: %v", chi.URLParam(r, "prefix"), err), http.StatusNotFound)
		return nil
	}
	return doc
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	t := s.snapshot()
	if wantsJSON(r) {
		writeJSON(w, map[string]any{"prefixes": t.Prefixes()})
		return
	}
	s.renderDocumentList(w, t)
}

func (s *Server) handleAllDocuments(w http.ResponseWriter, r *http.Request) {
	t := s.snapshot()
	if wantsJSON(r) {
		data := make(map[string]any, len(t.Documents()))
		for _, doc := range t.Documents() {
			items := make(map[string]any, len(doc.Items))
			for _, it := range doc.Items {
				items[it.UID.String()] = it.Data()
			}
			data[doc.Prefix] = items
		}
		writeJSON(w, data)
		return
	}
	s.renderDocumentList(w, t)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc := s.findDocument(w, r)
	if doc == nil {
		return
	}
	if wantsJSON(r) {
		data := make(map[string]any, len(doc.Items))
		for _, it := range doc.Items {
			data[it.UID.String()] = it.Data()
		}
		writeJSON(w, data)
		return
	}
	s.renderDocument(w, doc)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	doc := s.findDocument(w, r)
	if doc == nil {
		return
	}
	uids := make([]string, 0, len(doc.Items))
	for _, it := range doc.Items {
		uids = append(uids, it.UID.String())
	}
	if wantsJSON(r) {
		writeJSON(w, map[string]any{"uids": uids})
		return
	}
	s.renderItemList(w, doc, uids)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	doc := s.findDocument(w, r)
	if doc == nil {
		return
	}
	it := doc.FindItem(chi.URLParam(r, "uid"))
	if it == nil {
		http.Error(w, fmt.Sprintf("item %s: not found", chi.URLParam(r, "uid")), http.StatusNotFound)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, map[string]any{"data": it.Data()})
		return
	}
	s.rememberItem(w, r, it.UID.String())
	s.renderItem(w, doc, it)
}

func (s *Server) handleAttrs(w http.ResponseWriter, r *http.Request) {
	doc := s.findDocument(w, r)
	if doc == nil {
		return
	}
	it := doc.FindItem(chi.URLParam(r, "uid"))
	if it == nil {
		http.Error(w, fmt.Sprintf("item %s: not found", chi.URLParam(r, "uid")), http.StatusNotFound)
		return
	}
	data := it.Data()
	attrs := make([]string, 0, len(data))
	for name := range data {
		attrs = append(attrs, name)
	}
	sort.Strings(attrs)
	if wantsJSON(r) {
		writeJSON(w, map[string]any{"attrs": attrs})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, strings.Join(attrs, "<br>"))
}

func (s *Server) handleAttr(w http.ResponseWriter, r *http.Request) {
	doc := s.findDocument(w, r)
	if doc == nil {
		return
	}
	it := doc.FindItem(chi.URLParam(r, "uid"))
	if it == nil {
		http.Error(w, fmt.Sprintf("item %s: not found", chi.URLParam(r, "uid")), http.StatusNotFound)
		return
	}
	name := chi.URLParam(r, "name")
	value, ok := it.Data()[name]
	if wantsJSON(r) {
		// Absent attributes come back as a null value, not an error.
		writeJSON(w, map[string]any{"value": value})
		return
	}
	if !ok {
		http.Error(w, fmt.Sprintf("attribute %s: not found", name), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch v := value.(type) {
	case string:
		_, _ = io.WriteString(w, v)
	case []string:
		_, _ = io.WriteString(w, strings.Join(v, "<br>"))
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, fmt.Sprint(e))
		}
		_, _ = io.WriteString(w, strings.Join(parts, "<br>"))
	default:
		fmt.Fprint(w, v)
	}
}

func (s *Server) handleTraceability(w http.ResponseWriter, r *http.Request) {
	t := s.snapshot()
	if wantsJSON(r) {
		rows := t.Traceability()
		if rows == nil {
			rows = [][]string{}
		}
		writeJSON(w, map[string]any{"traceability": rows})
		return
	}
	s.renderTraceability(w, t)
}

// handleNumbers reserves the next item number for a document. Counters
// live in server memory seeded from the highest number on disk, so
// repeated reservations stay unique even before items are written.
func (s *Server) handleNumbers(w http.ResponseWriter, r *http.Request) {
	doc := s.findDocument(w, r)
	if doc == nil {
		return
	}

	s.numMu.Lock()
	number := doc.NextNumber()
	if cached := s.numbers[doc.Prefix]; cached > number {
		number = cached
	}
	s.numbers[doc.Prefix] = number + 1
	s.numMu.Unlock()

	if wantsJSON(r) {
		writeJSON(w, map[string]int{"next": number})
		return
	}
	fmt.Fprintf(w, "%d", number)
}

// handleEvents is the long-lived reload stream. Browsers subscribe on
// page load; a ping after a snapshot rebuild reloads the page.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := s.reload.subscribe()
	defer s.reload.unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.ExecuteScript("window.location.reload()"); err != nil {
				return
			}
		}
	}
}
