package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/cache"
	"github.com/sproutworks/furrow/pkg/graphio"
	"github.com/sproutworks/furrow/pkg/layout"
)

// loadConstants resolves layout constants, applying TOML overrides when a
// path is configured.
func loadConstants(path string) (layout.Constants, error) {
	if path == "" {
		return layout.DefaultConstants(), nil
	}
	return layout.LoadConstants(path)
}

// constantsHash fingerprints the geometry contract for cache keys.
func constantsHash(c layout.Constants) string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// itemsHash fingerprints the loaded item set. Items are hashed in id
// order with every field that can affect layout, so reordering sheet rows
// does not invalidate the cache but editing one value does.
func itemsHash(items *balance.Collection) string {
	if items == nil {
		return cache.Hash(nil)
	}

	all := items.Items()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	var buf bytes.Buffer
	for _, it := range all {
		fmt.Fprintf(&buf, "%s|%s|%s|%s|%s|%s|%g|%g|%g\n",
			it.ID, it.Name, it.Type,
			strings.Join(it.Categories, ","),
			it.SourceFile,
			strings.Join(it.Prerequisites, ","),
			it.Cost, it.Value, it.Seconds)
	}
	return cache.Hash(buf.Bytes())
}

// encodeLayout serializes a layout result for caching, using the same
// document format the export command writes.
func encodeLayout(res layout.Result, consts layout.Constants) ([]byte, error) {
	var buf bytes.Buffer
	if err := graphio.WriteJSON(graphio.NewDocument(res, consts), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeLayout restores a cached layout. Diagnostics are not round-
// tripped; a cached result carries an empty collector.
func decodeLayout(data []byte) (layout.Result, error) {
	doc, err := graphio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return layout.Result{}, err
	}
	return docToResult(doc), nil
}

// docToResult rebuilds a Result from its exported document form.
func docToResult(doc graphio.Document) layout.Result {
	res := layout.Result{
		Nodes:       doc.Nodes,
		Edges:       doc.Edges,
		Recoveries:  doc.Recoveries,
		Boundaries:  make(map[layout.Lane]layout.Boundary, len(doc.Lanes)),
		LaneHeights: make(map[layout.Lane]float64, len(doc.Lanes)),
		Diagnostics: layout.NewDiagnostics(),
	}
	for _, b := range doc.Lanes {
		res.Boundaries[b.Lane] = b
		res.LaneHeights[b.Lane] = b.Height
	}
	return res
}
