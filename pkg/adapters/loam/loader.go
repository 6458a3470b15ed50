package loam

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// StartVertexID is the vertex used as start when no document sets "start: true".
const StartVertexID = "start"

// Loader adapts a Loam repository to the ModelLoader interface.
// Every document is a vertex; its frontmatter declares the outgoing edges.
type Loader struct {
	Repo *loam.TypedRepository[VertexMetadata]
	Name string
}

var _ ports.ModelLoader = (*Loader)(nil)

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[VertexMetadata], name string) *Loader {
	return &Loader{
		Repo: repo,
		Name: name,
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
// The model is named after the directory.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode gives consistent numeric types (json.Number) across Markdown and JSON documents.
	// The loader never writes, so the repository is opened read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[VertexMetadata](repo), filepath.Base(absPath)), nil
}

// LoadModel reads every document of the repository into a model.
func (l *Loader) LoadModel(ctx context.Context) (*domain.Model, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	type vertexDoc struct {
		path string
		meta VertexMetadata
		body string
	}
	seen := make(map[string]string)
	vertices := make([]vertexDoc, 0, len(docs))

	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		meta := doc.Data
		meta.ID = id
		vertices = append(vertices, vertexDoc{path: doc.ID, meta: meta, body: doc.Content})
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i].meta.ID < vertices[j].meta.ID })

	model := &domain.Model{Name: l.Name}
	edgeIDs := make(map[string]bool)
	for _, v := range vertices {
		label := v.meta.Label
		if label == "" {
			label = heading(v.body)
		}
		model.Vertices = append(model.Vertices, domain.Vertex{ID: v.meta.ID, Label: label})

		if v.meta.Start {
			if model.Start != "" {
				return nil, fmt.Errorf("%w: both '%s' and '%s' are marked as start", domain.ErrInvalidModel, model.Start, v.meta.ID)
			}
			model.Start = v.meta.ID
		}

		for i, em := range v.meta.Edges {
			edge, err := convertEdge(v.meta.ID, i, em)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", v.path, err)
			}
			if edgeIDs[edge.ID] {
				edge.ID = fmt.Sprintf("%s#%d", edge.ID, i)
			}
			edgeIDs[edge.ID] = true
			model.Edges = append(model.Edges, edge)
		}
	}

	if model.Start == "" {
		if _, ok := seen[StartVertexID]; !ok {
			return nil, fmt.Errorf("%w: no vertex is marked as start and there is no '%s' document", domain.ErrInvalidModel, StartVertexID)
		}
		model.Start = StartVertexID
	}
	return model, nil
}

func convertEdge(source string, index int, em EdgeMetadata) (domain.Edge, error) {
	target := trimExtension(em.To)
	if target == "" {
		return domain.Edge{}, fmt.Errorf("%w: edge %d of '%s' has no target", domain.ErrInvalidModel, index, source)
	}

	id := em.ID
	if id == "" {
		id = source + "->" + target
	}
	edge := domain.Edge{ID: id, Label: em.Label, Source: source, Target: target}

	if em.Weight != nil {
		w, err := decodeWeight(em.Weight)
		if err != nil {
			return domain.Edge{}, fmt.Errorf("edge '%s' weight: %w", id, err)
		}
		if w < 0 || w > 1 {
			return domain.Edge{}, fmt.Errorf("%w: edge '%s' weight %v is outside [0,1]", domain.ErrInvalidModelWeight, id, w)
		}
		edge.Weight = domain.Weight(w)
	}
	return edge, nil
}

// decodeWeight converts a free-form frontmatter weight into a float.
func decodeWeight(raw any) (float64, error) {
	var w float64
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &w,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return 0, err
	}
	if err := dec.Decode(raw); err != nil {
		return 0, err
	}
	return w, nil
}

// heading returns the text of the first Markdown heading in body.
func heading(body string) string {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
