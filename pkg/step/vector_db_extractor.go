package step

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// VectorDBExtractor retrieves the nearest documents to a slot-held query
// from one or more document sets and writes the concatenated content into
// a result slot (spec.md §4.3, original_source
// hikari-llm/src/execution/steps/vector_db_extractor.rs and
// builder/steps/retriever.rs's primary/secondary document-set split).
type VectorDBExtractor struct {
	base
	retriever        Retriever
	querySlot        template.SlotPath
	resultSlot       SlotPath
	primarySet       string
	secondarySets    []string
	useSecondary     bool
	topK             int
}

// NewVectorDBExtractor builds a VectorDBExtractor step.
func NewVectorDBExtractor(id string, retriever Retriever, querySlot template.SlotPath, resultSlot SlotPath, primarySet string, secondarySets []string, useSecondary bool, topK int, conditions []agentspec.Condition) *VectorDBExtractor {
	if topK <= 0 {
		topK = 4
	}
	return &VectorDBExtractor{
		base:          newBase(id, conditions, false),
		retriever:     retriever,
		querySlot:     querySlot,
		resultSlot:    resultSlot,
		primarySet:    primarySet,
		secondarySets: secondarySets,
		useSecondary:  useSecondary,
		topK:          topK,
	}
}

// Execute resolves the query slot, searches each applicable document set,
// and joins the retrieved content into the result slot.
func (v *VectorDBExtractor) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	key := ec.KeyFor(v.querySlot.EffectiveDestination())
	query, ok, err := ec.Store.GetOne(ctx, key, v.querySlot.Name)
	if err != nil {
		return Response{}, fmt.Errorf("vector-db-extractor %s: resolve query slot: %w", v.id, err)
	}
	if !ok {
		return Response{}, fmt.Errorf("vector-db-extractor %s: query slot %s: %w", v.id, v.querySlot, &template.SlotNotFoundError{Path: v.querySlot})
	}

	sets := []string{v.primarySet}
	if v.useSecondary {
		sets = append(sets, v.secondarySets...)
	}

	var chunks []string
	for _, set := range sets {
		if set == "" {
			continue
		}
		docs, err := v.retriever.Retrieve(ctx, set, query, v.topK)
		if err != nil {
			return Response{}, fmt.Errorf("vector-db-extractor %s: retrieve from %q: %w", v.id, set, err)
		}
		for _, d := range docs {
			chunks = append(chunks, formatRetrievedDocument(d))
		}
	}

	return Response{Kind: ContentStepValue, Writes: []SlotWrite{
		{Path: v.resultSlot, Value: strings.Join(chunks, "\n---\n")},
	}}, nil
}

func (v *VectorDBExtractor) AddPreviousResponse(string) {}
func (v *VectorDBExtractor) RemovePreviousResponse()    {}

// formatRetrievedDocument folds a retrieved document's provenance (name
// and/or link, spec.md §6's Documents table) in alongside its content so
// the model sees where a snippet came from, not just its text.
func formatRetrievedDocument(d RetrievedDocument) string {
	if d.ProvenanceName == "" && d.ProvenanceLink == "" {
		return d.Content
	}
	var source string
	switch {
	case d.ProvenanceName != "" && d.ProvenanceLink != "":
		source = fmt.Sprintf("%s (%s)", d.ProvenanceName, d.ProvenanceLink)
	case d.ProvenanceName != "":
		source = d.ProvenanceName
	default:
		source = d.ProvenanceLink
	}
	return fmt.Sprintf("%s\nSource: %s", d.Content, source)
}
